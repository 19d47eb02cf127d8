package classify

import (
	"math"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// Recommendation classifies the outcome of a transposition analysis.
type Recommendation string

const (
	RecommendInsufficientData    Recommendation = "insufficient_data"
	RecommendLikelyTransposition Recommendation = "likely_transposition"
	RecommendLikelySubstitution  Recommendation = "likely_substitution"
	RecommendLikelyPolyalpha     Recommendation = "likely_polyalphabetic"
	RecommendAmbiguous           Recommendation = "ambiguous"
	RecommendUnclear             Recommendation = "unclear_cipher_type"
)

// TranspositionAnalysis reports how transposition-like a ciphertext looks.
// A score near 1 means the letter histogram fits the language while the
// text's own n-grams are scrambled; near 0 means the histogram itself is
// off, pointing at substitution instead. 0.5 is the neutral prior.
type TranspositionAnalysis struct {
	TranspositionScore float64        `json:"transposition_score"`
	ChiSquaredLetters  *float64       `json:"chi_squared_letters"` // nil below the letter minimum
	NGramScoreCipher   *float64       `json:"ngram_score_cipher"`  // nil below the letter minimum
	Recommendation     Recommendation `json:"recommendation"`
	Language           string         `json:"language,omitempty"`
}

// TranspositionComparison relates two analyses, typically a ciphertext and
// a trial rearrangement of it.
type TranspositionComparison struct {
	Text1Analysis  TranspositionAnalysis `json:"text1_analysis"`
	Text2Analysis  TranspositionAnalysis `json:"text2_analysis"`
	Comparison     ComparisonSummary     `json:"comparison"`
	Recommendation Recommendation        `json:"recommendation"`
}

// ComparisonSummary is the delta between two transposition analyses.
type ComparisonSummary struct {
	ScoreDifference float64 `json:"score_difference"`
	Interpretation  string  `json:"interpretation"`
}

// AnalyzeTransposition scores how transposition-like text is for the given
// language ("auto" to detect). It never fails: fewer than ten letters yield
// the neutral score 0.5 with an insufficient_data recommendation.
func (c *Classifier) AnalyzeTransposition(text, language string) TranspositionAnalysis {
	normalized := textstat.Normalize(text)
	if len(normalized) < minClassifyLetters {
		return TranspositionAnalysis{
			TranspositionScore: 0.5,
			Recommendation:     RecommendInsufficientData,
		}
	}

	pack := c.resolvePack(text, language)
	if pack == nil {
		return TranspositionAnalysis{
			TranspositionScore: 0.5,
			Recommendation:     RecommendInsufficientData,
		}
	}
	signals := c.measure(text, pack)

	// Frequency fit says "the letters are the language's letters";
	// low naturalness says "but not in the language's order". Both at
	// once is the transposition signature. The length weight pulls the
	// score toward the neutral 0.5 when there is little data.
	fit := 1 / (1 + signals.ChiLanguage/60)
	raw := fit * (1 - signals.Naturalness)
	weight := math.Min(1, float64(signals.Length-minClassifyLetters)/90)
	score := 0.5 + weight*(raw-0.5)

	chi := signals.ChiLanguage
	naturalness := signals.Naturalness
	return TranspositionAnalysis{
		TranspositionScore: score,
		ChiSquaredLetters:  &chi,
		NGramScoreCipher:   &naturalness,
		Recommendation:     recommend(score, signals.ChiUniform),
		Language:           pack.Name,
	}
}

// recommend maps a transposition score to a next step. Low scores split on
// the uniform fit: a flat histogram points at polyalphabetic work, a skewed
// one at plain substitution.
func recommend(score, chiUniform float64) Recommendation {
	switch {
	case score >= 0.65:
		return RecommendLikelyTransposition
	case score <= 0.35:
		if chiUniform < flatChiBound {
			return RecommendLikelyPolyalpha
		}
		return RecommendLikelySubstitution
	case score >= 0.45 && score <= 0.55:
		return RecommendAmbiguous
	default:
		return RecommendUnclear
	}
}

// CompareTransposition analyzes two texts and relates their scores. The
// overall recommendation follows the higher-scoring text.
func (c *Classifier) CompareTransposition(text1, text2, language string) TranspositionComparison {
	first := c.AnalyzeTransposition(text1, language)
	second := c.AnalyzeTransposition(text2, language)

	difference := math.Abs(first.TranspositionScore - second.TranspositionScore)
	var interpretation string
	switch {
	case difference < 0.1:
		interpretation = "both texts show similar transposition characteristics"
	case first.TranspositionScore > second.TranspositionScore:
		interpretation = "text1 looks more transposition-like than text2"
	default:
		interpretation = "text2 looks more transposition-like than text1"
	}

	recommendation := first.Recommendation
	if second.TranspositionScore > first.TranspositionScore {
		recommendation = second.Recommendation
	}
	return TranspositionComparison{
		Text1Analysis:  first,
		Text2Analysis:  second,
		Comparison:     ComparisonSummary{ScoreDifference: difference, Interpretation: interpretation},
		Recommendation: recommendation,
	}
}
