package dictionary

import (
	"sort"
	"strings"
)

const (
	// Confidence blends word coverage and character coverage. Character
	// coverage keeps one long gibberish token from sinking a text whose
	// remaining words are all real.
	wordCoverageWeight = 0.7
	charCoverageWeight = 0.3

	// A text validates when its blended confidence clears the threshold
	// and at least two distinct token positions hit the dictionary; one
	// lucky short word is not evidence.
	defaultMinConfidence = 0.6
	defaultMinValidWords = 2
)

// ValidationResult reports how much of a text the dictionary recognizes.
// Error is set instead of failing when the input has nothing to validate.
type ValidationResult struct {
	Valid        bool    `json:"valid"`
	Confidence   float64 `json:"confidence"` // 0.0 to 1.0
	WordCount    int     `json:"word_count"`
	ValidWords   int     `json:"valid_words"`
	WordCoverage float64 `json:"word_coverage"`
	CharCoverage float64 `json:"char_coverage"`
	Error        string  `json:"error,omitempty"`
}

// Validator scores candidate plaintext against a dictionary.
type Validator struct {
	dict          *Dictionary
	minConfidence float64
	minValidWords int
}

// NewValidator returns a validator with the default acceptance thresholds.
func NewValidator(dict *Dictionary) *Validator {
	return &Validator{
		dict:          dict,
		minConfidence: defaultMinConfidence,
		minValidWords: defaultMinValidWords,
	}
}

// tokenize splits on every non-letter, so punctuation and digits never
// reach the dictionary.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	})
}

// Validate scores text against the dictionary. It never fails: text with
// no words at all reports Valid=false with the Error field set.
func (v *Validator) Validate(text string) ValidationResult {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return ValidationResult{Error: "text contains no words to validate"}
	}

	validWords, validChars, totalChars := 0, 0, 0
	for _, token := range tokens {
		totalChars += len(token)
		if v.dict.Contains(token) {
			validWords++
			validChars += len(token)
		}
	}

	result := ValidationResult{
		WordCount:    len(tokens),
		ValidWords:   validWords,
		WordCoverage: float64(validWords) / float64(len(tokens)),
		CharCoverage: float64(validChars) / float64(totalChars),
	}
	result.Confidence = wordCoverageWeight*result.WordCoverage + charCoverageWeight*result.CharCoverage
	result.Valid = result.Confidence >= v.minConfidence && validWords >= v.minValidWords
	return result
}

// HasValidWords reports whether at least minCount tokens hit the
// dictionary. Cheaper than Validate when only the floor matters.
func (v *Validator) HasValidWords(text string, minCount int) bool {
	if minCount <= 0 {
		return true
	}
	found := 0
	for _, token := range tokenize(text) {
		if v.dict.Contains(token) {
			found++
			if found >= minCount {
				return true
			}
		}
	}
	return false
}

// Candidate is one trial decryption to re-rank, typically the output of an
// external brute-force pass.
type Candidate struct {
	Plaintext  string  `json:"plaintext"`
	Confidence float64 `json:"confidence"` // the producer's prior, 0.0 to 1.0
	Method     string  `json:"method,omitempty"`
}

// RankedCandidate pairs a candidate with its dictionary evidence. Combined
// is the mean of the producer's prior and the dictionary confidence.
type RankedCandidate struct {
	Candidate
	Validation ValidationResult `json:"validation"`
	Combined   float64          `json:"combined"`
}

// ValidateMultiple re-scores candidates with dictionary evidence and
// returns them sorted best-first. The input slice is not modified.
func (v *Validator) ValidateMultiple(candidates []Candidate) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		validation := v.Validate(c.Plaintext)
		ranked = append(ranked, RankedCandidate{
			Candidate:  c,
			Validation: validation,
			Combined:   (c.Confidence + validation.Confidence) / 2,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Combined > ranked[j].Combined
	})
	return ranked
}
