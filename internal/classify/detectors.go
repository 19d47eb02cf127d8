package classify

import (
	"fmt"
	"math"
)

// Detection gates. Confidence weights live inline in each detector; the
// thresholds are shared with the transposition analyzer where noted.
const (
	// minClassifyLetters is the normalized letter count below which no
	// statistic here means anything.
	minClassifyLetters = 10

	// caesarMaxRotationChi bounds the rotated chi-squared fit a Caesar
	// hypothesis may have.
	caesarMaxRotationChi = 100.0

	// vigenereMinICDrop is how far IC must sit below the language
	// expectation before a periodic hypothesis is entertained, and
	// vigenereMinRatio / vigenereMinDistances how much Kasiski support it
	// needs. Without that support a low IC alone must not let this family
	// outrank a substitution candidate.
	vigenereMinICDrop    = 0.12
	vigenereMinRatio     = 0.6
	vigenereMinDistances = 3

	// transpositionMaxNaturalness and transpositionMaxChi gate the
	// frequency-preserved-but-scrambled signature.
	transpositionMaxNaturalness = 0.35
	transpositionMaxChi         = 80.0

	// randomMaxIC is the ceiling under which text starts looking like
	// uniform noise (theoretical random IC is 1.0).
	randomMaxIC          = 1.15
	randomMaxNaturalness = 0.3

	// flatChiBound splits histograms that hug the uniform distribution
	// from ones that keep a language's skew.
	flatChiBound = 80.0
)

// detectMonoalphabetic scores the substitution hypothesis: any renaming of
// the alphabet preserves IC, so an IC inside the language's expected band is
// the whole signal.
func detectMonoalphabetic(s *Signals) *FamilyCandidate {
	if !s.ICCheck.Valid || s.ICCheck.Tolerance.Absolute <= 0 {
		return nil
	}
	closeness := 1 - s.ICCheck.Difference/s.ICCheck.Tolerance.Absolute
	return &FamilyCandidate{
		Family:     FamilyMonoalphabetic,
		Confidence: 0.45 + 0.35*closeness,
		Reason: fmt.Sprintf("IC %.2f is inside the expected %s band (%.2f +/- %.2f)",
			s.IC, s.Language, s.ICCheck.ExpectedIC, s.ICCheck.Tolerance.Absolute),
	}
}

// detectCaesar scores the shift hypothesis: some rotation of the histogram
// must line up with the language table, not just preserve its IC.
func detectCaesar(s *Signals) *FamilyCandidate {
	if !s.ICCheck.Valid || s.MinRotationChi > caesarMaxRotationChi {
		return nil
	}
	fit := 1 - s.MinRotationChi/caesarMaxRotationChi
	return &FamilyCandidate{
		Family:     FamilyCaesar,
		Confidence: 0.40 + 0.35*fit,
		Reason: fmt.Sprintf("letter histogram matches %s after rotating %d positions (chi-squared %.1f)",
			s.Language, s.BestRotation, s.MinRotationChi),
	}
}

// detectVigenere scores the periodic hypothesis. It needs both a depressed
// IC and repeated-sequence support for a concrete key length.
func detectVigenere(s *Signals) *FamilyCandidate {
	drop := s.ICCheck.ExpectedIC - s.IC
	if drop < vigenereMinICDrop || len(s.KeyLengths) == 0 || s.RepeatDistanceCount < vigenereMinDistances {
		return nil
	}
	top := s.KeyLengths[0]
	if top.Ratio < vigenereMinRatio {
		return nil
	}
	confidence := 0.40 +
		0.2*math.Min(1, (drop-vigenereMinICDrop)/0.4) +
		0.2*top.Ratio
	if s.ChiUniform < flatChiBound {
		confidence += 0.1
	}
	return &FamilyCandidate{
		Family:             FamilyVigenere,
		Confidence:         confidence,
		SuggestedKeyLength: top.Length,
		Reason: fmt.Sprintf("IC %.2f sits below the %s expectation %.2f and %d of %d repeat distances favor key length %d",
			s.IC, s.Language, s.ICCheck.ExpectedIC, top.Support, s.RepeatDistanceCount, top.Length),
	}
}

// detectTransposition scores the reordering hypothesis: letter frequencies
// still fit the language while the text's own n-grams look scrambled.
func detectTransposition(s *Signals) *FamilyCandidate {
	if !s.ICCheck.Valid || s.Naturalness > transpositionMaxNaturalness || s.ChiLanguage > transpositionMaxChi {
		return nil
	}
	scrambled := 1 - s.Naturalness/transpositionMaxNaturalness
	return &FamilyCandidate{
		Family:     FamilyTransposition,
		Confidence: 0.35 + 0.25*scrambled,
		Reason: fmt.Sprintf("letter frequencies fit %s (chi-squared %.1f) while adjacent n-grams look scrambled",
			s.Language, s.ChiLanguage),
	}
}

// detectRandom scores the noise hypothesis: IC near the uniform baseline of
// 1.0 with no trigram structure. Capped at 0.7 because these statistics
// alone cannot rule out an unusually strong cipher.
func detectRandom(s *Signals) *FamilyCandidate {
	if s.IC > randomMaxIC || s.Naturalness > randomMaxNaturalness {
		return nil
	}
	confidence := 0.45 + 0.3*(randomMaxIC-s.IC)/0.15
	if confidence > 0.7 {
		confidence = 0.7
	}
	return &FamilyCandidate{
		Family:     FamilyRandom,
		Confidence: confidence,
		Reason:     fmt.Sprintf("IC %.2f is near the uniform random baseline 1.00 with no recognizable n-gram structure", s.IC),
	}
}
