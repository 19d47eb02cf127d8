// Package classify identifies which cipher family most plausibly produced a
// ciphertext. It never decrypts anything: every hypothesis is scored purely
// from letter statistics (index of coincidence, chi-squared fits, repeated
// sequence distances, and n-gram naturalness) measured against a language
// pack. Results are ranked candidates, not verdicts; callers that need a
// plaintext check follow up with the dictionary package.
package classify

import (
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// Family labels one cipher family hypothesis.
type Family string

const (
	FamilyMonoalphabetic Family = "monoalphabetic-substitution"
	FamilyCaesar         Family = "caesar-shift"
	FamilyVigenere       Family = "vigenere-like"
	FamilyTransposition  Family = "transposition"
	FamilyRandom         Family = "random-unknown"
	FamilyUnknown        Family = "unknown"
)

// FamilyCandidate is one scored hypothesis about the cipher family behind a
// text.
type FamilyCandidate struct {
	Family     Family  `json:"family"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reason     string  `json:"reason"`

	// SuggestedKeyLength is set for periodic families when the repeated
	// sequence analysis supports a period estimate.
	SuggestedKeyLength int `json:"suggested_key_length,omitempty"`
}

// Result is the outcome of a classification. Families is sorted by
// confidence, best first, and always holds at least one entry.
type Result struct {
	Language string            `json:"language,omitempty"`
	Families []FamilyCandidate `json:"families"`
	Stats    textstat.Stats    `json:"stats"`

	// Signals carries the full evidence snapshot when the text was long
	// enough to measure one. Early returns (Polybius, too-short) leave
	// it nil.
	Signals *Signals `json:"signals,omitempty"`
}

// Best returns the top-ranked family candidate.
func (r Result) Best() FamilyCandidate {
	if len(r.Families) == 0 {
		return FamilyCandidate{Family: FamilyUnknown}
	}
	return r.Families[0]
}

// Candidate returns the candidate for a specific family, if present.
func (r Result) Candidate(f Family) (FamilyCandidate, bool) {
	for _, c := range r.Families {
		if c.Family == f {
			return c, true
		}
	}
	return FamilyCandidate{}, false
}

// Signals holds the statistical evidence the family detectors score
// against. All values are measured once per classification over the same
// normalized text and language pack.
type Signals struct {
	// Language is the pack the chi-squared and IC figures refer to.
	Language string `json:"language"`

	// Length is the normalized letter count.
	Length int `json:"length"`

	// IC is the x26 normalized index of coincidence.
	IC float64 `json:"ic"`

	// ICCheck compares IC against the language's expected band.
	ICCheck textstat.ICValidation `json:"ic_check"`

	// ChiLanguage is the chi-squared fit of the letter histogram against
	// the language pack, without any rotation.
	ChiLanguage float64 `json:"chi_language"`

	// ChiUniform is the fit against a flat distribution. Polyalphabetic
	// output drives this down while substitution output leaves it high.
	ChiUniform float64 `json:"chi_uniform"`

	// MinRotationChi is the best language fit over all 26 alphabet
	// rotations and BestRotation the shift that achieved it.
	MinRotationChi float64 `json:"min_rotation_chi"`
	BestRotation   int     `json:"best_rotation"`

	// Naturalness is the [0,1] trigram plausibility of the raw ciphertext.
	Naturalness float64 `json:"naturalness"`

	// KeyLengths are the Kasiski key-length estimates, best first, and
	// RepeatDistanceCount the number of repeat distances behind them.
	KeyLengths          []textstat.KeyLengthEstimate `json:"key_lengths,omitempty"`
	RepeatDistanceCount int                          `json:"repeat_distance_count"`
}

var familyDescriptions = map[Family]string{
	FamilyMonoalphabetic: "Each plaintext letter is replaced by one fixed substitute, so single-letter frequency structure survives under renaming.",
	FamilyCaesar:         "A monoalphabetic substitution that rotates the whole alphabet by one fixed shift.",
	FamilyVigenere:       "A periodic polyalphabetic substitution where a repeating key applies a different shift at each position.",
	FamilyTransposition:  "Letters are reordered rather than replaced, preserving letter frequencies while destroying adjacency.",
	FamilyRandom:         "Statistics sit near uniform random text, suggesting strong encryption, compression, or non-textual data.",
	FamilyUnknown:        "The statistics do not match any known cipher family signature.",
}

// Describe returns a one-sentence explanation of a family tag. Tags outside
// the known set get a generic unknown description.
func Describe(f Family) string {
	if d, ok := familyDescriptions[f]; ok {
		return d
	}
	return "unknown cipher family: " + string(f)
}
