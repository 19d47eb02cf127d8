// Package langid identifies the language of a text by scoring its letter
// distribution against every loaded language pack. Scores are chi-squared
// values, so lower is a better fit. For Latin-script packs the score is
// minimized over all 26 alphabet rotations, which keeps identification
// stable under Caesar-shifted input: a shifted English text still scores
// like English instead of like noise.
package langid

import (
	"sort"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// DefaultAmbiguityMargin is the score difference under which the top two
// candidates are too close to call.
const DefaultAmbiguityMargin = 5.0

// Candidate is one language hypothesis. Score is the chi-squared fit
// against the pack's letter table; Rotation is the alphabet shift that
// achieved it for Latin packs, 0 otherwise.
type Candidate struct {
	Language string  `json:"language"`
	Script   string  `json:"script"`
	Score    float64 `json:"score"`
	Rotation int     `json:"rotation,omitempty"`
}

// Detector scores texts against a fixed set of language packs. It holds
// only read-only pack data and is safe for concurrent use.
type Detector struct {
	packs map[string]*langpack.Pack
}

// NewDetector builds a detector over the given packs.
func NewDetector(packs map[string]*langpack.Pack) *Detector {
	return &Detector{packs: packs}
}

// NewBuiltinDetector builds a detector over the embedded packs.
func NewBuiltinDetector() (*Detector, error) {
	packs, err := langpack.Builtin()
	if err != nil {
		return nil, err
	}
	return NewDetector(packs), nil
}

// Languages returns the pack names the detector scores against, sorted.
func (d *Detector) Languages() []string {
	names := make([]string, 0, len(d.packs))
	for name := range d.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pack returns the named pack, if loaded.
func (d *Detector) Pack(name string) (*langpack.Pack, bool) {
	pack, ok := d.packs[name]
	return pack, ok
}

// Detect scores the text against every pack whose script actually appears
// in it and returns the candidates sorted best-first. A pack whose script
// normalization leaves nothing to measure is excluded: it cannot be the
// text's language and its chi-squared against an empty observation would
// only reflect the table's mass. Empty or fully non-letter input yields an
// empty list.
func (d *Detector) Detect(text string) []Candidate {
	var candidates []Candidate
	for _, pack := range d.packs {
		script := pack.ScriptKind()
		normalized := textstat.NormalizeScript(text, script)
		if normalized == "" {
			continue
		}
		observed := textstat.Frequencies(normalized)

		var score float64
		var rotation int
		if script == textstat.ScriptLatin {
			score, rotation = textstat.MinRotationChiSquared(observed, pack.Letters)
		} else {
			score = textstat.ChiSquared(observed, pack.Letters)
		}
		candidates = append(candidates, Candidate{
			Language: pack.Name,
			Script:   string(script),
			Score:    score,
			Rotation: rotation,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		return candidates[i].Language < candidates[j].Language
	})
	return candidates
}

// Best returns the single best candidate, or false when the text gives no
// evidence for any pack.
func (d *Detector) Best(text string) (Candidate, bool) {
	candidates := d.Detect(text)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// Ambiguous reports whether the top two candidates are within margin of
// each other. Callers presenting a single winner should check this first.
func Ambiguous(candidates []Candidate, margin float64) bool {
	if margin <= 0 {
		margin = DefaultAmbiguityMargin
	}
	if len(candidates) < 2 {
		return false
	}
	return candidates[1].Score-candidates[0].Score < margin
}
