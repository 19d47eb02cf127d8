package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langid"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// defaultLanguage backs every unknown or non-Latin language request. The
// family statistics are defined over A-Z, so this is the band everything
// degrades to rather than failing.
const defaultLanguage = "english"

// polybiusPattern matches space-separated two-digit groups with both digits
// in 1-5: the coordinate alphabet of a Polybius square. Checked against the
// raw text because normalization strips the digits entirely.
var polybiusPattern = regexp.MustCompile(`^[1-5][1-5](?:\s+[1-5][1-5])+$`)

// Classifier scores ciphertext against the registered cipher families.
// It holds only read-only pack data and is safe for concurrent use.
type Classifier struct {
	langs *langid.Detector
}

// NewClassifier returns a classifier backed by the built-in language packs.
func NewClassifier() (*Classifier, error) {
	langs, err := langid.NewBuiltinDetector()
	if err != nil {
		return nil, fmt.Errorf("loading built-in language packs: %w", err)
	}
	return NewClassifierWithDetector(langs), nil
}

// NewClassifierWithDetector builds a classifier over an existing language
// detector. The detector should include an english pack: it is the fallback
// for unknown and non-Latin language names.
func NewClassifierWithDetector(langs *langid.Detector) *Classifier {
	return &Classifier{langs: langs}
}

// Identify scores text against every registered cipher family and returns
// the candidates ranked by confidence. It never fails: empty, degenerate,
// or too-short input yields a single low-confidence unknown candidate.
// language names a pack, or "auto" to detect one from the text.
func (c *Classifier) Identify(text, language string) Result {
	result := Result{Stats: textstat.ComputeStats(text)}

	// A Polybius square leaves no letters to normalize, so its signature
	// has to be read off the raw text before the length check.
	if polybiusPattern.MatchString(strings.TrimSpace(text)) {
		result.Families = []FamilyCandidate{{
			Family:     FamilyMonoalphabetic,
			Confidence: 0.85,
			Reason:     "space-separated digit pairs in the range 11-55 match a Polybius square signature",
		}}
		return result
	}

	if result.Stats.Length < minClassifyLetters {
		result.Families = []FamilyCandidate{{
			Family:     FamilyUnknown,
			Confidence: 0.2,
			Reason: fmt.Sprintf("text too short for statistical classification: %d letters, need at least %d",
				result.Stats.Length, minClassifyLetters),
		}}
		return result
	}

	pack := c.resolvePack(text, language)
	if pack == nil {
		result.Families = []FamilyCandidate{{
			Family:     FamilyUnknown,
			Confidence: 0.2,
			Reason:     "no Latin-script language pack is available to score against",
		}}
		return result
	}
	result.Language = pack.Name

	signals := c.measure(text, pack)
	result.Signals = signals
	for _, reg := range registeredDetectors() {
		if candidate := reg.detect(signals); candidate != nil {
			result.Families = append(result.Families, *candidate)
		}
	}
	result.Families = applyFamilyInvariants(result.Families)

	if len(result.Families) == 0 {
		result.Families = []FamilyCandidate{{
			Family:     FamilyUnknown,
			Confidence: 0.3,
			Reason:     "no cipher family signature matched; the letter statistics are inconclusive",
		}}
		return result
	}

	sort.SliceStable(result.Families, func(i, j int) bool {
		return result.Families[i].Confidence > result.Families[j].Confidence
	})
	return result
}

// resolvePack picks the language pack the statistics run against: the named
// pack when it exists and is Latin script, the detected language for
// "auto", and the english pack when neither applies. Returns nil only when
// the detector holds no Latin pack at all.
func (c *Classifier) resolvePack(text, language string) *langpack.Pack {
	name := strings.ToLower(strings.TrimSpace(language))
	if name == "" || name == "auto" {
		if best, ok := c.langs.Best(text); ok {
			name = best.Language
		} else {
			name = defaultLanguage
		}
	}
	if pack, ok := c.langs.Pack(name); ok && pack.ScriptKind() == textstat.ScriptLatin {
		return pack
	}
	if pack, ok := c.langs.Pack(defaultLanguage); ok && pack.ScriptKind() == textstat.ScriptLatin {
		return pack
	}
	for _, candidate := range c.langs.Languages() {
		if pack, ok := c.langs.Pack(candidate); ok && pack.ScriptKind() == textstat.ScriptLatin {
			return pack
		}
	}
	return nil
}

// measure computes every statistic the detectors need, once.
func (c *Classifier) measure(text string, pack *langpack.Pack) *Signals {
	normalized := textstat.Normalize(text)
	observed := textstat.Frequencies(normalized)
	minRotationChi, bestRotation := textstat.MinRotationChiSquared(observed, pack.Letters)

	naturalness := 0.0
	if model := pack.Model(3); model != nil {
		naturalness = model.Naturalness(normalized)
	}

	ic := textstat.IndexOfCoincidence(normalized)
	return &Signals{
		Language:            pack.Name,
		Length:              len(normalized),
		IC:                  ic,
		ICCheck:             textstat.ValidateIC(ic, len(normalized), pack.Name, textstat.ICOptions{BaseIC: pack.BaselineIC()}),
		ChiLanguage:         textstat.ChiSquared(observed, pack.Letters),
		ChiUniform:          textstat.ChiSquared(observed, textstat.UniformLetters()),
		MinRotationChi:      minRotationChi,
		BestRotation:        bestRotation,
		Naturalness:         naturalness,
		KeyLengths:          textstat.SuggestKeyLengths(normalized),
		RepeatDistanceCount: len(textstat.RepeatDistances(normalized)),
	}
}

// applyFamilyInvariants enforces the cross-family ordering rules after the
// detectors have spoken: Caesar is a special case of monoalphabetic
// substitution so it can never outrank it, and transposition stays behind a
// strong substitution candidate because both signatures preserve IC but
// only substitution is confirmed by the rotation fit.
func applyFamilyInvariants(candidates []FamilyCandidate) []FamilyCandidate {
	index := func(f Family) int {
		for i := range candidates {
			if candidates[i].Family == f {
				return i
			}
		}
		return -1
	}

	if caesar := index(FamilyCaesar); caesar >= 0 {
		if mono := index(FamilyMonoalphabetic); mono < 0 {
			candidates = append(candidates, FamilyCandidate{
				Family:     FamilyMonoalphabetic,
				Confidence: candidates[caesar].Confidence,
				Reason:     "a Caesar shift is itself a monoalphabetic substitution",
			})
		} else if candidates[mono].Confidence < candidates[caesar].Confidence {
			candidates[mono].Confidence = candidates[caesar].Confidence
		}
	}

	mono, transposition := index(FamilyMonoalphabetic), index(FamilyTransposition)
	if mono >= 0 && transposition >= 0 &&
		candidates[mono].Confidence >= 0.5 &&
		candidates[transposition].Confidence > candidates[mono].Confidence-0.05 {
		candidates[transposition].Confidence = candidates[mono].Confidence - 0.05
	}
	return candidates
}
