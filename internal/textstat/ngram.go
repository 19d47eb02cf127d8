package textstat

import "math"

// FloorLogProb is the log10 probability assigned to n-grams absent from a
// model's table: log10(10^-5 / 100). Sparse tables must not be renormalized
// over their own partial sum, so unseen n-grams share one fixed floor.
const FloorLogProb = -7.0

// referenceHitRate is the fraction of sliding windows a natural-language
// text typically matches against a sparse top-K table. Observed rates get
// normalized against it when mapping to [0,1].
const referenceHitRate = 0.12

// NGramModel scores text against a per-language n-gram frequency table
// converted to log10 probabilities. Construction is cheap and the model is
// immutable afterwards, so one instance can serve concurrent callers.
type NGramModel struct {
	order    int
	script   Script
	logProbs map[string]float64
}

// NewNGramModel builds a model of the given order from a sparse percentage
// table. Entries with non-positive percentages are dropped rather than
// floored so they cannot shadow the floor value.
func NewNGramModel(order int, entries map[string]float64) *NGramModel {
	return NewNGramModelScript(order, entries, ScriptLatin)
}

// NewNGramModelScript builds a model whose Score normalizes input text for
// the given script before windowing.
func NewNGramModelScript(order int, entries map[string]float64, script Script) *NGramModel {
	if order < 1 {
		order = 1
	}
	logProbs := make(map[string]float64, len(entries))
	for ngram, pct := range entries {
		if pct <= 0 {
			continue
		}
		// Percentages convert to probabilities with the -2 shift.
		logProbs[ngram] = math.Log10(pct) - 2
	}
	return &NGramModel{order: order, script: script, logProbs: logProbs}
}

// Order returns the model's n-gram size.
func (m *NGramModel) Order() int { return m.order }

// LogProb returns the stored log probability for an n-gram, or the floor
// when the table has never seen it.
func (m *NGramModel) LogProb(ngram string) float64 {
	if lp, ok := m.logProbs[ngram]; ok {
		return lp
	}
	return FloorLogProb
}

// Score sums the log probability of every sliding window of the model's
// order over the normalized text. Texts shorter than the order earn the
// full floor penalty per letter. Higher (less negative) is more natural.
func (m *NGramModel) Score(text string) float64 {
	runes := []rune(NormalizeScript(text, m.script))
	if len(runes) < m.order {
		return FloorLogProb * float64(len(runes))
	}
	var sum float64
	for i := 0; i+m.order <= len(runes); i++ {
		sum += m.LogProb(string(runes[i : i+m.order]))
	}
	return sum
}

// HitRate reports the fraction of sliding windows present in the model's
// table. Zero when the text is shorter than the model order.
func (m *NGramModel) HitRate(text string) float64 {
	runes := []rune(NormalizeScript(text, m.script))
	windows := len(runes) - m.order + 1
	if windows < 1 {
		return 0
	}
	hits := 0
	for i := 0; i < windows; i++ {
		if _, ok := m.logProbs[string(runes[i:i+m.order])]; ok {
			hits++
		}
	}
	return float64(hits) / float64(windows)
}

// Naturalness maps how plaintext-like the text looks against this model
// into [0,1]. Sparse tables make the average log probability hug the floor
// even on genuine plaintext, so the window hit rate carries the signal:
// matching as often as ordinary prose saturates to 1, while shuffled or
// substituted text lands near 0.
func (m *NGramModel) Naturalness(text string) float64 {
	score := m.HitRate(text) / referenceHitRate
	if score > 1 {
		return 1
	}
	return score
}
