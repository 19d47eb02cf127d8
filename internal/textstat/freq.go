package textstat

// Frequencies returns the percentage distribution of the runes in an
// already-normalized text. Empty input yields an empty map.
func Frequencies(normalized string) map[string]float64 {
	runes := []rune(normalized)
	if len(runes) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int)
	for _, r := range runes {
		counts[string(r)]++
	}
	out := make(map[string]float64, len(counts))
	total := float64(len(runes))
	for k, c := range counts {
		out[k] = float64(c) / total * 100
	}
	return out
}

// LetterFrequencies normalizes text to A-Z and returns percentage
// frequencies per letter.
func LetterFrequencies(text string) map[string]float64 {
	return Frequencies(Normalize(text))
}

// NGramFrequencies returns the percentage distribution of sliding rune
// windows of size n over an already-normalized text. Texts shorter than n
// yield an empty map.
func NGramFrequencies(normalized string, n int) map[string]float64 {
	if n < 1 {
		return map[string]float64{}
	}
	runes := []rune(normalized)
	windows := len(runes) - n + 1
	if windows < 1 {
		return map[string]float64{}
	}
	counts := make(map[string]int)
	for i := 0; i < windows; i++ {
		counts[string(runes[i:i+n])]++
	}
	out := make(map[string]float64, len(counts))
	total := float64(windows)
	for k, c := range counts {
		out[k] = float64(c) / total * 100
	}
	return out
}

// Stats bundles the derived statistics every analysis call recomputes from
// scratch. Nothing here is cached between calls.
type Stats struct {
	Length            int                        `json:"length"`
	IC                float64                    `json:"ic"`
	LetterFrequencies map[string]float64         `json:"letter_frequencies,omitempty"`
	NGramFrequencies  map[int]map[string]float64 `json:"ngram_frequencies,omitempty"`
}

// ComputeStats normalizes text once and derives length, IC, letter
// frequencies, and the requested n-gram orders.
func ComputeStats(text string, orders ...int) Stats {
	normalized := Normalize(text)
	stats := Stats{
		Length:            len(normalized),
		IC:                indexOfCoincidence(normalized),
		LetterFrequencies: Frequencies(normalized),
	}
	if len(orders) > 0 {
		stats.NGramFrequencies = make(map[int]map[string]float64, len(orders))
		for _, n := range orders {
			if n < 2 {
				continue
			}
			stats.NGramFrequencies[n] = NGramFrequencies(normalized, n)
		}
	}
	return stats
}
