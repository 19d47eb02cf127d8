package dictionary

import (
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// SegmentOptions tune the word segmenter.
type SegmentOptions struct {
	// MaxWordLength bounds the dictionary probes per position.
	MaxWordLength int
	// MinWordLength keeps the dynamic program from shredding text into
	// one- and two-letter fragments.
	MinWordLength int
	// PreserveUnknown falls back to a greedy scan that emits unmatched
	// spans as single characters instead of reporting no segmentation.
	PreserveUnknown bool
}

// DefaultSegmentOptions returns the standard tuning.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		MaxWordLength:   20,
		MinWordLength:   2,
		PreserveUnknown: true,
	}
}

func (o SegmentOptions) withDefaults() SegmentOptions {
	if o.MaxWordLength <= 0 {
		o.MaxWordLength = 20
	}
	if o.MinWordLength <= 0 {
		o.MinWordLength = 2
	}
	return o
}

// Segmenter restores word boundaries in boundary-free uppercase text, the
// usual shape of a decryption candidate.
type Segmenter struct {
	dict *Dictionary
	opts SegmentOptions
}

// NewSegmenter returns a segmenter with the default options.
func NewSegmenter(dict *Dictionary) *Segmenter {
	return NewSegmenterOptions(dict, DefaultSegmentOptions())
}

// NewSegmenterOptions returns a segmenter with explicit options.
func NewSegmenterOptions(dict *Dictionary, opts SegmentOptions) *Segmenter {
	return &Segmenter{dict: dict, opts: opts.withDefaults()}
}

// SegmentationResult reports a segmentation and how much of it the
// dictionary recognizes.
type SegmentationResult struct {
	Text         string  `json:"text"`
	Complete     bool    `json:"complete"` // every letter covered by dictionary words
	Confidence   float64 `json:"confidence"`
	WordCount    int     `json:"word_count"`
	ValidWords   int     `json:"valid_words"`
	WordCoverage float64 `json:"word_coverage"`
	CharCoverage float64 `json:"char_coverage"`
}

// Segment normalizes text to A-Z and splits it into dictionary words
// joined by single spaces. When no full segmentation exists and
// PreserveUnknown is set, unmatched spans come back as single characters;
// otherwise the result is empty.
func (s *Segmenter) Segment(text string) string {
	words, _ := s.segmentWords(textstat.Normalize(text))
	return strings.Join(words, " ")
}

// SegmentWithConfidence segments and scores the result with the same
// coverage blend the validator uses.
func (s *Segmenter) SegmentWithConfidence(text string) SegmentationResult {
	words, complete := s.segmentWords(textstat.Normalize(text))
	result := SegmentationResult{
		Text:     strings.Join(words, " "),
		Complete: complete,
	}
	if len(words) == 0 {
		return result
	}

	validWords, validChars, totalChars := 0, 0, 0
	for _, w := range words {
		totalChars += len(w)
		if s.dict.Contains(w) {
			validWords++
			validChars += len(w)
		}
	}
	result.WordCount = len(words)
	result.ValidWords = validWords
	result.WordCoverage = float64(validWords) / float64(len(words))
	result.CharCoverage = float64(validChars) / float64(totalChars)
	result.Confidence = wordCoverageWeight*result.WordCoverage + charCoverageWeight*result.CharCoverage
	return result
}

func (s *Segmenter) segmentWords(normalized string) ([]string, bool) {
	if normalized == "" {
		return nil, false
	}
	if words, ok := s.dynamicSegment(normalized); ok {
		return words, true
	}
	if !s.opts.PreserveUnknown {
		return nil, false
	}
	return s.greedySegment(normalized), false
}

// dpEntry is the best segmentation of a prefix: most words first, then the
// higher score. Score is the summed length of matched words, which favors
// decompositions built from longer dictionary words when word counts tie.
type dpEntry struct {
	words int
	score int
	prev  int
	size  int
}

func (s *Segmenter) dynamicSegment(text string) ([]string, bool) {
	n := len(text)
	dp := make([]dpEntry, n+1)
	for i := 1; i <= n; i++ {
		dp[i].words = -1
	}

	for i := 0; i < n; i++ {
		if dp[i].words < 0 {
			continue
		}
		limit := i + s.opts.MaxWordLength
		if limit > n {
			limit = n
		}
		for j := i + s.opts.MinWordLength; j <= limit; j++ {
			if !s.dict.Contains(text[i:j]) {
				continue
			}
			words, score := dp[i].words+1, dp[i].score+(j-i)
			if dp[j].words < 0 || words > dp[j].words ||
				(words == dp[j].words && score > dp[j].score) {
				dp[j] = dpEntry{words: words, score: score, prev: i, size: j - i}
			}
		}
	}
	if dp[n].words < 0 {
		return nil, false
	}

	words := make([]string, 0, dp[n].words)
	for i := n; i > 0; i = dp[i].prev {
		words = append(words, text[i-dp[i].size:i])
	}
	for l, r := 0, len(words)-1; l < r; l, r = l+1, r-1 {
		words[l], words[r] = words[r], words[l]
	}
	return words, true
}

// greedySegment takes the longest dictionary match at each position and
// emits a single character where nothing matches.
func (s *Segmenter) greedySegment(text string) []string {
	var words []string
	for i := 0; i < len(text); {
		limit := i + s.opts.MaxWordLength
		if limit > len(text) {
			limit = len(text)
		}
		matched := ""
		for j := limit; j >= i+s.opts.MinWordLength; j-- {
			if s.dict.Contains(text[i:j]) {
				matched = text[i:j]
				break
			}
		}
		if matched == "" {
			words = append(words, text[i:i+1])
			i++
			continue
		}
		words = append(words, matched)
		i += len(matched)
	}
	return words
}
