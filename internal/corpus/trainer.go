// Package corpus trains language packs from raw text and HTML corpora. A
// Trainer accumulates n-gram and word counts across documents; Pack distills
// them into the sparse top-K percentage tables a langpack carries.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

const (
	defaultMaxLetters   = 256
	defaultMaxBigrams   = 150
	defaultMaxTrigrams  = 200
	defaultMaxQuadgrams = 200
	defaultMaxWords     = 400
	defaultMinWordLen   = 2

	// Words longer than the segmenter's window never match anything, so
	// the seed list has no use for them.
	maxWordLen = 20
)

// TrainOptions configures a training run. Zero caps select defaults.
type TrainOptions struct {
	// Name is the pack name, typically the language. Required.
	Name string
	// Script selects the letter repertoire. Empty means Latin.
	Script string

	// Per-table caps. The most frequent entries win; ties break
	// alphabetically so repeated runs produce identical packs.
	MaxLetters   int
	MaxBigrams   int
	MaxTrigrams  int
	MaxQuadgrams int
	MaxWords     int

	// MinWordLength drops shorter words from the seed list.
	MinWordLength int
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.MaxLetters <= 0 {
		o.MaxLetters = defaultMaxLetters
	}
	if o.MaxBigrams <= 0 {
		o.MaxBigrams = defaultMaxBigrams
	}
	if o.MaxTrigrams <= 0 {
		o.MaxTrigrams = defaultMaxTrigrams
	}
	if o.MaxQuadgrams <= 0 {
		o.MaxQuadgrams = defaultMaxQuadgrams
	}
	if o.MaxWords <= 0 {
		o.MaxWords = defaultMaxWords
	}
	if o.MinWordLength <= 0 {
		o.MinWordLength = defaultMinWordLen
	}
	return o
}

// Trainer accumulates corpus statistics. Not safe for concurrent use.
type Trainer struct {
	opts   TrainOptions
	script textstat.Script
	grams  [5]map[string]int // orders 1-4 live at indices 1-4
	totals [5]int
	words  map[string]int
	files  int
}

// NewTrainer validates the options and returns an empty trainer.
func NewTrainer(opts TrainOptions) (*Trainer, error) {
	opts.Name = strings.ToLower(strings.TrimSpace(opts.Name))
	if opts.Name == "" {
		return nil, errors.New("pack name is required")
	}
	script, err := textstat.ParseScript(opts.Script)
	if err != nil {
		return nil, err
	}
	t := &Trainer{
		opts:   opts.withDefaults(),
		script: script,
		words:  make(map[string]int),
	}
	for n := 1; n <= 4; n++ {
		t.grams[n] = make(map[string]int)
	}
	return t, nil
}

// AddText folds one document into the running counts. N-gram windows never
// straddle document boundaries.
func (t *Trainer) AddText(text string) {
	normalized := []rune(textstat.NormalizeScript(text, t.script))
	for n := 1; n <= 4; n++ {
		windows := len(normalized) - n + 1
		if windows < 1 {
			continue
		}
		t.totals[n] += windows
		for i := 0; i < windows; i++ {
			t.grams[n][string(normalized[i:i+n])]++
		}
	}
	// Han has no word boundaries to harvest.
	if t.script != textstat.ScriptHan {
		t.addWords(text)
	}
}

func (t *Trainer) addWords(text string) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, field := range fields {
		word := textstat.NormalizeScript(field, t.script)
		// A shrinking field contained letters outside the script;
		// the residue is not a real word.
		if utf8.RuneCountInString(word) != utf8.RuneCountInString(field) {
			continue
		}
		length := utf8.RuneCountInString(word)
		if length < t.opts.MinWordLength || length > maxWordLen {
			continue
		}
		t.words[word]++
	}
}

// AddFile reads one corpus file. Files ending in .html or .htm run through
// the HTML text extractor first; anything else is treated as plain text.
func (t *Trainer) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus file: %w", err)
	}
	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		extracted, err := ExtractHTML(strings.NewReader(text))
		if err != nil {
			return fmt.Errorf("extract %s: %w", filepath.Base(path), err)
		}
		text = extracted
	}
	t.AddText(text)
	t.files++
	return nil
}

// AddDir walks a directory tree and adds every .txt, .text, .html, and .htm
// file it finds.
func (t *Trainer) AddDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".text", ".html", ".htm":
			return t.AddFile(path)
		}
		return nil
	})
}

// Files returns how many corpus files have been added.
func (t *Trainer) Files() int { return t.files }

// Letters returns the total normalized letter count seen so far.
func (t *Trainer) Letters() int { return t.totals[1] }

// Pack distills the accumulated counts into a language pack. It fails when
// the corpus contributed no letters of the trainer's script.
func (t *Trainer) Pack() (*langpack.Pack, error) {
	if t.totals[1] == 0 {
		return nil, fmt.Errorf("corpus for %s contains no %s letters", t.opts.Name, t.script)
	}
	pack := &langpack.Pack{
		Name:      t.opts.Name,
		Script:    string(t.script),
		IC:        round4(t.ic()),
		Letters:   topK(t.grams[1], t.totals[1], t.opts.MaxLetters),
		Bigrams:   topK(t.grams[2], t.totals[2], t.opts.MaxBigrams),
		Trigrams:  topK(t.grams[3], t.totals[3], t.opts.MaxTrigrams),
		Quadgrams: topK(t.grams[4], t.totals[4], t.opts.MaxQuadgrams),
		Words:     t.topWords(),
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return pack, nil
}

// ic computes the x26 normalized index of coincidence over the whole
// corpus. The x26 scale matches the rest of the module for every script.
func (t *Trainer) ic() float64 {
	n := float64(t.totals[1])
	if n < 2 {
		return 0
	}
	var sum float64
	for _, c := range t.grams[1] {
		sum += float64(c) * float64(c-1)
	}
	return sum / (n * (n - 1)) * 26
}

func (t *Trainer) topWords() []string {
	if len(t.words) == 0 {
		return nil
	}
	type entry struct {
		word  string
		count int
	}
	entries := make([]entry, 0, len(t.words))
	for word, count := range t.words {
		entries = append(entries, entry{word, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})
	if len(entries) > t.opts.MaxWords {
		entries = entries[:t.opts.MaxWords]
	}
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.word
	}
	return words
}

// topK converts the k most frequent counts into percentages of the total.
// Percentages stay relative to the full window count, not the top-K sum,
// so sparse tables remain comparable to dense ones. Entries that round to
// zero are dropped; models ignore them anyway.
func topK(counts map[string]int, total, k int) map[string]float64 {
	if total == 0 || len(counts) == 0 {
		return nil
	}
	type entry struct {
		gram  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for gram, count := range counts {
		entries = append(entries, entry{gram, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].gram < entries[j].gram
	})
	if k > 0 && len(entries) > k {
		entries = entries[:k]
	}
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		pct := round4(float64(e.count) / float64(total) * 100)
		if pct > 0 {
			out[e.gram] = pct
		}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Train builds a pack from every corpus file under dir.
func Train(dir string, opts TrainOptions) (*langpack.Pack, error) {
	t, err := NewTrainer(opts)
	if err != nil {
		return nil, err
	}
	if err := t.AddDir(dir); err != nil {
		return nil, err
	}
	if t.files == 0 {
		return nil, fmt.Errorf("no corpus files in %s", dir)
	}
	return t.Pack()
}
