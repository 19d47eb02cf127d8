// Package dictionary validates candidate plaintext against word lists and
// restores word boundaries in boundary-free text. It is the plausibility
// check that runs after the statistical layers: chi-squared and IC can say
// "this looks like English letters", only a dictionary can say "these are
// English words". Dictionaries are read-only after construction and safe to
// share across concurrent analyses.
package dictionary

import (
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
)

// Dictionary is an uppercase word membership set.
type Dictionary struct {
	words   map[string]struct{}
	maxWord int
}

// New builds a dictionary from a word list. Words are uppercased and
// trimmed; empties are dropped.
func New(words []string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

// FromPack builds a dictionary from a language pack's seed word list.
func FromPack(pack *langpack.Pack) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(pack.Words))}
	for _, w := range pack.Words {
		d.add(w)
	}
	return d
}

// Load reads a word list file with one word per line. Lines starting with
// '#' are comments. The file is memory-mapped rather than copied: external
// word lists run to megabytes and the set construction only needs one pass
// over the bytes.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("statting dictionary %s: %w", path, err)
	}
	if info.Size() == 0 {
		return New(nil), nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping dictionary %s: %w", path, err)
	}
	defer data.Unmap()

	d := New(nil)
	start := 0
	for i := 0; i <= len(data); i++ {
		if i < len(data) && data[i] != '\n' {
			continue
		}
		line := strings.TrimSpace(string(data[start:i]))
		start = i + 1
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.add(line)
	}
	return d, nil
}

func (d *Dictionary) add(word string) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return
	}
	d.words[word] = struct{}{}
	if len(word) > d.maxWord {
		d.maxWord = len(word)
	}
}

// Contains reports whether the uppercased word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ToUpper(word)]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// MaxWordLen returns the length of the longest word, 0 when empty.
func (d *Dictionary) MaxWordLen() int { return d.maxWord }
