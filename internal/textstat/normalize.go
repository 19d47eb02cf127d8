// Package textstat provides the statistical primitives shared by every
// analysis surface: text normalization, frequency tables, index of
// coincidence with sample-size correction, chi-squared goodness of fit,
// log-probability n-gram models, Kasiski key-length estimation, and
// Shannon entropy. All functions are pure and safe for concurrent use.
package textstat

import (
	"fmt"
	"strings"
	"unicode"
)

// Script identifies the letter repertoire a language pack is built over.
type Script string

const (
	ScriptLatin    Script = "latin"
	ScriptCyrillic Script = "cyrillic"
	ScriptHan      Script = "han"
)

// ParseScript validates a script name. Empty input means Latin.
func ParseScript(s string) (Script, error) {
	switch Script(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScriptLatin:
		return ScriptLatin, nil
	case ScriptCyrillic:
		return ScriptCyrillic, nil
	case ScriptHan:
		return ScriptHan, nil
	}
	return "", fmt.Errorf("unknown script %q", s)
}

// Normalize uppercases text and strips everything outside A-Z. It is total:
// empty input yields empty output and no input can make it fail.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	return b.String()
}

// NormalizeScript keeps only the letters of the given script, uppercased.
// Cyrillic folds Ё into Е so tables built either way stay comparable.
func NormalizeScript(text string, script Script) string {
	switch script {
	case ScriptCyrillic:
		var b strings.Builder
		for _, r := range text {
			r = unicode.ToUpper(r)
			if r == 'Ё' {
				r = 'Е'
			}
			if r >= 'А' && r <= 'Я' {
				b.WriteRune(r)
			}
		}
		return b.String()
	case ScriptHan:
		var b strings.Builder
		for _, r := range text {
			if unicode.Is(unicode.Han, r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		return Normalize(text)
	}
}
