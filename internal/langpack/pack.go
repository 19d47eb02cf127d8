// Package langpack loads per-language statistical reference data: expected
// letter and n-gram percentage tables, IC baselines, and seed word lists.
// Packs ship embedded in the binary and can be shadowed or extended by YAML
// files in the user's pack directory. Once loaded a pack is read-only and
// safe to share across concurrent analyses.
package langpack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// Pack is one language's reference data.
type Pack struct {
	Name      string             `yaml:"name"`
	Script    string             `yaml:"script"`
	IC        float64            `yaml:"ic,omitempty"`
	Letters   map[string]float64 `yaml:"letters"`
	Bigrams   map[string]float64 `yaml:"bigrams,omitempty"`
	Trigrams  map[string]float64 `yaml:"trigrams,omitempty"`
	Quadgrams map[string]float64 `yaml:"quadgrams,omitempty"`
	Words     []string           `yaml:"words,omitempty"`

	// Metadata (not stored in YAML)
	Path      string `yaml:"-"`
	IsBuiltin bool   `yaml:"-"`
	IsCustom  bool   `yaml:"-"`
}

// Validate checks the fields a pack needs before any scoring can use it.
func (p *Pack) Validate() error {
	if p.Name == "" {
		return errors.New("pack name is required")
	}
	if _, err := textstat.ParseScript(p.Script); err != nil {
		return fmt.Errorf("pack %s: %w", p.Name, err)
	}
	if len(p.Letters) == 0 {
		return fmt.Errorf("pack %s: letter table is required", p.Name)
	}
	for _, table := range []map[string]float64{p.Letters, p.Bigrams, p.Trigrams, p.Quadgrams} {
		for gram, pct := range table {
			if pct < 0 || pct > 100 {
				return fmt.Errorf("pack %s: %q has percentage %v outside [0,100]", p.Name, gram, pct)
			}
		}
	}
	return nil
}

// ScriptKind returns the parsed script, defaulting to Latin.
func (p *Pack) ScriptKind() textstat.Script {
	script, err := textstat.ParseScript(p.Script)
	if err != nil {
		return textstat.ScriptLatin
	}
	return script
}

// NGrams returns the percentage table for an order between 1 and 4, or nil
// when the pack does not carry that order.
func (p *Pack) NGrams(order int) map[string]float64 {
	switch order {
	case 1:
		return p.Letters
	case 2:
		return p.Bigrams
	case 3:
		return p.Trigrams
	case 4:
		return p.Quadgrams
	}
	return nil
}

// Model builds an n-gram scoring model for the given order. Nil when the
// pack has no table at that order.
func (p *Pack) Model(order int) *textstat.NGramModel {
	table := p.NGrams(order)
	if len(table) == 0 {
		return nil
	}
	return textstat.NewNGramModelScript(order, table, p.ScriptKind())
}

// BaselineIC returns the pack's expected IC, falling back to the built-in
// per-language baseline when the pack does not declare one.
func (p *Pack) BaselineIC() float64 {
	if p.IC > 0 {
		return p.IC
	}
	return textstat.BaselineIC(p.Name)
}

// WordSet returns the pack's seed words as an uppercased membership set.
func (p *Pack) WordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Words))
	for _, w := range p.Words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
