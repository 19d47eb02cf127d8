package langpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/env"
)

// Manager handles pack operations across the embedded set and the user's
// pack directory. Custom packs shadow builtin packs with the same name, so
// a trained replacement for a shipped language takes effect without a
// rebuild.
type Manager struct {
	customDir string
}

// NewManager creates a pack manager rooted at NIGMA_PACKS_DIR when set,
// otherwise ~/.nigma/packs.
func NewManager() (*Manager, error) {
	customDir, ok := env.Lookup("NIGMA_PACKS_DIR", "NIGMAJS_PACKS_DIR")
	if !ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		customDir = filepath.Join(home, ".nigma", "packs")
	}

	if err := os.MkdirAll(customDir, 0o755); err != nil {
		return nil, fmt.Errorf("create packs directory: %w", err)
	}

	return &Manager{customDir: customDir}, nil
}

// List returns all available packs, builtin first, then custom, each group
// sorted by name. A custom pack that shadows a builtin one appears once,
// as the custom variant.
func (m *Manager) List() ([]*Pack, error) {
	builtins, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("list builtin packs: %w", err)
	}

	customs, err := m.listCustom()
	if err != nil {
		return nil, fmt.Errorf("list custom packs: %w", err)
	}

	shadowed := make(map[string]bool, len(customs))
	for _, pack := range customs {
		shadowed[pack.Name] = true
	}

	var packs []*Pack
	for _, pack := range builtins {
		if !shadowed[pack.Name] {
			packs = append(packs, pack)
		}
	}
	packs = append(packs, customs...)

	sort.Slice(packs, func(i, j int) bool {
		if packs[i].IsBuiltin != packs[j].IsBuiltin {
			return packs[i].IsBuiltin
		}
		return packs[i].Name < packs[j].Name
	})
	return packs, nil
}

func (m *Manager) listCustom() ([]*Pack, error) {
	entries, err := os.ReadDir(m.customDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read custom directory: %w", err)
	}

	var packs []*Pack
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(m.customDir, entry.Name())
		pack, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		pack.IsCustom = true
		packs = append(packs, pack)
	}
	return packs, nil
}

// Get retrieves a pack by language name, preferring a custom pack over the
// builtin one.
func (m *Manager) Get(name string) (*Pack, error) {
	customs, err := m.listCustom()
	if err != nil {
		return nil, err
	}
	for _, pack := range customs {
		if pack.Name == name {
			return pack, nil
		}
	}

	builtins, err := Builtin()
	if err != nil {
		return nil, err
	}
	if pack, ok := builtins[name]; ok {
		return pack, nil
	}
	return nil, fmt.Errorf("pack not found: %s", name)
}

// Save writes a pack to the custom directory under <name>.yaml. The
// filename is derived from the pack name so saving twice overwrites rather
// than accumulating copies.
func (m *Manager) Save(pack *Pack) error {
	if err := pack.Validate(); err != nil {
		return err
	}

	path := filepath.Join(m.customDir, sanitizeName(pack.Name)+".yaml")
	data, err := yaml.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pack: %w", err)
	}
	return nil
}

// Import copies a pack file into the custom directory.
func (m *Manager) Import(path string) error {
	pack, err := ReadFile(path)
	if err != nil {
		return err
	}
	return m.Save(pack)
}

// Export writes a pack (builtin or custom) to the given path.
func (m *Manager) Export(name, outputPath string) error {
	pack, err := m.Get(name)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write pack file: %w", err)
	}
	return nil
}

// Delete removes a custom pack. Builtin packs cannot be deleted; deleting
// a custom pack that shadows a builtin one restores the builtin.
func (m *Manager) Delete(name string) error {
	pack, err := m.Get(name)
	if err != nil {
		return err
	}
	if pack.IsBuiltin {
		return errors.New("cannot delete built-in pack")
	}
	if err := os.Remove(pack.Path); err != nil {
		return fmt.Errorf("delete pack: %w", err)
	}
	return nil
}

// ReadFile parses and validates a single pack file.
func ReadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack %s: %w", filepath.Base(path), err)
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse pack %s: %w", filepath.Base(path), err)
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	pack.Path = path
	return &pack, nil
}

// WriteFile validates a pack and writes it to a single YAML file.
func WriteFile(pack *Pack, path string) error {
	if err := pack.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pack file: %w", err)
	}
	return nil
}

// sanitizeName converts a pack name to a safe filename stem.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
