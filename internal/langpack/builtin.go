package langpack

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinPacks embed.FS

var (
	builtinOnce sync.Once
	builtinMap  map[string]*Pack
	builtinErr  error
)

// Builtin returns the embedded packs keyed by language name. The result is
// parsed once and shared; callers must not mutate it.
func Builtin() (map[string]*Pack, error) {
	builtinOnce.Do(func() {
		builtinMap, builtinErr = loadBuiltin()
	})
	return builtinMap, builtinErr
}

// BuiltinNames returns the embedded pack names sorted alphabetically.
func BuiltinNames() ([]string, error) {
	packs, err := Builtin()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func loadBuiltin() (map[string]*Pack, error) {
	entries, err := fs.ReadDir(builtinPacks, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin directory: %w", err)
	}

	packs := make(map[string]*Pack, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := fs.ReadFile(builtinPacks, filepath.Join("builtin", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read builtin pack %s: %w", entry.Name(), err)
		}

		var pack Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parse builtin pack %s: %w", entry.Name(), err)
		}
		if err := pack.Validate(); err != nil {
			return nil, fmt.Errorf("builtin pack %s: %w", entry.Name(), err)
		}

		pack.Path = fmt.Sprintf("builtin/%s", entry.Name())
		pack.IsBuiltin = true

		packs[pack.Name] = &pack
	}
	return packs, nil
}
