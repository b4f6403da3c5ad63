// Package loader implements the external file-loading boundary: turning
// YAML or JSON documents on disk into flattened provider dictionaries
// ready to hand to a layer of the configuration database.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
	"github.com/flowcfg/flowcfg/pkg/flatten"
)

const configPathKey = "_config_path"

// LoadFromString parses contents as YAML or JSON, flattens it, and
// annotates the result with _config_path=path.
func LoadFromString(contents string, isYAML bool, path string) (map[string]any, error) {
	if strings.TrimSpace(contents) == "" {
		return map[string]any{}, nil
	}

	var nested map[string]any
	if isYAML {
		if err := yaml.Unmarshal([]byte(contents), &nested); err != nil {
			return nil, cfgerr.New(cfgerr.KindInvalidValue, "", "", fmt.Errorf("parse yaml %q: %w", path, err))
		}
	} else {
		if err := json.Unmarshal([]byte(contents), &nested); err != nil {
			return nil, cfgerr.New(cfgerr.KindInvalidValue, "", "", fmt.Errorf("parse json %q: %w", path, err))
		}
	}
	nested = normalizeYAMLMaps(nested)

	flat := flatten.Flatten(nested)
	if path != "" {
		flat[configPathKey] = path
	}
	return flat, nil
}

// normalizeYAMLMaps rewrites map[any]any (yaml.v2 style) and nested
// map[string]any values produced by yaml.v3's decoder into the plain
// map[string]any shape the rest of the resolver expects.
func normalizeYAMLMaps(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAMLMaps(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// LoadFromFile chooses a parser by file extension (.yml/.yaml -> YAML,
// .json -> JSON); any other extension is an error. A missing file
// returns an empty dictionary unless strict is set, in which case it is
// an io error. An empty file returns an empty dictionary.
func LoadFromFile(filename string, strict bool) (map[string]any, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) && !strict {
			return map[string]any{}, nil
		}
		return nil, cfgerr.New(cfgerr.KindIO, "", "", fmt.Errorf("load %q: %w", filename, err))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var isYAML bool
	switch ext {
	case ".yml", ".yaml":
		isYAML = true
	case ".json":
		isYAML = false
	default:
		return nil, cfgerr.New(cfgerr.KindInvalidValue, "", "", fmt.Errorf("load %q: unsupported extension %q", filename, ext))
	}

	return LoadFromString(string(b), isYAML, filepath.Dir(filename))
}

// LoadFromPaths loads every path in paths, ordered so that .json files
// sort strictly after .yml/.yaml files (JSON overrides YAML), and
// returns them in that load order.
func LoadFromPaths(paths []string, strict bool) ([]map[string]any, error) {
	ordered := append([]string(nil), paths...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return extRank(ordered[i]) < extRank(ordered[j])
	})

	out := make([]map[string]any, 0, len(ordered))
	for _, p := range ordered {
		loaded, err := LoadFromFile(p, strict)
		if err != nil {
			return nil, err
		}
		out = append(out, loaded)
	}
	return out, nil
}

func extRank(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return 0
	case ".json":
		return 1
	default:
		return 2
	}
}

// LoadFromDefaults returns [defaults.yml, defaults.json] from dir, in
// precedence order (JSON strictly above YAML).
func LoadFromDefaults(dir string) ([]map[string]any, error) {
	return LoadFromPaths([]string{
		filepath.Join(dir, "defaults.yml"),
		filepath.Join(dir, "defaults.json"),
	}, false)
}
