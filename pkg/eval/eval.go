// Package eval implements the eager evaluator: folding one provider
// dictionary into a running working dictionary, interpreting every
// eager meta-directive along the way and deferring lazy ones.
package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
	"github.com/flowcfg/flowcfg/pkg/cfgval"
	"github.com/flowcfg/flowcfg/pkg/directive"
)

const (
	metaSuffix          = "_meta"
	lazyPrefix          = "lazy"
	dynamicPrefix       = "dynamic"
	configPathKey       = "_config_path"
	nextFreeIndexKey    = "_next_free_index"
)

// ReadFile is threaded through to the transclude directive; nil uses
// os.ReadFile.
type ReadFile func(path string) ([]byte, error)

// Fold applies provider P onto working dictionary W, returning the
// updated W'. W is never mutated; the returned map is a distinct value.
// The provider's plain settings (those without a _meta companion) are
// visible in W' before its directives run, so a directive may reference
// a sibling setting of the same provider.
func Fold(w map[string]any, provider map[string]any, readFile ReadFile) (map[string]any, error) {
	wPrime := cfgval.CloneShallow(w)
	m := cfgval.CloneShallow(provider)

	metaPath := "unspecified"
	if v, ok := m[configPathKey].(string); ok && v != "" {
		metaPath = v
	}
	params := directive.Params{MetaPath: metaPath, ReadFile: readFile}

	for k, v := range m {
		if strings.HasSuffix(k, metaSuffix) && k != metaSuffix {
			continue
		}
		if _, hasMeta := m[k+metaSuffix]; hasMeta {
			continue
		}
		wPrime[k] = v
	}

	metaKeys := make([]string, 0)
	for k := range m {
		if strings.HasSuffix(k, metaSuffix) && k != metaSuffix {
			metaKeys = append(metaKeys, k)
		}
	}
	sort.Strings(metaKeys)

	for _, metaKey := range metaKeys {
		if _, stillPresent := m[metaKey]; !stillPresent {
			continue
		}
		setting := strings.TrimSuffix(metaKey, metaSuffix)
		if err := foldSetting(wPrime, m, setting, metaKey, params); err != nil {
			return nil, err
		}
		delete(m, metaKey)
		delete(m, setting)
	}

	for k, v := range m {
		wPrime[k] = v
	}
	return wPrime, nil
}

func foldSetting(w, m map[string]any, setting, metaKey string, params directive.Params) error {
	names, err := normalizeDirectiveList(setting, m[metaKey])
	if err != nil {
		return err
	}

	value := m[setting]
	for i, name := range names {
		if strings.HasPrefix(name, dynamicPrefix) {
			return cfgerr.New(cfgerr.KindInvalidDirective, setting, name,
				fmt.Errorf("directive %q on %q uses the retired 'dynamic' prefix; rename it to 'lazy%s'", name, setting, strings.TrimPrefix(name, dynamicPrefix)))
		}

		isLazy := strings.HasPrefix(name, lazyPrefix)
		if isLazy {
			if i != len(names)-1 {
				return cfgerr.New(cfgerr.KindInvalidDirective, setting, name,
					fmt.Errorf("setting %q has a directive after lazy directive %q; lazy must be last and alone among lazies", setting, name))
			}
			return foldLazy(w, setting, name, value, params)
		}

		spec, ok := directive.Lookup(name)
		if !ok {
			return cfgerr.New(cfgerr.KindInvalidDirective, setting, name, fmt.Errorf("unknown directive %q on %q", name, setting))
		}
		if err := spec.Apply(w, setting, value, params); err != nil {
			return err
		}
		value = w[setting]
	}
	return nil
}

func foldLazy(w map[string]any, setting, lazyName string, value any, params directive.Params) error {
	base := strings.TrimPrefix(lazyName, lazyPrefix)
	spec, ok := directive.Lookup(base)
	if !ok {
		return cfgerr.New(cfgerr.KindInvalidDirective, setting, lazyName, fmt.Errorf("unknown directive %q (base of %q) on %q", base, lazyName, setting))
	}

	deps := spec.Deps(setting, value)
	selfRef := false
	for _, d := range deps {
		if d == setting {
			selfRef = true
			break
		}
	}

	if !selfRef {
		w[setting] = value
		w[setting+metaSuffix] = lazyName
		return nil
	}

	idx := nextFreeIndex(w)
	newBase := fmt.Sprintf("%s_%d", setting, idx)
	if oldVal, ok := w[setting]; ok {
		w[newBase] = oldVal
		delete(w, setting)
	}
	if oldMeta, ok := w[setting+metaSuffix]; ok {
		w[newBase+metaSuffix] = oldMeta
		delete(w, setting+metaSuffix)
	}

	newVal, newBaseDirective, supported := spec.Rename(setting, value, setting, newBase)
	if !supported {
		return cfgerr.New(cfgerr.KindRenameUnsupported, setting, lazyName,
			fmt.Errorf("lazy directive %q on %q is self-referential and cannot be renamed out of the cycle", lazyName, setting))
	}
	if newBaseDirective == "" {
		newBaseDirective = base
	}
	newDirectiveName := lazyPrefix + newBaseDirective

	w[setting] = newVal
	w[setting+metaSuffix] = newDirectiveName
	return nil
}

// nextFreeIndex returns the scratch counter for self-reference renaming,
// defaulting to 1, and advances it in w for the next caller.
func nextFreeIndex(w map[string]any) int {
	idx := 1
	switch v := w[nextFreeIndexKey].(type) {
	case int:
		idx = v
	case int64:
		idx = int(v)
	}
	w[nextFreeIndexKey] = idx + 1
	return idx
}

func normalizeDirectiveList(setting string, raw any) ([]string, error) {
	switch t := raw.(type) {
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, cfgerr.New(cfgerr.KindInvalidDirective, setting, "", fmt.Errorf("%s_meta entry for %q must be a directive name string", setting, setting))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, cfgerr.New(cfgerr.KindInvalidDirective, setting, "", fmt.Errorf("%s_meta for %q must be a directive name or list of directive names", setting, setting))
	}
}

// StripReserved removes the reserved internal keys from a resolved
// mapping in place.
func StripReserved(w map[string]any) {
	delete(w, configPathKey)
	delete(w, nextFreeIndexKey)
}
