package directive

import (
	"fmt"

	"github.com/flowcfg/flowcfg/pkg/cfgval"
)

func init() {
	register(Spec{
		Name:   "crossref",
		Apply:  crossrefApply,
		Deps:   crossrefDeps,
		Rename: crossrefRename,
	})
}

func crossrefOne(w map[string]any, key, name string) (any, error) {
	v, ok := w[name]
	if !ok {
		return nil, missingTarget(key, "crossref", fmt.Errorf("crossref reference %q is not set", name))
	}
	if cfgval.IsNumeric(v) || cfgval.IsBool(v) {
		return nil, invalidValue(key, "crossref", fmt.Errorf("crossref reference %q resolves to a number or boolean, which crossref refuses to copy", name))
	}
	return v, nil
}

func crossrefApply(w map[string]any, key string, value any, _ Params) error {
	switch t := value.(type) {
	case string:
		v, err := crossrefOne(w, key, t)
		if err != nil {
			return err
		}
		w[key] = v
		return nil
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			name, ok := item.(string)
			if !ok {
				return invalidValue(key, "crossref", fmt.Errorf("crossref list element for %q must be a string", key))
			}
			v, err := crossrefOne(w, key, name)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		w[key] = out
		return nil
	default:
		return invalidValue(key, "crossref", fmt.Errorf("crossref value for %q must be a string or list of strings", key))
	}
}

func crossrefDeps(_ string, value any) []string {
	names, _ := cfgval.AsStringList(value)
	return names
}

func crossrefRename(_ string, value any, from, to string) (any, string, bool) {
	switch t := value.(type) {
	case string:
		if t == from {
			return to, "crossref", true
		}
		return t, "crossref", true
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if s, ok := item.(string); ok && s == from {
				out[i] = to
			} else {
				out[i] = item
			}
		}
		return out, "crossref", true
	default:
		return value, "crossref", true
	}
}
