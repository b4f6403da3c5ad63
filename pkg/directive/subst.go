package directive

import (
	"fmt"
	"regexp"

	"github.com/flowcfg/flowcfg/pkg/cfgval"
)

// substPattern is the escape grammar for substitution: \${([A-Za-z_\-0-9.]+)}.
// A literal "$" outside this pattern is left untouched.
var substPattern = regexp.MustCompile(`\$\{([A-Za-z_\-0-9.]+)\}`)

func init() {
	register(Spec{
		Name:   "subst",
		Apply:  substApply,
		Deps:   substDeps,
		Rename: substRename,
	})
}

func substOne(w map[string]any, key string, s string) (string, error) {
	var firstErr error
	out := substPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := substPattern.FindStringSubmatch(m)[1]
		v, ok := w[name]
		if !ok {
			if firstErr == nil {
				firstErr = missingTarget(key, "subst", fmt.Errorf("subst reference %q is not set", name))
			}
			return m
		}
		return cfgval.Stringify(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func substApply(w map[string]any, key string, value any, _ Params) error {
	switch t := value.(type) {
	case string:
		out, err := substOne(w, key, t)
		if err != nil {
			return err
		}
		w[key] = out
		return nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return invalidValue(key, "subst", fmt.Errorf("subst list element %d for %q is not a string", i, key))
			}
			r, err := substOne(w, key, s)
			if err != nil {
				return err
			}
			out[i] = r
		}
		w[key] = out
		return nil
	default:
		return invalidValue(key, "subst", fmt.Errorf("subst value for %q must be a string or list of strings", key))
	}
}

func substDeps(_ string, value any) []string {
	var names []string
	collect := func(s string) {
		for _, m := range substPattern.FindAllStringSubmatch(s, -1) {
			names = append(names, m[1])
		}
	}
	switch t := value.(type) {
	case string:
		collect(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				collect(s)
			}
		}
	}
	return names
}

func substRename(_ string, value any, from, to string) (any, string, bool) {
	replace := func(s string) string {
		return substPattern.ReplaceAllStringFunc(s, func(m string) string {
			name := substPattern.FindStringSubmatch(m)[1]
			if name == from {
				return "${" + to + "}"
			}
			return m
		})
	}
	switch t := value.(type) {
	case string:
		return replace(t), "subst", true
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if s, ok := item.(string); ok {
				out[i] = replace(s)
			} else {
				out[i] = item
			}
		}
		return out, "subst", true
	default:
		return value, "subst", true
	}
}
