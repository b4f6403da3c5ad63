// Package flatten converts between nested setting trees ({"a": {"b": 1}})
// and the dotted-key flat form ("a.b": 1) that the resolver operates on.
package flatten

import (
	"fmt"
	"sort"
	"strings"
)

// Flatten recursively inlines mapping values into dotted keys. A key that
// already contains a "." at the input level is treated as one atomic
// segment and simply concatenated with its parent ("a.b": {"c": 1} yields
// "a.b.c"), never re-split.
func Flatten(nested map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", nested)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(out, key, child)
			continue
		}
		out[key] = v
	}
}

// Unflatten is the inverse of Flatten, for test and debug use only. It
// splits each key on "." and builds the corresponding nested mapping.
// A blank segment (leading/trailing/doubled dot, or an empty key) is a
// hard error.
func Unflatten(flat map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		segs := strings.Split(k, ".")
		for _, s := range segs {
			if s == "" {
				return nil, fmt.Errorf("blank-key: %q contains an empty segment", k)
			}
		}
		if err := setPath(out, segs, flat[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setPath(m map[string]any, segs []string, v any) error {
	if len(segs) == 1 {
		m[segs[0]] = v
		return nil
	}
	head, rest := segs[0], segs[1:]
	child, ok := m[head].(map[string]any)
	if !ok {
		if _, exists := m[head]; exists {
			return fmt.Errorf("blank-key: %q collides with a scalar value already set at that path", strings.Join(segs, "."))
		}
		child = make(map[string]any)
		m[head] = child
	}
	return setPath(child, rest, v)
}
