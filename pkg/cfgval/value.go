// Package cfgval holds small helpers for working with the dynamically
// typed setting values that flow through the configuration resolver.
// A setting value is always one of: nil, bool, int, int64, float64,
// string, []any or map[string]any. Values never carry any other Go type.
package cfgval

import (
	"fmt"
	"strconv"
)

// IsList reports whether v is a list value.
func IsList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsMap reports whether v is a mapping value. Mappings only ever occur
// in un-flattened provider input; after flattening no value is a map.
func IsMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsNumeric reports whether v is an int, int64 or float64.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int64, int, float64:
		return true
	default:
		return false
	}
}

// IsBool reports whether v is a bool.
func IsBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// AsStringList coerces v into a []string when v is a string or a list of
// strings. ok is false for any other shape, including a list containing a
// non-string element.
func AsStringList(v any) (out []string, ok bool) {
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []any:
		out = make([]string, 0, len(t))
		for _, item := range t {
			s, isStr := item.(string)
			if !isStr {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// IsStringOrStringList reports whether v is a string or a list of strings.
func IsStringOrStringList(v any) bool {
	_, ok := AsStringList(v)
	return ok
}

// Stringify renders a setting value as text, the way substitution and
// path-local prepend need it embedded back into a template string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CloneShallow returns a shallow copy of a map[string]any, or an empty map
// when m is nil.
func CloneShallow(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
