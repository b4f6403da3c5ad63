package directive

import (
	"encoding/json"
	"fmt"
)

func init() {
	register(Spec{
		Name:   "json2list",
		Apply:  json2listApply,
		Deps:   json2listDeps,
		Rename: json2listRename,
	})
}

func json2listApply(w map[string]any, key string, value any, _ Params) error {
	s, ok := value.(string)
	if !ok {
		return invalidValue(key, "json2list", fmt.Errorf("json2list value for %q must be a string", key))
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return invalidValue(key, "json2list", fmt.Errorf("json2list %q: invalid JSON: %w", key, err))
	}
	list, ok := decoded.([]any)
	if !ok {
		return invalidValue(key, "json2list", fmt.Errorf("json2list %q: decoded JSON is not a list", key))
	}
	w[key] = list
	return nil
}

// json2listDeps is empty: the directive parses a literal JSON string, it
// never reads another setting.
func json2listDeps(_ string, _ any) []string { return nil }

func json2listRename(_ string, value any, _, _ string) (any, string, bool) {
	return value, "json2list", true
}
