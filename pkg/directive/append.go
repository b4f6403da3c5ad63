package directive

import "fmt"

func init() {
	register(Spec{
		Name:   "append",
		Apply:  appendApply,
		Deps:   appendDeps,
		Rename: appendRename,
	})
}

func appendApply(w map[string]any, key string, value any, _ Params) error {
	list, ok := value.([]any)
	if !ok {
		return invalidValue(key, "append", fmt.Errorf("append value for %q must be a list", key))
	}
	existing, present := w[key]
	if !present {
		w[key] = append([]any{}, list...)
		return nil
	}
	existingList, ok := existing.([]any)
	if !ok {
		return invalidValue(key, "append", fmt.Errorf("cannot append to %q: existing value is not a list", key))
	}
	merged := make([]any, 0, len(existingList)+len(list))
	merged = append(merged, existingList...)
	merged = append(merged, list...)
	w[key] = merged
	return nil
}

// appendDeps declares the setting itself as a dependency: applying append
// always needs to read the key's own current value. This is what makes a
// lazy append self-referential by construction.
func appendDeps(key string, _ any) []string {
	return []string{key}
}

// appendRename has no way to redirect append's hard-coded read of its own
// key to a renamed alias, so a self-referential lazy append can never be
// rescued by renaming; the eager evaluator must surface rename-unsupported.
func appendRename(_ string, _ any, _, _ string) (any, string, bool) {
	return nil, "", false
}
