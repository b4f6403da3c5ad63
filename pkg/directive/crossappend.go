package directive

import "fmt"

func init() {
	register(Spec{
		Name:   "crossappend",
		Apply:  crossappendApply,
		Deps:   crossappendDeps,
		Rename: crossappendRename,
	})
	register(Spec{
		Name:   "crossappendref",
		Apply:  crossappendrefApply,
		Deps:   crossappendrefDeps,
		Rename: crossappendrefRename,
	})
}

func crossappendPair(key, directive string, value any) (targetKey string, list []any, err error) {
	pair, ok := value.([]any)
	if !ok || len(pair) != 2 {
		return "", nil, invalidValue(key, directive, fmt.Errorf("%s value for %q must be [target_key, list]", directive, key))
	}
	targetKey, ok = pair[0].(string)
	if !ok {
		return "", nil, invalidValue(key, directive, fmt.Errorf("%s target_key for %q must be a string", directive, key))
	}
	list, ok = pair[1].([]any)
	if !ok {
		return "", nil, invalidValue(key, directive, fmt.Errorf("%s list for %q must be a list", directive, key))
	}
	return targetKey, list, nil
}

func crossappendApply(w map[string]any, key string, value any, _ Params) error {
	targetKey, list, err := crossappendPair(key, "crossappend", value)
	if err != nil {
		return err
	}
	target, ok := w[targetKey]
	if !ok {
		return missingTarget(key, "crossappend", fmt.Errorf("crossappend target %q is not set", targetKey))
	}
	targetList, ok := target.([]any)
	if !ok {
		return invalidValue(key, "crossappend", fmt.Errorf("crossappend target %q is not a list", targetKey))
	}
	merged := make([]any, 0, len(targetList)+len(list))
	merged = append(merged, targetList...)
	merged = append(merged, list...)
	w[key] = merged
	return nil
}

func crossappendDeps(key string, value any) []string {
	targetKey, _, err := crossappendPair(key, "crossappend", value)
	if err != nil {
		return nil
	}
	return []string{targetKey}
}

func crossappendRename(key string, value any, from, to string) (any, string, bool) {
	targetKey, list, err := crossappendPair(key, "crossappend", value)
	if err != nil {
		return value, "crossappend", true
	}
	if targetKey == from {
		targetKey = to
	}
	return []any{targetKey, list}, "crossappend", true
}

func crossappendrefPair(key, directive string, value any) (targetKey, sourceKey string, err error) {
	pair, ok := value.([]any)
	if !ok || len(pair) != 2 {
		return "", "", invalidValue(key, directive, fmt.Errorf("%s value for %q must be [target_key, source_key]", directive, key))
	}
	targetKey, ok = pair[0].(string)
	if !ok {
		return "", "", invalidValue(key, directive, fmt.Errorf("%s target_key for %q must be a string", directive, key))
	}
	sourceKey, ok = pair[1].(string)
	if !ok {
		return "", "", invalidValue(key, directive, fmt.Errorf("%s source_key for %q must be a string", directive, key))
	}
	return targetKey, sourceKey, nil
}

func crossappendrefApply(w map[string]any, key string, value any, _ Params) error {
	targetKey, sourceKey, err := crossappendrefPair(key, "crossappendref", value)
	if err != nil {
		return err
	}
	target, ok := w[targetKey]
	if !ok {
		return missingTarget(key, "crossappendref", fmt.Errorf("crossappendref target %q is not set", targetKey))
	}
	source, ok := w[sourceKey]
	if !ok {
		return missingTarget(key, "crossappendref", fmt.Errorf("crossappendref source %q is not set", sourceKey))
	}
	targetList, ok := target.([]any)
	if !ok {
		return invalidValue(key, "crossappendref", fmt.Errorf("crossappendref target %q is not a list", targetKey))
	}
	sourceList, ok := source.([]any)
	if !ok {
		return invalidValue(key, "crossappendref", fmt.Errorf("crossappendref source %q is not a list", sourceKey))
	}
	merged := make([]any, 0, len(targetList)+len(sourceList))
	merged = append(merged, targetList...)
	merged = append(merged, sourceList...)
	w[key] = merged
	return nil
}

func crossappendrefDeps(key string, value any) []string {
	targetKey, sourceKey, err := crossappendrefPair(key, "crossappendref", value)
	if err != nil {
		return nil
	}
	return []string{targetKey, sourceKey}
}

func crossappendrefRename(key string, value any, from, to string) (any, string, bool) {
	targetKey, sourceKey, err := crossappendrefPair(key, "crossappendref", value)
	if err != nil {
		return value, "crossappendref", true
	}
	if targetKey == from {
		targetKey = to
	}
	if sourceKey == from {
		sourceKey = to
	}
	return []any{targetKey, sourceKey}, "crossappendref", true
}
