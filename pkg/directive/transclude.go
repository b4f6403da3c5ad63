package directive

import (
	"fmt"
	"os"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
)

func init() {
	register(Spec{
		Name:   "transclude",
		Apply:  transcludeApply,
		Deps:   transcludeDeps,
		Rename: transcludeRename,
	})
}

func transcludeApply(w map[string]any, key string, value any, params Params) error {
	path, ok := value.(string)
	if !ok {
		return invalidValue(key, "transclude", fmt.Errorf("transclude target for %q must be a string path", key))
	}
	readFile := params.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	b, err := readFile(path)
	if err != nil {
		return cfgerr.New(cfgerr.KindIO, key, "transclude", fmt.Errorf("transclude %q: %w", path, err))
	}
	w[key] = string(b)
	return nil
}

// transcludeDeps is empty: transclude reads a file, never another setting.
func transcludeDeps(_ string, _ any) []string { return nil }

// transcludeRename is never exercised (no dependencies means self-reference
// can never trigger), so it returns the value unchanged per the contract
// for dependency-free directives.
func transcludeRename(_ string, value any, _, _ string) (any, string, bool) {
	return value, "transclude", true
}
