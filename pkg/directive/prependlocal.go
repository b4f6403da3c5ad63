package directive

import (
	"path/filepath"

	"github.com/flowcfg/flowcfg/pkg/cfgval"
)

func init() {
	register(Spec{
		Name:   "prependlocal",
		Apply:  prependlocalApply,
		Deps:   prependlocalDeps,
		Rename: prependlocalRename,
	})
}

func prependlocalApply(w map[string]any, key string, value any, params Params) error {
	metaPath := params.MetaPath
	if metaPath == "" {
		metaPath = "unspecified"
	}
	w[key] = filepath.Join(metaPath, cfgval.Stringify(value))
	return nil
}

// prependlocalDeps is empty: the result depends only on the provider's own
// _config_path, which is supplied out of band via Params, not a setting.
func prependlocalDeps(_ string, _ any) []string { return nil }

func prependlocalRename(_ string, value any, _, _ string) (any, string, bool) {
	return value, "prependlocal", true
}
