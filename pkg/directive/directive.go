// Package directive holds the fixed catalog of meta-directives a setting's
// "_meta" companion can name, and the apply/deps/rename contract each one
// implements. The catalog is built once, at package init, into an
// immutable table; lookup is a pure function of the directive name.
package directive

import "github.com/flowcfg/flowcfg/pkg/cfgerr"

// Params carries the extra context a directive's Apply needs beyond the
// working dictionary, the setting key and its value.
type Params struct {
	// MetaPath is the provider's _config_path, or "unspecified" when the
	// provider did not carry one. Only prependlocal consumes it.
	MetaPath string
	// ReadFile loads a file's contents for transclude. Defaults to
	// os.ReadFile when nil; tests inject a fake to avoid real I/O.
	ReadFile func(path string) ([]byte, error)
}

// Apply mutates the working dictionary w, writing the result of
// evaluating this directive for key, given the directive's literal
// parameter value.
type Apply func(w map[string]any, key string, value any, params Params) error

// Deps lists the setting names this directive's value reads, given the
// key it is attached to and its literal parameter value.
type Deps func(key string, value any) []string

// Rename rewrites value so that any reference to the setting "from"
// becomes "to", returning the rewritten value and the (possibly updated)
// base directive name. supported is false when the directive has no way
// to redirect its own self-reference, in which case the caller must
// surface a rename-unsupported error.
type Rename func(key string, value any, from, to string) (newValue any, newBase string, supported bool)

// Spec is one registered directive's full contract.
type Spec struct {
	Name   string
	Apply  Apply
	Deps   Deps
	Rename Rename
}

var registry = map[string]Spec{}

func register(s Spec) {
	registry[s.Name] = s
}

// Lookup returns the registered directive named name, which must not
// carry the "lazy" or "dynamic" prefix.
func Lookup(name string) (Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the base directive names known to the registry, for
// diagnostics and tests.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}

func invalidValue(key, directive string, err error) error {
	return cfgerr.New(cfgerr.KindInvalidValue, key, directive, err)
}

func missingTarget(key, directive string, err error) error {
	return cfgerr.New(cfgerr.KindMissingTarget, key, directive, err)
}
