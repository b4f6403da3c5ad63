package directive

import (
	"errors"
	"testing"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
)

func mustLookup(t *testing.T, name string) Spec {
	t.Helper()
	s, ok := Lookup(name)
	if !ok {
		t.Fatalf("directive %q not registered", name)
	}
	return s
}

func TestAppend(t *testing.T) {
	spec := mustLookup(t, "append")
	w := map[string]any{"items": []any{"a"}}
	if err := spec.Apply(w, "items", []any{"b"}, Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := w["items"].([]any)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if deps := spec.Deps("items", []any{"b"}); len(deps) != 1 || deps[0] != "items" {
		t.Fatalf("deps=%#v want [items]", deps)
	}
	if _, _, ok := spec.Rename("items", []any{"b"}, "items", "items_1"); ok {
		t.Fatalf("append rename should be unsupported")
	}
}

func TestAppend_NonListIsInvalid(t *testing.T) {
	spec := mustLookup(t, "append")
	w := map[string]any{}
	err := spec.Apply(w, "items", "not-a-list", Params{})
	if !cfgerr.Is(err, cfgerr.KindInvalidValue) {
		t.Fatalf("expected invalid-value, got %v", err)
	}
}

func TestCrossAppend(t *testing.T) {
	spec := mustLookup(t, "crossappend")
	w := map[string]any{"a": []any{"1"}}
	if err := spec.Apply(w, "c", []any{"a", []any{"2"}}, Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := w["c"].([]any)
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestCrossAppendRef(t *testing.T) {
	spec := mustLookup(t, "crossappendref")
	w := map[string]any{"a": []any{"1"}, "b": []any{"2", "3"}}
	if err := spec.Apply(w, "c", []any{"a", "b"}, Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := w["c"].([]any)
	want := []any{"1", "2", "3"}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("c=%#v want=%#v", got, want)
		}
	}
}

func TestCrossAppendRef_MissingTarget(t *testing.T) {
	spec := mustLookup(t, "crossappendref")
	w := map[string]any{"b": []any{"2"}}
	err := spec.Apply(w, "c", []any{"a", "b"}, Params{})
	if !cfgerr.Is(err, cfgerr.KindMissingTarget) {
		t.Fatalf("expected missing-target, got %v", err)
	}
}

func TestSubst(t *testing.T) {
	spec := mustLookup(t, "subst")
	w := map[string]any{"base": "hi"}
	if err := spec.Apply(w, "greet", "${base}!", Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w["greet"] != "hi!" {
		t.Fatalf("greet=%v want=hi!", w["greet"])
	}
	deps := spec.Deps("greet", "${base}!")
	if len(deps) != 1 || deps[0] != "base" {
		t.Fatalf("deps=%#v want=[base]", deps)
	}
}

func TestSubst_SelfReferenceRename(t *testing.T) {
	spec := mustLookup(t, "subst")
	newVal, newBase, ok := spec.Rename("p", "[${p}]", "p", "p_1")
	if !ok {
		t.Fatalf("expected rename to be supported")
	}
	if newVal != "[${p_1}]" {
		t.Fatalf("newVal=%v want=[${p_1}]", newVal)
	}
	if newBase != "subst" {
		t.Fatalf("newBase=%v want=subst", newBase)
	}
}

func TestSubst_MissingTarget(t *testing.T) {
	spec := mustLookup(t, "subst")
	w := map[string]any{}
	err := spec.Apply(w, "greet", "${base}!", Params{})
	if !cfgerr.Is(err, cfgerr.KindMissingTarget) {
		t.Fatalf("expected missing-target, got %v", err)
	}
}

func TestCrossRef(t *testing.T) {
	spec := mustLookup(t, "crossref")
	w := map[string]any{"a": "hello"}
	if err := spec.Apply(w, "b", "a", Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w["b"] != "hello" {
		t.Fatalf("b=%v want=hello", w["b"])
	}
}

func TestCrossRef_RefusesNumericAndBool(t *testing.T) {
	spec := mustLookup(t, "crossref")
	w := map[string]any{"n": int64(5), "flag": true}
	if err := spec.Apply(w, "b", "n", Params{}); !cfgerr.Is(err, cfgerr.KindInvalidValue) {
		t.Fatalf("expected invalid-value for numeric, got %v", err)
	}
	if err := spec.Apply(w, "b", "flag", Params{}); !cfgerr.Is(err, cfgerr.KindInvalidValue) {
		t.Fatalf("expected invalid-value for bool, got %v", err)
	}
}

func TestTransclude(t *testing.T) {
	spec := mustLookup(t, "transclude")
	w := map[string]any{}
	params := Params{ReadFile: func(path string) ([]byte, error) {
		if path != "/tmp/x.txt" {
			t.Fatalf("unexpected path %q", path)
		}
		return []byte("contents"), nil
	}}
	if err := spec.Apply(w, "script", "/tmp/x.txt", params); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w["script"] != "contents" {
		t.Fatalf("script=%v want=contents", w["script"])
	}
}

func TestTransclude_IOError(t *testing.T) {
	spec := mustLookup(t, "transclude")
	w := map[string]any{}
	boom := errors.New("boom")
	params := Params{ReadFile: func(string) ([]byte, error) { return nil, boom }}
	err := spec.Apply(w, "script", "/nope", params)
	if !cfgerr.Is(err, cfgerr.KindIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestPrependLocal(t *testing.T) {
	spec := mustLookup(t, "prependlocal")
	w := map[string]any{}
	if err := spec.Apply(w, "script", "run.sh", Params{MetaPath: "/tmp/cfg"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w["script"] != "/tmp/cfg/run.sh" {
		t.Fatalf("script=%v want=/tmp/cfg/run.sh", w["script"])
	}
}

func TestJSON2List(t *testing.T) {
	spec := mustLookup(t, "json2list")
	w := map[string]any{}
	if err := spec.Apply(w, "items", `["a","b"]`, Params{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, ok := w["items"].([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("items=%#v", w["items"])
	}
}

func TestJSON2List_NotAList(t *testing.T) {
	spec := mustLookup(t, "json2list")
	w := map[string]any{}
	err := spec.Apply(w, "items", `{"a":1}`, Params{})
	if !cfgerr.Is(err, cfgerr.KindInvalidValue) {
		t.Fatalf("expected invalid-value, got %v", err)
	}
}
