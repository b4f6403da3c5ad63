package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromString_YAML(t *testing.T) {
	got, err := LoadFromString("a:\n  b: 1\n", true, "/tmp/cfg")
	if err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}
	if got["a.b"] != 1 {
		t.Fatalf("a.b=%v want=1", got["a.b"])
	}
	if got[configPathKey] != "/tmp/cfg" {
		t.Fatalf("_config_path=%v want=/tmp/cfg", got[configPathKey])
	}
}

func TestLoadFromString_JSON(t *testing.T) {
	got, err := LoadFromString(`{"a":{"b":1}}`, false, "")
	if err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}
	if got["a.b"] != float64(1) {
		t.Fatalf("a.b=%v want=1", got["a.b"])
	}
}

func TestLoadFromString_Empty(t *testing.T) {
	got, err := LoadFromString("   ", true, "/tmp")
	if err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
}

func TestLoadFromFile_MissingNonStrict(t *testing.T) {
	got, err := LoadFromFile("/nonexistent/path.yml", false)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
}

func TestLoadFromFile_MissingStrictErrors(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yml", true)
	if err == nil {
		t.Fatalf("expected error under strict mode")
	}
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.toml")
	if err := os.WriteFile(path, []byte("a=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadFromFile(path, false)
	if err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoadFromPaths_JSONOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "defaults.yml")
	jsn := filepath.Join(dir, "defaults.json")
	if err := os.WriteFile(yml, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write yml: %v", err)
	}
	if err := os.WriteFile(jsn, []byte(`{"a":2}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	out, err := LoadFromPaths([]string{jsn, yml}, false)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, 1, out[0]["a"], "first entry must be the yaml dictionary")
	require.Equal(t, float64(2), out[1]["a"], "second entry must be the json dictionary, sorted after yaml")
}

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "defaults.yml"), []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := LoadFromDefaults(dir)
	if err != nil {
		t.Fatalf("LoadFromDefaults: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries (yml + missing json), got %d", len(out))
	}
	if out[0]["a"] != 1 {
		t.Fatalf("a=%v want=1", out[0]["a"])
	}
	if len(out[1]) != 0 {
		t.Fatalf("missing defaults.json should load empty, got %#v", out[1])
	}
}
