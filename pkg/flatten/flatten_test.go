package flatten

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatten_Nested(t *testing.T) {
	got := Flatten(map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{
				"d": "x",
			},
		},
		"e": []any{1, 2},
	})
	want := map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     []any{1, 2},
	}
	require.Equal(t, want, got)
}

func TestFlatten_AlreadyDottedKeyIsAtomic(t *testing.T) {
	got := Flatten(map[string]any{
		"a.b": map[string]any{"c": 1},
	})
	require.Equal(t, map[string]any{"a.b.c": 1}, got)
}

func TestUnflatten_Inverse(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{
				"d": "x",
			},
		},
		"e": []any{1, 2},
	}
	flat := Flatten(nested)
	got, err := Unflatten(flat)
	require.NoError(t, err)
	require.Equal(t, nested, got)
}

func TestUnflatten_BlankKeyIsError(t *testing.T) {
	_, err := Unflatten(map[string]any{"a..b": 1})
	if err == nil {
		t.Fatalf("expected blank-key error")
	}
	_, err = Unflatten(map[string]any{"": 1})
	if err == nil {
		t.Fatalf("expected blank-key error for empty key")
	}
}
