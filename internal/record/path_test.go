package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValueAtPath(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"payload": map[string]any{
			"items": []any{
				map[string]any{"display-name": "alice"},
				map[string]any{"display-name": "bob"},
			},
		},
		"count": float64(2),
	}

	cases := []struct {
		name string
		path string
		want any
	}{
		{"simple", "count", float64(2)},
		{"nested map", "payload.items[0].'display-name'", "alice"},
		{"second index", "payload.items[1].'display-name'", "bob"},
		{"missing key", "payload.nope", "missing"},
		{"out of range", "payload.items[5]", "missing"},
		{"type mismatch", "count[0]", "missing"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := GetValueAtPath(data, tc.path, "missing")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasPath(t *testing.T) {
	t.Parallel()

	data := map[string]any{"a": map[string]any{"b": nil}}
	require.True(t, HasPath(data, "a.b"))
	require.False(t, HasPath(data, "a.c"))
}

func TestGetValueAtPathEmptyQuotedKey(t *testing.T) {
	t.Parallel()

	data := map[string]any{"": "blank key value"}
	assert.Equal(t, "blank key value", GetValueAtPath(data, "''", nil))
}
