package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONDecoderStrict(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	records, errs := d.Decode([]byte(`[{"a":1},{"a":2}]`))
	require.Empty(t, errs)
	require.Len(t, records, 2)
	assert.Equal(t, float64(1), records[0]["a"])
}

func TestJSONDecoderSingleQuoteFallback(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	records, errs := d.Decode([]byte(`{'name': 'alice', 'age': 30}`))
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0]["name"])
}

func TestJSONDecoderTrailingCommaFallback(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	records, errs := d.Decode([]byte(`{"a": 1, "b": [1, 2, 3,],}`))
	require.Empty(t, errs)
	require.Len(t, records, 1)
}

func TestJSONDecoderUnquotedKeysFallback(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	records, errs := d.Decode([]byte(`{name: "bob", age: 40}`))
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "bob", records[0]["name"])
}

func TestJSONDecoderCommentsFallback(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	input := []byte("{\n // a comment\n name: 'carl', /* inline */ age: 50,\n}")
	records, errs := d.Decode(input)
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "carl", records[0]["name"])
}

func TestJSONDecoderAllTiersFail(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{})
	_, errs := d.Decode([]byte(`not json at all {{{`))
	require.Len(t, errs, 1)
	assert.Equal(t, "json_decode_failed", errs[0].Code)
}

func TestJSONDecoderRoot(t *testing.T) {
	t.Parallel()

	d := NewJSONDecoder(JSONOptions{Root: "payload.items"})
	records, errs := d.Decode([]byte(`{"payload": {"items": [{"a": 1}, {"a": 2}]}}`))
	require.Empty(t, errs)
	require.Len(t, records, 2)
}
