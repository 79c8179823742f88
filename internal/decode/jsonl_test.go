package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLDecoder(t *testing.T) {
	t.Parallel()

	input := []byte("{\"a\":1}\n\n{\"a\":2}\nnot json\n{\"a\":3}")
	d := NewJSONLDecoder(JSONLOptions{})
	records, errs := d.Decode(input)

	require.Len(t, records, 3)
	require.Len(t, errs, 1)
	assert.Equal(t, "jsonl_line_decode_failed", errs[0].Code)
	assert.Equal(t, 4, errs[0].Line)
}

func TestJSONLDecoderWhereFilter(t *testing.T) {
	t.Parallel()

	input := []byte("{\"kind\":\"a\"}\n{\"kind\":\"b\"}\n")
	where := map[string]any{"source": "kind", "op": "eq", "value": "a"}
	d := NewJSONLDecoder(JSONLOptions{Where: where})
	records, errs := d.Decode(input)

	require.Empty(t, errs)
	require.Len(t, records, 1)
}
