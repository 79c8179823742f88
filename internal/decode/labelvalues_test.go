package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelValuesDecoderBasic(t *testing.T) {
	t.Parallel()

	input := []byte(`{"label_values": [
		{"label": "device_name", "value": "iPhone"},
		{"title": "last_seen", "timestamp_value": 1700000000}
	]}`)

	d := NewLabelValuesDecoder(LabelValuesOptions{})
	records, errs := d.Decode(input)

	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "iPhone", records[0]["device_name"])
	assert.EqualValues(t, 1700000000, records[0]["last_seen"])
}

func TestLabelValuesDecoderAllSyntheticDegradesToList(t *testing.T) {
	t.Parallel()

	input := []byte(`{"label_values": [
		{"value": "a"},
		{"value": "b"}
	]}`)

	d := NewLabelValuesDecoder(LabelValuesOptions{})
	records, errs := d.Decode(input)

	require.Empty(t, errs)
	require.Len(t, records, 2)
}

func TestLabelValuesDecoderMissingArray(t *testing.T) {
	t.Parallel()

	d := NewLabelValuesDecoder(LabelValuesOptions{})
	_, errs := d.Decode([]byte(`{"nope": []}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "label_values_missing", errs[0].Code)
}
