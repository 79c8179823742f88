package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVDecoderBasic(t *testing.T) {
	t.Parallel()

	d := NewCSVDecoder(CSVOptions{})
	records, errs := d.Decode([]byte("a,b\n1,2\n3,4\n"))
	require.Empty(t, errs)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0]["a"])
	assert.Equal(t, "2", records[0]["b"])
}

func TestCSVDecoderRaggedRows(t *testing.T) {
	t.Parallel()

	d := NewCSVDecoder(CSVOptions{})
	records, errs := d.Decode([]byte("a,b,c\n1,2\n3,4,5,6\n"))
	require.Empty(t, errs)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[0]["c"])
}

func TestCSVDecoderDropDuplicatesRowCompleteness(t *testing.T) {
	t.Parallel()

	d := NewCSVDecoder(CSVOptions{
		DropDuplicates: true,
		Subset:         []string{"id"},
		Keep:           "row_completeness",
	})
	records, errs := d.Decode([]byte("id,name,note\n1,alice,\n1,alice,likes tea\n2,bob,\n"))
	require.Empty(t, errs)
	require.Len(t, records, 2)

	for _, r := range records {
		if r["id"] == "1" {
			assert.Equal(t, "likes tea", r["note"])
		}
	}
}
