package decode

import (
	"regexp"

	"github.com/tideline/tideline/internal/model"
)

// multiSectionHeaderGap matches two or more consecutive blank lines, the
// tell-tale separator between sections in a multi-section CSV export
// (e.g. iCloud usage reports, which pack several differently-shaped
// tables into one file).
var multiSectionHeaderGap = regexp.MustCompile(`\n\s*\n\s*\n`)

// LooksLikeMultiSectionCSV reports whether data appears to contain more
// than one CSV section, either via a blank-line-separated layout or a
// recognized filename hint.
func LooksLikeMultiSectionCSV(data []byte, path string) bool {
	if multiSectionHeaderGap.Match(data) {
		return true
	}
	return multiSectionHintPattern.MatchString(path)
}

var multiSectionHintPattern = regexp.MustCompile(`(?i)icloudusagedata`)

// CSVMultiDecoder is a stub: multi-section CSV files are detected but not
// parsed. It always returns a single file-level fatal error so the
// extractor skips the file cleanly instead of attempting (and likely
// corrupting) a single-table CSV decode.
type CSVMultiDecoder struct{}

// NewCSVMultiDecoder constructs a CSVMultiDecoder.
func NewCSVMultiDecoder() *CSVMultiDecoder {
	return &CSVMultiDecoder{}
}

func (d *CSVMultiDecoder) Decode([]byte) ([]model.Record, []*DecodeError) {
	return nil, []*DecodeError{fatal("multi_section_csv_unsupported", "multi-section CSV files are not decoded", nil)}
}
