package decode

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tideline/tideline/internal/filterexpr"
	"github.com/tideline/tideline/internal/model"
)

// JSONLOptions configures the JSONL decoder.
type JSONLOptions struct {
	// Where, if set, is compiled with filterexpr and applied per line: lines
	// whose decoded object does not satisfy it are dropped silently.
	Where any
}

// JSONLDecoder decodes newline-delimited JSON, one object per line,
// streaming line by line rather than materializing the whole file. Blank
// lines are skipped. A line that fails to parse is recorded as a
// record-level warning and skipped; the rest of the file is still
// processed.
type JSONLDecoder struct {
	opts  JSONLOptions
	where filterexpr.Predicate
}

// NewJSONLDecoder constructs a JSONLDecoder.
func NewJSONLDecoder(opts JSONLOptions) *JSONLDecoder {
	return &JSONLDecoder{opts: opts, where: filterexpr.Compile(opts.Where)}
}

func (d *JSONLDecoder) Decode(data []byte) ([]model.Record, []*DecodeError) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []model.Record
	var errs []*DecodeError

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			errs = append(errs, warning("jsonl_line_decode_failed", "skipping malformed JSONL line", lineNo, err))
			continue
		}

		if !d.where.Eval(obj) {
			continue
		}

		records = append(records, obj)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, fatal("jsonl_scan_failed", "reading JSONL file failed", err))
	}

	return records, errs
}
