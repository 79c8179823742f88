package decode

import (
	"encoding/json"
	"fmt"

	"github.com/tideline/tideline/internal/model"
)

// LabelValuesOptions configures the label-values decoder. It has no
// tunables today; the shape it recognizes (a top-level "label_values"
// array of {label|title, dict|vec|timestamp_value|value} entries) is
// fixed by the export format itself.
type LabelValuesOptions struct{}

// LabelValuesDecoder flattens a "label_values" document -- an array of
// entries each carrying a label (or title) and exactly one of a nested
// dict, a vector, a timestamp value, or a scalar value -- into a single
// flat record keyed by label. When every label in the document is
// synthetic (see UNNAMED_LABEL_n below), the decoder degrades to
// returning the raw values as a list of records instead of one record,
// since there is no reliable key to flatten on.
type LabelValuesDecoder struct{}

// NewLabelValuesDecoder constructs a LabelValuesDecoder.
func NewLabelValuesDecoder(LabelValuesOptions) *LabelValuesDecoder {
	return &LabelValuesDecoder{}
}

func (d *LabelValuesDecoder) Decode(data []byte) ([]model.Record, []*DecodeError) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []*DecodeError{fatal("label_values_decode_failed", "could not decode label-values JSON", err)}
	}

	raw, ok := doc["label_values"].([]any)
	if !ok {
		return nil, []*DecodeError{fatal("label_values_missing", "document has no label_values array", nil)}
	}

	flat := make(map[string]any, len(raw))
	synthesizedCount := 0
	realLabelCount := 0

	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		label, hasLabel := stringField(entry, "label")
		if !hasLabel {
			label, hasLabel = stringField(entry, "title")
		}

		value := resolveLabelValue(entry)

		if !hasLabel || label == "" {
			label = fmt.Sprintf("UNNAMED_LABEL_%d", i)
			synthesizedCount++
		} else {
			realLabelCount++
		}

		flat[label] = value
	}

	if realLabelCount == 0 && synthesizedCount > 0 {
		// No usable keys: return each entry's value as its own record.
		records := make([]model.Record, 0, len(flat))
		for _, v := range flat {
			if m, ok := v.(map[string]any); ok {
				records = append(records, m)
			} else {
				records = append(records, model.Record{"value": v})
			}
		}
		return records, nil
	}

	return []model.Record{flat}, nil
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// resolveLabelValue picks the first populated value field in priority
// order: dict, vec, timestamp_value, value.
func resolveLabelValue(entry map[string]any) any {
	for _, key := range []string{"dict", "vec", "timestamp_value", "value"} {
		if v, ok := entry[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
