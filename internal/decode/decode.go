package decode

import "github.com/tideline/tideline/internal/model"

// Decoder turns a whole file's raw bytes into zero or more decoded
// records, plus any record- or file-level errors encountered along the
// way. A non-empty return of errors does not necessarily mean Decode
// failed outright: warning-level errors accompany partial results.
type Decoder interface {
	Decode(data []byte) ([]model.Record, []*DecodeError)
}

var (
	_ Decoder = (*JSONDecoder)(nil)
	_ Decoder = (*JSONLDecoder)(nil)
	_ Decoder = (*CSVDecoder)(nil)
	_ Decoder = (*LabelValuesDecoder)(nil)
	_ Decoder = (*CSVMultiDecoder)(nil)
)
