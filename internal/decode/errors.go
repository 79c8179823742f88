package decode

import "github.com/tideline/tideline/internal/apperr"

// DecodeError is a single issue raised while decoding a file, along with
// the line number it was raised at. Line is 0 for file-level errors.
type DecodeError struct {
	*apperr.Error
	Line int
}

func fatal(code, msg string, err error) *DecodeError {
	return &DecodeError{Error: apperr.Fatalf(code, msg, err)}
}

func warning(code, msg string, line int, err error) *DecodeError {
	return &DecodeError{Error: apperr.Warningf(code, msg, err), Line: line}
}
