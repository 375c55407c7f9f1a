package stepmania

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDifficulty  = errors.New("unknown difficulty")
	ErrUnknownNoteType    = errors.New("unknown note type")
	ErrInvalidRowCount    = errors.New("row count does not divide the measure")
	ErrNonPositiveBPM     = errors.New("bpm must be positive")
	ErrNegativeBeat       = errors.New("beat must not be negative")
	ErrMalformedNumber    = errors.New("malformed number")
	ErrMissingField       = errors.New("missing field")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// DecodeError reports which record and value failed to decode
type DecodeError struct {
	Tag   string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("stepmania: #%s: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("stepmania: #%s: %v: %q", e.Tag, e.Err, e.Value)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
