package beatsaber

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion  = errors.New("unsupported format version")
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrNoTempo             = errors.New("no tempo changes")
	ErrMissingInitialBPM   = errors.New("missing bpm at beat 0")
	ErrUnorderedTempo      = errors.New("tempo changes out of order")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrSampleCountTooShort = errors.New("sample count ends before the last tempo change")
)

// DecodeError reports a rejected document field
type DecodeError struct {
	Document string
	Field    string
	Value    any
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("beatsaber: %s: %s: %v", e.Document, e.Field, e.Err)
	}
	return fmt.Sprintf("beatsaber: %s: %s: %v: %v", e.Document, e.Field, e.Err, e.Value)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
