// Package msd tokenizes the #TAG:param:param; text format used by StepMania charts
package msd

import (
	"fmt"
	"strings"
)

// Markers of the MSD grammar
const (
	RecordStart  = '#'
	ParamSep     = ':'
	RecordEnd    = ';'
	EscapeMarker = '\\'
	commentStart = "//"
)

// Record is one #...; unit. Element 0 is the tag name.
type Record []string

// Tag returns the record's tag name
func (r Record) Tag() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Params returns the parameters following the tag name
func (r Record) Params() []string {
	if len(r) < 2 {
		return nil
	}
	return r[1:]
}

// Param returns the i-th parameter (0-based, tag excluded)
func (r Record) Param(i int) (string, bool) {
	if i < 0 || i+1 >= len(r) {
		return "", false
	}
	return r[i+1], true
}

// String rebuilds the record in source form without escaping
func (r Record) String() string {
	return string(RecordStart) + strings.Join(r, string(ParamSep)) + string(RecordEnd)
}

// Options controls tokenizer behavior
type Options struct {
	// Escapes enables backslash handling: outside a record the marker and the
	// next character are dropped, inside a record the next character is taken literally.
	Escapes bool

	// PreserveCommentsInValues stops "//" from starting a comment while a
	// record is open. The zero value strips comments everywhere, as StepMania does.
	PreserveCommentsInValues bool
}

// DefaultOptions returns the options used for .sm files
func DefaultOptions() Options {
	return Options{Escapes: true}
}

// SyntaxError reports a record left open at end of input
type SyntaxError struct {
	Offset int    // byte offset of the opening '#'
	Tag    string // tag name if one was read
}

func (e *SyntaxError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("msd: unterminated record at offset %d", e.Offset)
	}
	return fmt.Sprintf("msd: unterminated record #%s at offset %d", e.Tag, e.Offset)
}

// Tokenize splits text into records
func Tokenize(text string, opts Options) ([]Record, error) {
	var (
		records  []Record
		param    strings.Builder
		inRecord bool
		start    int
	)

	i := 0
	for i < len(text) {
		if (!inRecord || !opts.PreserveCommentsInValues) && strings.HasPrefix(text[i:], commentStart) {
			// Skip through the line break
			nl := strings.IndexByte(text[i+len(commentStart):], '\n')
			if nl < 0 {
				i = len(text)
			} else {
				i += len(commentStart) + nl + 1
			}
			continue
		}

		c := text[i]

		if !inRecord {
			switch {
			case c == RecordStart:
				records = append(records, Record{})
				inRecord = true
				start = i
				i++
			case opts.Escapes && c == EscapeMarker:
				i += 2
			default:
				i++
			}
			continue
		}

		switch c {
		case ParamSep:
			records[len(records)-1] = append(records[len(records)-1], param.String())
			param.Reset()
			i++
			continue
		case RecordEnd:
			records[len(records)-1] = append(records[len(records)-1], param.String())
			param.Reset()
			inRecord = false
			i++
			continue
		case RecordStart:
			// Stray '#' inside a record is dropped
			i++
			continue
		}

		if opts.Escapes && c == EscapeMarker {
			i++
			if i >= len(text) {
				break
			}
			c = text[i]
		}
		param.WriteByte(c)
		i++
	}

	if inRecord {
		rec := records[len(records)-1]
		tag := rec.Tag()
		if len(rec) == 0 {
			tag = param.String()
		}
		return nil, &SyntaxError{Offset: start, Tag: tag}
	}

	return records, nil
}
