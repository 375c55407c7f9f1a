package stepmania

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/sm2bs/pkg/msd"
	"github.com/james-see/sm2bs/pkg/warn"
)

const stage = "decode"

// DecodeOptions controls chart decoding
type DecodeOptions struct {
	// Version is the only accepted #VERSION value. Plain .sm files carry no
	// #VERSION record, so the default rejects any file that declares one.
	Version string
}

// DefaultDecodeOptions returns the options for plain .sm files
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{}
}

// Parse tokenizes and decodes .sm text
func Parse(text string) (*Song, []warn.Warning, error) {
	records, err := msd.Tokenize(text, msd.DefaultOptions())
	if err != nil {
		return nil, nil, err
	}
	return Decode(records, DefaultDecodeOptions())
}

// Decode builds a Song from tokenized records in a single pass
func Decode(records []msd.Record, opts DecodeOptions) (*Song, []warn.Warning, error) {
	song := &Song{}
	var warnings warn.List

	for _, rec := range records {
		var err error
		switch tag := LookupTag(rec.Tag()); tag {
		case TagVersion:
			err = checkVersion(rec, opts.Version)
		case TagTitle:
			song.Title, err = stringParam(rec)
		case TagSubtitle:
			song.Subtitle, err = stringParam(rec)
		case TagArtist:
			song.Artist, err = stringParam(rec)
		case TagCredit:
			song.Credit, err = stringParam(rec)
		case TagMusic:
			song.Music, err = stringParam(rec)
		case TagOffset:
			song.Offset, err = floatParam(rec)
		case TagSampleStart:
			song.SampleStart, err = floatParam(rec)
		case TagSampleLength:
			song.SampleLength, err = floatParam(rec)
		case TagBPMs:
			err = decodeBPMs(song, rec)
		case TagNotes:
			err = decodeNotes(song, rec)
		case TagUnknown:
			warnings.Addf(stage, "ignoring tag %s", strings.ToUpper(rec.Tag()))
		default:
			panic(fmt.Sprintf("stepmania: unhandled tag %d", tag))
		}
		if err != nil {
			return nil, warnings, err
		}
	}

	return song, warnings, nil
}

func checkVersion(rec msd.Record, expected string) error {
	v, err := stringParam(rec)
	if err != nil {
		return err
	}
	if strings.TrimSpace(v) != expected {
		return &DecodeError{Tag: rec.Tag(), Value: v, Err: ErrUnsupportedVersion}
	}
	return nil
}

func stringParam(rec msd.Record) (string, error) {
	v, ok := rec.Param(0)
	if !ok {
		return "", &DecodeError{Tag: rec.Tag(), Err: ErrMissingField}
	}
	return v, nil
}

func floatParam(rec msd.Record) (float64, error) {
	v, err := stringParam(rec)
	if err != nil {
		return 0, err
	}
	f, err := parseFloat(v)
	if err != nil {
		return 0, &DecodeError{Tag: rec.Tag(), Value: v, Err: ErrMalformedNumber}
	}
	return f, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// decodeBPMs reads "beat=bpm,beat=bpm,..."
func decodeBPMs(song *Song, rec msd.Record) error {
	v, err := stringParam(rec)
	if err != nil {
		return err
	}

	for _, pair := range strings.Split(v, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		beatStr, bpmStr, ok := strings.Cut(pair, "=")
		if !ok {
			return &DecodeError{Tag: rec.Tag(), Value: pair, Err: ErrMalformedNumber}
		}
		beat, err := parseFloat(beatStr)
		if err != nil {
			return &DecodeError{Tag: rec.Tag(), Value: pair, Err: ErrMalformedNumber}
		}
		if beat < 0 {
			return &DecodeError{Tag: rec.Tag(), Value: pair, Err: ErrNegativeBeat}
		}
		bpm, err := parseFloat(bpmStr)
		if err != nil {
			return &DecodeError{Tag: rec.Tag(), Value: pair, Err: ErrMalformedNumber}
		}
		if bpm <= 0 {
			return &DecodeError{Tag: rec.Tag(), Value: pair, Err: ErrNonPositiveBPM}
		}
		song.BPMs = append(song.BPMs, BPMChange{Beat: beat, BPM: bpm})
	}
	return nil
}

// NOTES parameter layout
const (
	notesType = iota
	notesDescription
	notesDifficulty
	notesMeter
	notesRadar
	notesGrid
	notesParamCount
)

func decodeNotes(song *Song, rec msd.Record) error {
	params := rec.Params()
	if len(params) < notesParamCount {
		return &DecodeError{
			Tag: rec.Tag(),
			Err: fmt.Errorf("%w: want %d parameters, got %d", ErrMissingField, notesParamCount, len(params)),
		}
	}

	chart := Chart{
		Type:        ChartType(strings.TrimSpace(params[notesType])),
		Description: strings.TrimSpace(params[notesDescription]),
		RadarValues: strings.TrimSpace(params[notesRadar]),
	}

	diff, err := ParseDifficulty(strings.TrimSpace(params[notesDifficulty]))
	if err != nil {
		return &DecodeError{Tag: rec.Tag(), Value: params[notesDifficulty], Err: err}
	}
	chart.Difficulty = diff

	meter, err := strconv.Atoi(strings.TrimSpace(params[notesMeter]))
	if err != nil {
		return &DecodeError{Tag: rec.Tag(), Value: params[notesMeter], Err: ErrMalformedNumber}
	}
	chart.Meter = meter

	notes, err := decodeGrid(params[notesGrid])
	if err != nil {
		return &DecodeError{Tag: rec.Tag(), Err: err}
	}
	chart.Notes = notes

	song.Charts = append(song.Charts, chart)
	return nil
}

// decodeGrid turns comma-separated measures of newline-separated rows into notes
func decodeGrid(grid string) ([]Note, error) {
	var notes []Note

	for measureIdx, measure := range strings.Split(grid, ",") {
		rows := strings.Split(strings.TrimSpace(measure), "\n")
		if TicksPerMeasure%len(rows) != 0 {
			return nil, fmt.Errorf("%w: measure %d has %d rows", ErrInvalidRowCount, measureIdx, len(rows))
		}
		ticksPerRow := TicksPerMeasure / len(rows)

		for rowIdx, row := range rows {
			tick := measureIdx*TicksPerMeasure + rowIdx*ticksPerRow
			row = strings.TrimSpace(row)
			for col := 0; col < len(row); col++ {
				noteType, err := ParseNoteType(row[col])
				if err != nil {
					return nil, fmt.Errorf("%w %q in measure %d row %d column %d",
						err, row[col], measureIdx, rowIdx, col)
				}
				if noteType == NoteNone {
					continue
				}
				notes = append(notes, Note{Tick: tick, Column: col, Type: noteType})
			}
		}
	}

	return notes, nil
}
