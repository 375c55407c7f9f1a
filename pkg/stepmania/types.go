// Package stepmania decodes StepMania .sm charts into typed songs
package stepmania

import (
	"fmt"
	"strings"
)

// Grid resolution
const (
	TicksPerMeasure = 192
	BeatsPerMeasure = 4
	TicksPerBeat    = TicksPerMeasure / BeatsPerMeasure
)

// BPMChange sets a new tempo from Beat onwards
type BPMChange struct {
	Beat float64 `json:"beat"`
	BPM  float64 `json:"bpm"`
}

// ChartType is the play style token of a NOTES block, e.g. "dance-single"
type ChartType string

const (
	ChartTypeDanceSingle ChartType = "dance-single"
	ChartTypeDanceDouble ChartType = "dance-double"
)

// Supported reports whether the chart type converts cleanly
func (c ChartType) Supported() bool {
	return c == ChartTypeDanceSingle
}

// Difficulty is the difficulty slot of a chart
type Difficulty int

const (
	DifficultyBeginner Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
	DifficultyChallenge
	DifficultyEdit
)

var difficultyNames = [...]string{"Beginner", "Easy", "Medium", "Hard", "Challenge", "Edit"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty maps a difficulty token (case-insensitive)
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(i), nil
		}
	}
	return 0, ErrUnknownDifficulty
}

// NoteType is the grid character of a note
type NoteType byte

const (
	NoteNone         NoteType = '0'
	NoteTap          NoteType = '1'
	NoteHoldHead     NoteType = '2'
	NoteHoldRollTail NoteType = '3'
	NoteRollHead     NoteType = '4'
	NoteMine         NoteType = 'M'
	NoteKeysound     NoteType = 'K'
	NoteLift         NoteType = 'L'
	NoteFake         NoteType = 'F'
)

// ParseNoteType validates a grid character
func ParseNoteType(c byte) (NoteType, error) {
	switch t := NoteType(c); t {
	case NoteNone, NoteTap, NoteHoldHead, NoteHoldRollTail, NoteRollHead,
		NoteMine, NoteKeysound, NoteLift, NoteFake:
		return t, nil
	}
	return 0, ErrUnknownNoteType
}

func (n NoteType) String() string {
	switch n {
	case NoteNone:
		return "none"
	case NoteTap:
		return "tap"
	case NoteHoldHead:
		return "hold-head"
	case NoteHoldRollTail:
		return "hold/roll-tail"
	case NoteRollHead:
		return "roll-head"
	case NoteMine:
		return "mine"
	case NoteKeysound:
		return "keysound"
	case NoteLift:
		return "lift"
	case NoteFake:
		return "fake"
	}
	return fmt.Sprintf("NoteType(%q)", byte(n))
}

// Note is one grid cell with a non-empty note
type Note struct {
	Tick   int
	Column int
	Type   NoteType
}

// Beat returns the note position in beats
func (n Note) Beat() float64 {
	return float64(n.Tick) / TicksPerBeat
}

// Chart is one NOTES block
type Chart struct {
	Type        ChartType
	Description string
	Difficulty  Difficulty
	Meter       int
	RadarValues string
	Notes       []Note
}

// Song is a decoded .sm file
type Song struct {
	Title        string
	Subtitle     string
	Artist       string
	Credit       string
	Music        string
	Offset       float64
	SampleStart  float64
	SampleLength float64
	BPMs         []BPMChange
	Charts       []Chart
}
