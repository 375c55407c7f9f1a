package beatsaber

import (
	"encoding/json"
	"fmt"
)

// Default jump parameters written for converted difficulties
const (
	DefaultNoteJumpSpeed  = 18.0
	DefaultNoteJumpOffset = 0.0
)

// DifficultyBeatmap is one playable difficulty: its Info.dat entry plus its v3 document
type DifficultyBeatmap struct {
	Filename       string
	Difficulty     Difficulty
	NoteJumpSpeed  float64
	NoteJumpOffset float64

	Version string

	BPMEvents        []BPMEvent
	RotationEvents   []RotationEvent
	BasicEvents      []BasicEvent
	ColorBoostEvents []ColorBoost
	ColorNotes       []ColorNote
	BombNotes        []BombNote
	Obstacles        []Obstacle
	Sliders          []Slider
	BurstSliders     []BurstSlider
	CompatibleEvents bool
}

// NewDifficultyBeatmap returns an empty v3 difficulty with default jump settings
func NewDifficultyBeatmap(d Difficulty, characteristic Characteristic) *DifficultyBeatmap {
	return &DifficultyBeatmap{
		Filename:       DifficultyFilename(d, characteristic),
		Difficulty:     d,
		NoteJumpSpeed:  DefaultNoteJumpSpeed,
		NoteJumpOffset: DefaultNoteJumpOffset,
		Version:        DifficultyVersion,
	}
}

// DifficultyFilename returns e.g. "ExpertPlusStandard.dat"
func DifficultyFilename(d Difficulty, characteristic Characteristic) string {
	return fmt.Sprintf("%s%s.dat", d, characteristic)
}

type keywordsDoc struct {
	D []json.RawMessage `json:"d"`
}

type difficultyDoc struct {
	Version                     string            `json:"version"`
	BPMEvents                   []BPMEvent        `json:"bpmEvents"`
	RotationEvents              []RotationEvent   `json:"rotationEvents"`
	ColorNotes                  []ColorNote       `json:"colorNotes"`
	BombNotes                   []BombNote        `json:"bombNotes"`
	Obstacles                   []Obstacle        `json:"obstacles"`
	Sliders                     []Slider          `json:"sliders"`
	BurstSliders                []BurstSlider     `json:"burstSliders"`
	Waypoints                   []json.RawMessage `json:"waypoints"`
	BasicEvents                 []BasicEvent      `json:"basicBeatmapEvents"`
	ColorBoostEvents            []ColorBoost      `json:"colorBoostBeatmapEvents"`
	LightColorEventBoxGroups    []json.RawMessage `json:"lightColorEventBoxGroups"`
	LightRotationEventBoxGroups []json.RawMessage `json:"lightRotationEventBoxGroups"`
	BasicEventTypesWithKeywords keywordsDoc       `json:"basicEventTypesWithKeywords"`
	CompatibleEvents            bool              `json:"useNormalEventsAsCompatibleEvents"`
}

// orEmpty keeps nil slices out of the JSON so every key is an array
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MarshalJSON writes the v3 difficulty document
func (d DifficultyBeatmap) MarshalJSON() ([]byte, error) {
	return json.Marshal(difficultyDoc{
		Version:                     d.Version,
		BPMEvents:                   orEmpty(d.BPMEvents),
		RotationEvents:              orEmpty(d.RotationEvents),
		ColorNotes:                  orEmpty(d.ColorNotes),
		BombNotes:                   orEmpty(d.BombNotes),
		Obstacles:                   orEmpty(d.Obstacles),
		Sliders:                     orEmpty(d.Sliders),
		BurstSliders:                orEmpty(d.BurstSliders),
		Waypoints:                   []json.RawMessage{},
		BasicEvents:                 orEmpty(d.BasicEvents),
		ColorBoostEvents:            orEmpty(d.ColorBoostEvents),
		LightColorEventBoxGroups:    []json.RawMessage{},
		LightRotationEventBoxGroups: []json.RawMessage{},
		BasicEventTypesWithKeywords: keywordsDoc{D: []json.RawMessage{}},
		CompatibleEvents:            d.CompatibleEvents,
	})
}

// UnmarshalJSON reads a v3 difficulty document. Info.dat fields
// (filename, difficulty, jump settings) are left untouched.
func (d *DifficultyBeatmap) UnmarshalJSON(data []byte) error {
	var doc difficultyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	const name = "difficulty"
	if doc.Version != DifficultyVersion {
		return &DecodeError{Document: name, Field: "version", Value: doc.Version, Err: ErrUnsupportedVersion}
	}
	// Document order, so the first populated collection is the one reported
	for _, c := range []struct {
		field string
		n     int
	}{
		{"waypoints", len(doc.Waypoints)},
		{"lightColorEventBoxGroups", len(doc.LightColorEventBoxGroups)},
		{"lightRotationEventBoxGroups", len(doc.LightRotationEventBoxGroups)},
		{"basicEventTypesWithKeywords.d", len(doc.BasicEventTypesWithKeywords.D)},
	} {
		if c.n > 0 {
			return &DecodeError{Document: name, Field: c.field, Err: ErrUnsupportedFeature}
		}
	}

	d.Version = doc.Version
	d.BPMEvents = doc.BPMEvents
	d.RotationEvents = doc.RotationEvents
	d.ColorNotes = doc.ColorNotes
	d.BombNotes = doc.BombNotes
	d.Obstacles = doc.Obstacles
	d.Sliders = doc.Sliders
	d.BurstSliders = doc.BurstSliders
	d.BasicEvents = doc.BasicEvents
	d.ColorBoostEvents = doc.ColorBoostEvents
	d.CompatibleEvents = doc.CompatibleEvents
	return nil
}
