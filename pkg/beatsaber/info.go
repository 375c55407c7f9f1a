package beatsaber

import (
	"encoding/json"
)

// DifficultyBeatmapSet groups the difficulties of one characteristic
type DifficultyBeatmapSet struct {
	Characteristic Characteristic
	Beatmaps       []*DifficultyBeatmap
}

// BeatMap is a whole map: Info.dat metadata, difficulties and optional BPM regions
type BeatMap struct {
	Version         string
	SongName        string
	SongSubName     string
	SongAuthorName  string
	LevelAuthorName string

	BeatsPerMinute   float64
	SongTimeOffset   float64
	Shuffle          float64
	ShufflePeriod    float64
	PreviewStartTime float64
	PreviewDuration  float64

	SongFilename       string
	CoverImageFilename string

	EnvironmentName              string
	AllDirectionsEnvironmentName string

	DifficultyBeatmapSets []DifficultyBeatmapSet

	// BPMInfo is set only for maps with tempo changes
	BPMInfo *BPMInfo
}

// NewBeatMap returns a map with Info.dat defaults
func NewBeatMap() *BeatMap {
	return &BeatMap{
		Version:                      InfoVersion,
		BeatsPerMinute:               120,
		EnvironmentName:              EnvironmentDefault,
		AllDirectionsEnvironmentName: EnvironmentGlassDesert,
	}
}

// Difficulties returns every difficulty across all sets
func (m *BeatMap) Difficulties() []*DifficultyBeatmap {
	var out []*DifficultyBeatmap
	for _, set := range m.DifficultyBeatmapSets {
		out = append(out, set.Beatmaps...)
	}
	return out
}

type difficultyEntryDoc struct {
	Difficulty     string  `json:"_difficulty"`
	Rank           int     `json:"_difficultyRank"`
	Filename       string  `json:"_beatmapFilename"`
	NoteJumpSpeed  float64 `json:"_noteJumpMovementSpeed"`
	NoteJumpOffset float64 `json:"_noteJumpStartBeatOffset"`
}

type difficultySetDoc struct {
	Characteristic string               `json:"_beatmapCharacteristicName"`
	Beatmaps       []difficultyEntryDoc `json:"_difficultyBeatmaps"`
}

type infoDoc struct {
	Version                      string             `json:"_version"`
	SongName                     string             `json:"_songName"`
	SongSubName                  string             `json:"_songSubName"`
	SongAuthorName               string             `json:"_songAuthorName"`
	LevelAuthorName              string             `json:"_levelAuthorName"`
	BeatsPerMinute               float64            `json:"_beatsPerMinute"`
	SongTimeOffset               float64            `json:"_songTimeOffset"`
	Shuffle                      float64            `json:"_shuffle"`
	ShufflePeriod                float64            `json:"_shufflePeriod"`
	PreviewStartTime             float64            `json:"_previewStartTime"`
	PreviewDuration              float64            `json:"_previewDuration"`
	SongFilename                 string             `json:"_songFilename"`
	CoverImageFilename           string             `json:"_coverImageFilename"`
	EnvironmentName              string             `json:"_environmentName"`
	AllDirectionsEnvironmentName string             `json:"_allDirectionsEnvironmentName"`
	DifficultyBeatmapSets        []difficultySetDoc `json:"_difficultyBeatmapSets"`
}

// MarshalJSON writes the Info.dat document. Difficulty contents and
// BPMInfo live in their own files and are not included.
func (m BeatMap) MarshalJSON() ([]byte, error) {
	doc := infoDoc{
		Version:                      m.Version,
		SongName:                     m.SongName,
		SongSubName:                  m.SongSubName,
		SongAuthorName:               m.SongAuthorName,
		LevelAuthorName:              m.LevelAuthorName,
		BeatsPerMinute:               m.BeatsPerMinute,
		SongTimeOffset:               m.SongTimeOffset,
		Shuffle:                      m.Shuffle,
		ShufflePeriod:                m.ShufflePeriod,
		PreviewStartTime:             m.PreviewStartTime,
		PreviewDuration:              m.PreviewDuration,
		SongFilename:                 m.SongFilename,
		CoverImageFilename:           m.CoverImageFilename,
		EnvironmentName:              m.EnvironmentName,
		AllDirectionsEnvironmentName: m.AllDirectionsEnvironmentName,
		DifficultyBeatmapSets:        []difficultySetDoc{},
	}

	for _, set := range m.DifficultyBeatmapSets {
		setDoc := difficultySetDoc{
			Characteristic: string(set.Characteristic),
			Beatmaps:       []difficultyEntryDoc{},
		}
		for _, dm := range set.Beatmaps {
			setDoc.Beatmaps = append(setDoc.Beatmaps, difficultyEntryDoc{
				Difficulty:     dm.Difficulty.String(),
				Rank:           dm.Difficulty.Rank(),
				Filename:       dm.Filename,
				NoteJumpSpeed:  dm.NoteJumpSpeed,
				NoteJumpOffset: dm.NoteJumpOffset,
			})
		}
		doc.DifficultyBeatmapSets = append(doc.DifficultyBeatmapSets, setDoc)
	}

	return json.Marshal(doc)
}

// UnmarshalJSON reads an Info.dat document, accepting only version 2.0.0.
// Difficulties get their Info.dat fields; their contents must be loaded separately.
func (m *BeatMap) UnmarshalJSON(data []byte) error {
	var doc infoDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version != InfoVersion {
		return &DecodeError{Document: "Info.dat", Field: "_version", Value: doc.Version, Err: ErrUnsupportedVersion}
	}

	*m = BeatMap{
		Version:                      doc.Version,
		SongName:                     doc.SongName,
		SongSubName:                  doc.SongSubName,
		SongAuthorName:               doc.SongAuthorName,
		LevelAuthorName:              doc.LevelAuthorName,
		BeatsPerMinute:               doc.BeatsPerMinute,
		SongTimeOffset:               doc.SongTimeOffset,
		Shuffle:                      doc.Shuffle,
		ShufflePeriod:                doc.ShufflePeriod,
		PreviewStartTime:             doc.PreviewStartTime,
		PreviewDuration:              doc.PreviewDuration,
		SongFilename:                 doc.SongFilename,
		CoverImageFilename:           doc.CoverImageFilename,
		EnvironmentName:              doc.EnvironmentName,
		AllDirectionsEnvironmentName: doc.AllDirectionsEnvironmentName,
	}

	for _, setDoc := range doc.DifficultyBeatmapSets {
		set := DifficultyBeatmapSet{Characteristic: Characteristic(setDoc.Characteristic)}
		for _, entry := range setDoc.Beatmaps {
			d, err := ParseDifficulty(entry.Difficulty)
			if err != nil {
				return &DecodeError{Document: "Info.dat", Field: "_difficulty", Value: entry.Difficulty, Err: err}
			}
			set.Beatmaps = append(set.Beatmaps, &DifficultyBeatmap{
				Filename:       entry.Filename,
				Difficulty:     d,
				NoteJumpSpeed:  entry.NoteJumpSpeed,
				NoteJumpOffset: entry.NoteJumpOffset,
			})
		}
		m.DifficultyBeatmapSets = append(m.DifficultyBeatmapSets, set)
	}

	return nil
}
