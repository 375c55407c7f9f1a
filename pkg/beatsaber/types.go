// Package beatsaber models Beat Saber map documents (Info.dat v2, difficulty v3, BPMInfo.dat v2)
package beatsaber

import "fmt"

// Supported document versions
const (
	InfoVersion       = "2.0.0"
	DifficultyVersion = "3.0.0"
	BPMInfoVersion    = "2.0.0"
)

// Default environment names
const (
	EnvironmentDefault     = "DefaultEnvironment"
	EnvironmentGlassDesert = "GlassDesertEnvironment"
)

// Characteristic names a difficulty set
type Characteristic string

const (
	CharacteristicStandard  Characteristic = "Standard"
	CharacteristicNoArrows  Characteristic = "NoArrows"
	CharacteristicOneSaber  Characteristic = "OneSaber"
	CharacteristicRotate360 Characteristic = "360Degree"
	CharacteristicRotate90  Characteristic = "90Degree"
)

// Difficulty is a Beat Saber difficulty slot
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyExpert
	DifficultyExpertPlus
)

var difficultyInfo = [...]struct {
	name string
	rank int
}{
	{"Easy", 1},
	{"Normal", 3},
	{"Hard", 5},
	{"Expert", 7},
	{"ExpertPlus", 9},
}

func (d Difficulty) valid() bool {
	return d >= 0 && int(d) < len(difficultyInfo)
}

func (d Difficulty) String() string {
	if !d.valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyInfo[d].name
}

// Rank returns the _difficultyRank value
func (d Difficulty) Rank() int {
	if !d.valid() {
		return 0
	}
	return difficultyInfo[d].rank
}

// ParseDifficulty maps a _difficulty name
func ParseDifficulty(s string) (Difficulty, error) {
	for i, info := range difficultyInfo {
		if info.name == s {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// NoteColor selects the saber
type NoteColor int

const (
	ColorLeft NoteColor = iota
	ColorRight
)

// CutDirection of a color note
type CutDirection int

const (
	CutUp CutDirection = iota
	CutDown
	CutLeft
	CutRight
	CutUpLeft
	CutUpRight
	CutDownLeft
	CutDownRight
	CutAny
)

// BPMEvent changes tempo at a beat
type BPMEvent struct {
	Beat float64 `json:"b"`
	BPM  float64 `json:"m"`
}

// RotationEvent rotates the play area
type RotationEvent struct {
	Beat  float64 `json:"b"`
	Type  int     `json:"e"` // 0 early, 1 late
	Angle float64 `json:"r"`
}

// ColorNote is a note to be cut
type ColorNote struct {
	Beat        float64      `json:"b"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	Color       NoteColor    `json:"c"`
	Direction   CutDirection `json:"d"`
	AngleOffset int          `json:"a"`
}

// BombNote is a hazard to avoid
type BombNote struct {
	Beat float64 `json:"b"`
	X    int     `json:"x"`
	Y    int     `json:"y"`
}

// Obstacle is a wall
type Obstacle struct {
	Beat     float64 `json:"b"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Duration float64 `json:"d"`
	Width    int     `json:"w"`
	Height   int     `json:"h"`
}

// Slider is an arc between two notes
type Slider struct {
	Beat           float64      `json:"b"`
	Color          NoteColor    `json:"c"`
	X              int          `json:"x"`
	Y              int          `json:"y"`
	Direction      CutDirection `json:"d"`
	Multiplier     float64      `json:"mu"`
	TailBeat       float64      `json:"tb"`
	TailX          int          `json:"tx"`
	TailY          int          `json:"ty"`
	TailDirection  CutDirection `json:"tc"`
	TailMultiplier float64      `json:"tmu"`
	MidAnchorMode  int          `json:"m"`
}

// BurstSlider is a chain of note segments
type BurstSlider struct {
	Beat         float64      `json:"b"`
	X            int          `json:"x"`
	Y            int          `json:"y"`
	Color        NoteColor    `json:"c"`
	Direction    CutDirection `json:"d"`
	TailBeat     float64      `json:"tb"`
	TailX        int          `json:"tx"`
	TailY        int          `json:"ty"`
	SegmentCount int          `json:"sc"`
	SquishFactor float64      `json:"s"`
}

// BasicEvent is a lighting event
type BasicEvent struct {
	Beat       float64 `json:"b"`
	Type       int     `json:"et"`
	IntValue   int     `json:"i"`
	FloatValue float64 `json:"f"`
}

// ColorBoost toggles boost colors
type ColorBoost struct {
	Beat   float64 `json:"b"`
	Enable bool    `json:"o"`
}
