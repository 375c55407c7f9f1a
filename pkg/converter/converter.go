package converter

import (
	"errors"

	"github.com/james-see/sm2bs/pkg/beatsaber"
	"github.com/james-see/sm2bs/pkg/stepmania"
	"github.com/james-see/sm2bs/pkg/warn"
)

const stage = "convert"

var (
	ErrNoTempo            = errors.New("song has no tempo")
	ErrUnmappedDifficulty = errors.New("difficulty has no Beat Saber equivalent")
)

// difficultyMapping shifts every StepMania slot up by one Beat Saber slot
var difficultyMapping = map[stepmania.Difficulty]beatsaber.Difficulty{
	stepmania.DifficultyBeginner:  beatsaber.DifficultyEasy,
	stepmania.DifficultyEasy:      beatsaber.DifficultyNormal,
	stepmania.DifficultyMedium:    beatsaber.DifficultyHard,
	stepmania.DifficultyHard:      beatsaber.DifficultyExpert,
	stepmania.DifficultyChallenge: beatsaber.DifficultyExpertPlus,
}

// MapDifficulty returns the Beat Saber slot for a StepMania difficulty
func MapDifficulty(d stepmania.Difficulty) (beatsaber.Difficulty, error) {
	bd, ok := difficultyMapping[d]
	if !ok {
		return 0, &ConversionError{Field: "difficulty", Value: d.String(), Err: ErrUnmappedDifficulty}
	}
	return bd, nil
}

// Convert builds a Beat Saber map from a decoded song. The song is not modified.
func (c *Converter) Convert(song *stepmania.Song) (*Result, error) {
	if len(song.BPMs) == 0 {
		return nil, &ConversionError{Field: "bpm", Err: ErrNoTempo}
	}

	var warnings warn.List

	bm := beatsaber.NewBeatMap()
	bm.SongName = song.Title
	bm.SongSubName = song.Subtitle
	bm.SongAuthorName = song.Artist
	bm.LevelAuthorName = song.Credit
	bm.SongFilename = song.Music
	bm.SongTimeOffset = song.Offset
	bm.PreviewStartTime = song.SampleStart
	bm.PreviewDuration = song.SampleLength

	bpmEvents := make([]beatsaber.BPMEvent, len(song.BPMs))
	for i, change := range song.BPMs {
		bpmEvents[i] = beatsaber.BPMEvent{Beat: change.Beat, BPM: change.BPM}
	}
	bm.BeatsPerMinute = bpmEvents[0].BPM

	if len(bpmEvents) > 1 {
		info, err := beatsaber.NewBPMInfo(bpmEvents, beatsaber.RegionConfig{
			SampleRate:  c.opts.SampleRate,
			SampleCount: c.opts.SampleCount,
		})
		if err != nil {
			return nil, &ConversionError{Field: "bpm", Err: err}
		}
		bm.BPMInfo = info
	}

	set := beatsaber.DifficultyBeatmapSet{Characteristic: beatsaber.CharacteristicStandard}
	seen := make(map[string]string)

	for _, chart := range song.Charts {
		label := string(chart.Type) + ":" + chart.Difficulty.String()
		if !chart.Type.Supported() {
			warnings.Addf(stage, "%s is not %s; converting it anyway", label, stepmania.ChartTypeDanceSingle)
		}

		bd, err := MapDifficulty(chart.Difficulty)
		if err != nil {
			return nil, err
		}

		dm := beatsaber.NewDifficultyBeatmap(bd, set.Characteristic)
		dm.BPMEvents = append([]beatsaber.BPMEvent(nil), bpmEvents...)

		if prev, ok := seen[dm.Filename]; ok {
			warnings.Addf(stage, "%s and %s both map to %s", prev, label, dm.Filename)
		}
		seen[dm.Filename] = label

		for _, note := range chart.Notes {
			beat := note.Beat()
			switch note.Type {
			case stepmania.NoteTap:
				dm.ColorNotes = append(dm.ColorNotes, beatsaber.ColorNote{
					Beat:      beat,
					X:         note.Column,
					Y:         0,
					Color:     beatsaber.ColorRight,
					Direction: beatsaber.CutAny,
				})
			case stepmania.NoteMine:
				dm.BombNotes = append(dm.BombNotes, beatsaber.BombNote{
					Beat: beat,
					X:    note.Column,
					Y:    0,
				})
			default:
				warnings.Addf(stage, "%s: ignoring %s note on beat %v", label, note.Type, beat)
			}
		}

		set.Beatmaps = append(set.Beatmaps, dm)
	}

	bm.DifficultyBeatmapSets = append(bm.DifficultyBeatmapSets, set)

	return &Result{BeatMap: bm, Warnings: warnings}, nil
}
