package beatsaber

import (
	"encoding/json"
	"fmt"
)

// UnknownSampleCount asks the synthesizer to pad the song past the last tempo change
const UnknownSampleCount = -1

// DefaultSampleRate is the audio frequency assumed when none is known
const DefaultSampleRate = 44100

// padSeconds extends the last region when the song length is unknown
const padSeconds = 5

// Region is a span of constant tempo in both sample and beat coordinates.
// Sample bounds are inclusive.
type Region struct {
	StartSample int     `json:"_startSampleIndex"`
	EndSample   int     `json:"_endSampleIndex"`
	StartBeat   float64 `json:"_startBeat"`
	EndBeat     float64 `json:"_endBeat"`
}

// RegionConfig parameterizes SynthesizeRegions
type RegionConfig struct {
	SampleRate  int
	SampleCount int     // UnknownSampleCount pads 5 s past the last change
	InitialBPM  float64 // <= 0 takes the tempo of the change at beat 0
}

// SynthesizeRegions converts ordered tempo changes into contiguous sample regions.
//
// One running sample position accumulates across all changes in full precision;
// region boundaries truncate it but never feed the truncated value back.
func SynthesizeRegions(events []BPMEvent, cfg RegionConfig) ([]Region, error) {
	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	bpm := cfg.InitialBPM
	if bpm <= 0 {
		if len(events) == 0 {
			return nil, ErrNoTempo
		}
		if events[0].Beat != 0 {
			return nil, fmt.Errorf("%w: first change at beat %v", ErrMissingInitialBPM, events[0].Beat)
		}
		bpm = events[0].BPM
	}

	rate := float64(cfg.SampleRate)
	regions := []Region{{}}
	sample := 0.0
	lastBeat := 0.0 // beat the accumulator has reached

	for _, ev := range events {
		if ev.Beat == 0 {
			continue
		}
		if ev.BPM <= 0 {
			return nil, fmt.Errorf("non-positive bpm %v at beat %v", ev.BPM, ev.Beat)
		}

		cur := &regions[len(regions)-1]
		switch {
		case ev.Beat < lastBeat:
			return nil, fmt.Errorf("%w: beat %v after beat %v", ErrUnorderedTempo, ev.Beat, lastBeat)
		case ev.Beat == cur.StartBeat:
			// Same beat as the open region: the later tempo wins
			bpm = ev.BPM
			continue
		}

		sample += rate * (ev.Beat - lastBeat) / (bpm / 60)
		lastBeat = ev.Beat
		if int(sample) <= cur.StartSample {
			// Less than one sample into the open region: no room for a new one
			bpm = ev.BPM
			continue
		}

		cur.EndBeat = ev.Beat
		cur.EndSample = int(sample) - 1
		regions = append(regions, Region{StartSample: int(sample), StartBeat: ev.Beat})

		bpm = ev.BPM
	}

	total := float64(cfg.SampleCount)
	if cfg.SampleCount == UnknownSampleCount {
		total = sample + rate*padSeconds
	}

	last := &regions[len(regions)-1]
	if int(total)-1 < last.StartSample {
		return nil, fmt.Errorf("%w: %d samples, last change at sample %d",
			ErrSampleCountTooShort, int(total), last.StartSample)
	}
	last.EndSample = int(total) - 1
	last.EndBeat = lastBeat + (total-sample)/rate*bpm/60

	return regions, nil
}

// BPMInfo is the BPMInfo.dat document
type BPMInfo struct {
	Version     string
	SampleCount int
	SampleRate  int
	Regions     []Region
}

// NewBPMInfo synthesizes the regions of events into a document
func NewBPMInfo(events []BPMEvent, cfg RegionConfig) (*BPMInfo, error) {
	regions, err := SynthesizeRegions(events, cfg)
	if err != nil {
		return nil, err
	}
	return &BPMInfo{
		Version:     BPMInfoVersion,
		SampleCount: regions[len(regions)-1].EndSample + 1,
		SampleRate:  cfg.SampleRate,
		Regions:     regions,
	}, nil
}

type bpmInfoDoc struct {
	Version     string   `json:"_version"`
	SampleCount int      `json:"_songSampleCount"`
	SampleRate  int      `json:"_songFrequency"`
	Regions     []Region `json:"_regions"`
}

// MarshalJSON writes the BPMInfo.dat layout
func (b BPMInfo) MarshalJSON() ([]byte, error) {
	regions := b.Regions
	if regions == nil {
		regions = []Region{}
	}
	return json.Marshal(bpmInfoDoc{
		Version:     b.Version,
		SampleCount: b.SampleCount,
		SampleRate:  b.SampleRate,
		Regions:     regions,
	})
}

// UnmarshalJSON reads a BPMInfo.dat document, accepting only version 2.0.0
func (b *BPMInfo) UnmarshalJSON(data []byte) error {
	var doc bpmInfoDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version != BPMInfoVersion {
		return &DecodeError{Document: "BPMInfo.dat", Field: "_version", Value: doc.Version, Err: ErrUnsupportedVersion}
	}
	*b = BPMInfo(doc)
	return nil
}
