package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/sm2bs/pkg/stepmania"
)

// MIDI preview layout
const (
	PreviewBaseKey   = 60 // column 0
	PreviewMineKey   = 42 // closed hi-hat
	previewChannel   = 0
	previewDrumChan  = 9
	previewVelocity  = 100
	previewTapLength = 8 // fraction of a beat
)

// MIDIExporter renders a chart's rhythm as a Standard MIDI File for auditioning
type MIDIExporter struct {
	ticksPerQuarter uint16
}

// NewMIDIExporter creates a new MIDI exporter
func NewMIDIExporter() *MIDIExporter {
	return &MIDIExporter{ticksPerQuarter: 480}
}

// priorities order events sharing a tick
const (
	prioOff = iota
	prioTempo
	prioOn
)

type timedMessage struct {
	tick uint32
	prio int
	msg  []byte
}

// tempoMessage builds an FF 51 set-tempo meta event
func tempoMessage(bpm float64) []byte {
	microsecondsPerBeat := uint32(60000000.0 / bpm)
	return smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
}

// beatTick places a beat on the track; negative beats land on tick 0
func (m *MIDIExporter) beatTick(beat float64) uint32 {
	if beat <= 0 {
		return 0
	}
	return uint32(math.Round(beat * float64(m.ticksPerQuarter)))
}

func (m *MIDIExporter) gridTick(tick int) uint32 {
	return uint32(tick) * uint32(m.ticksPerQuarter) / stepmania.TicksPerBeat
}

// Export renders song.Charts[chartIndex]. Taps and held notes sound on
// key 60 + column, mines on the drum channel.
func (m *MIDIExporter) Export(song *stepmania.Song, chartIndex int) ([]byte, error) {
	if song == nil {
		return nil, errors.New("nil song")
	}
	if chartIndex < 0 || chartIndex >= len(song.Charts) {
		return nil, fmt.Errorf("chart %d out of range (%d charts)", chartIndex, len(song.Charts))
	}
	if len(song.BPMs) == 0 {
		return nil, &ConversionError{Field: "bpm", Err: ErrNoTempo}
	}

	var events []timedMessage
	for _, change := range song.BPMs {
		events = append(events, timedMessage{m.beatTick(change.Beat), prioTempo, tempoMessage(change.BPM)})
	}

	tapLength := uint32(m.ticksPerQuarter) / previewTapLength
	held := make(map[int]uint8)

	for _, note := range song.Charts[chartIndex].Notes {
		tick := m.gridTick(note.Tick)
		key := uint8(PreviewBaseKey + note.Column)

		switch note.Type {
		case stepmania.NoteTap, stepmania.NoteLift:
			events = append(events,
				timedMessage{tick, prioOn, midi.NoteOn(previewChannel, key, previewVelocity)},
				timedMessage{tick + tapLength, prioOff, midi.NoteOff(previewChannel, key)})
		case stepmania.NoteHoldHead, stepmania.NoteRollHead:
			events = append(events, timedMessage{tick, prioOn, midi.NoteOn(previewChannel, key, previewVelocity)})
			held[note.Column] = key
		case stepmania.NoteHoldRollTail:
			if k, ok := held[note.Column]; ok {
				events = append(events, timedMessage{tick, prioOff, midi.NoteOff(previewChannel, k)})
				delete(held, note.Column)
			}
		case stepmania.NoteMine:
			events = append(events,
				timedMessage{tick, prioOn, midi.NoteOn(previewDrumChan, PreviewMineKey, previewVelocity)},
				timedMessage{tick + tapLength, prioOff, midi.NoteOff(previewDrumChan, PreviewMineKey)})
		}
	}

	// Close holds that never got a tail
	var last uint32
	for _, ev := range events {
		if ev.tick > last {
			last = ev.tick
		}
	}
	for _, key := range held {
		events = append(events, timedMessage{last + tapLength, prioOff, midi.NoteOff(previewChannel, key)})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].prio < events[j].prio
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track
	// 4/4
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	var currentTick uint32
	for _, ev := range events {
		track.Add(ev.tick-currentTick, ev.msg)
		currentTick = ev.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile exports a chart preview to a file
func (m *MIDIExporter) WriteMIDIFile(song *stepmania.Song, chartIndex int, filename string) error {
	data, err := m.Export(song, chartIndex)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
