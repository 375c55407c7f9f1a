// Package converter converts StepMania songs into Beat Saber maps
package converter

import (
	"fmt"

	"github.com/james-see/sm2bs/pkg/beatsaber"
	"github.com/james-see/sm2bs/pkg/warn"
)

// DefaultSongLength is the song length in seconds assumed when the music file gives no length
const DefaultSongLength = 600

// Options holds the audio parameters of a conversion
type Options struct {
	SampleRate  int
	SampleCount int // beatsaber.UnknownSampleCount pads past the last tempo change
}

// DefaultOptions returns 44.1 kHz with an unknown song length
func DefaultOptions() Options {
	return Options{
		SampleRate:  beatsaber.DefaultSampleRate,
		SampleCount: beatsaber.UnknownSampleCount,
	}
}

// SongLengthSamples converts a song length in seconds to a sample count
func SongLengthSamples(seconds, sampleRate int) int {
	return seconds * sampleRate
}

// Result holds a converted map and the warnings raised on the way
type Result struct {
	BeatMap  *beatsaber.BeatMap
	Warnings []warn.Warning
}

// ConversionError reports why a song could not be converted
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("conversion failed: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("conversion failed: %s %s: %v", e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Converter converts songs using fixed audio options
type Converter struct {
	opts Options
}

// New creates a new Converter with the specified options
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Options returns the current conversion options
func (c *Converter) Options() Options {
	return c.opts
}

// SetOptions replaces the conversion options
func (c *Converter) SetOptions(opts Options) {
	c.opts = opts
}
