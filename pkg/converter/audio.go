package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("invalid wav file")

// AudioInfo describes the length of a music file
type AudioInfo struct {
	SampleRate  int
	SampleCount int // frames, i.e. samples per channel
}

// IsWAV reports whether path has a .wav extension
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// ProbeWAV reads the sample rate and frame count of a WAV file
func ProbeWAV(path string) (AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioInfo{}, fmt.Errorf("failed to open audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return AudioInfo{}, ErrInvalidWAV
	}
	if err := decoder.FwdToPCM(); err != nil {
		return AudioInfo{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	frameSize := int(decoder.NumChans) * int(decoder.BitDepth) / 8
	if frameSize == 0 || decoder.SampleRate == 0 {
		return AudioInfo{}, ErrInvalidWAV
	}

	return AudioInfo{
		SampleRate:  int(decoder.SampleRate),
		SampleCount: decoder.PCMSize / frameSize,
	}, nil
}

// OptionsForAudio returns conversion options matching a music file
func OptionsForAudio(info AudioInfo) Options {
	return Options{SampleRate: info.SampleRate, SampleCount: info.SampleCount}
}
