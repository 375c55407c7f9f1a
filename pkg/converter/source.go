package converter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/james-see/sm2bs/pkg/msd"
	"github.com/james-see/sm2bs/pkg/stepmania"
	"github.com/james-see/sm2bs/pkg/warn"
)

// ReadSource reads chart text, transcoding it to UTF-8 when charsetLabel
// names another encoding (e.g. "shift_jis"). An empty label means UTF-8.
func ReadSource(r io.Reader, charsetLabel string) (string, error) {
	if charsetLabel != "" && !strings.EqualFold(charsetLabel, "utf-8") && !strings.EqualFold(charsetLabel, "utf8") {
		enc, _ := charset.Lookup(charsetLabel)
		if enc == nil {
			return "", fmt.Errorf("unknown charset %q", charsetLabel)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read chart: %w", err)
	}
	return string(data), nil
}

// LoadSong reads and decodes a .sm file
func LoadSong(path, charsetLabel string, opts msd.Options) (*stepmania.Song, []warn.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chart: %w", err)
	}
	defer func() { _ = f.Close() }()

	text, err := ReadSource(f, charsetLabel)
	if err != nil {
		return nil, nil, err
	}

	records, err := msd.Tokenize(text, opts)
	if err != nil {
		return nil, nil, err
	}
	return stepmania.Decode(records, stepmania.DefaultDecodeOptions())
}

// FileOptions controls the file-level steps around a conversion
type FileOptions struct {
	Charset   string // source encoding label, empty for UTF-8
	WAVLength bool   // take sample rate and count from a WAV music file
	CopyAudio bool   // copy the music file into the map directory
}

// FileResult is a conversion written to disk
type FileResult struct {
	*Result
	Song        *stepmania.Song
	Audio       *AudioInfo // set when the length came from the music file
	AudioCopied bool
}

// ConvertFile converts the .sm file at inputPath and writes the map into outputDir
func (c *Converter) ConvertFile(inputPath, outputDir string, fo FileOptions) (*FileResult, error) {
	song, decodeWarnings, err := LoadSong(inputPath, fo.Charset, msd.DefaultOptions())
	if err != nil {
		return nil, err
	}
	warnings := warn.List(decodeWarnings)

	conv := c
	var audio *AudioInfo
	if music := MusicPath(inputPath, song); fo.WAVLength && IsWAV(music) {
		info, err := ProbeWAV(music)
		if err != nil {
			warnings.Addf("audio", "%s: %v; using default song length", filepath.Base(music), err)
		} else {
			audio = &info
			conv = New(OptionsForAudio(info))
		}
	}

	result, err := conv.Convert(song)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(warnings, result.Warnings...)

	if err := result.BeatMap.SaveToDisk(outputDir); err != nil {
		return nil, err
	}

	out := &FileResult{Result: result, Song: song, Audio: audio}
	if fo.CopyAudio {
		out.AudioCopied, err = CopyAudio(inputPath, song, outputDir)
		if err != nil {
			return nil, fmt.Errorf("map written but audio copy failed: %w", err)
		}
	}
	return out, nil
}

// MusicPath resolves the song's music file relative to its chart
func MusicPath(chartPath string, song *stepmania.Song) string {
	if song.Music == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(chartPath), song.Music)
}

// CopyAudio copies the song's music file next to the converted map.
// A missing source or an existing destination is not an error.
func CopyAudio(chartPath string, song *stepmania.Song, outputDir string) (bool, error) {
	src := MusicPath(chartPath, song)
	if src == "" {
		return false, nil
	}
	if st, err := os.Stat(src); err != nil || !st.Mode().IsRegular() {
		return false, nil
	}

	dst := filepath.Join(outputDir, song.Music)
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, fmt.Errorf("failed to create audio directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("failed to open audio: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return false, fmt.Errorf("failed to create audio copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, fmt.Errorf("failed to copy audio: %w", err)
	}
	return true, out.Close()
}
