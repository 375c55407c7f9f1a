package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"

	"github.com/james-see/sm2bs/pkg/beatsaber"
	"github.com/james-see/sm2bs/pkg/msd"
)

const sourceSM = `#TITLE:Source Test;
#ARTIST:Someone;
#MUSIC:audio/song.ogg;
#OFFSET:0;
#BPMS:0=120,8=60;
#NOTES:
     dance-single:
     :
     Challenge:
     10:
     0,0,0,0,0:
1000
0100
0010
0001
;
`

func TestReadSource(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("#TITLE:夜明け;")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		label   string
		want    string
		wantErr bool
	}{
		{"utf-8 default", "#TITLE:夜明け;", "", "#TITLE:夜明け;", false},
		{"utf-8 label", "#TITLE:x;", "UTF-8", "#TITLE:x;", false},
		{"shift_jis", sjis, "shift_jis", "#TITLE:夜明け;", false},
		{"unknown label", "#TITLE:x;", "klingon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSource(strings.NewReader(tt.input), tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	srcDir := t.TempDir()
	chart := filepath.Join(srcDir, "song.sm")
	if err := os.WriteFile(chart, []byte(sourceSM), 0644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "map")
	res, err := New(DefaultOptions()).ConvertFile(chart, outDir, FileOptions{})
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if res.BeatMap.SongName != "Source Test" {
		t.Errorf("SongName = %q, want Source Test", res.BeatMap.SongName)
	}

	for _, name := range []string{beatsaber.InfoFilename, beatsaber.BPMInfoFilename, "ExpertPlusStandard.dat"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	loaded, err := beatsaber.LoadFromDisk(outDir)
	if err != nil {
		t.Fatalf("LoadFromDisk() error = %v", err)
	}
	if got := len(loaded.Difficulties()[0].ColorNotes); got != 4 {
		t.Errorf("loaded ColorNotes = %d, want 4", got)
	}

	if _, err := New(DefaultOptions()).ConvertFile(filepath.Join(srcDir, "missing.sm"), outDir, FileOptions{}); err == nil {
		t.Error("ConvertFile() on a missing chart should fail")
	}
}

func TestConvertFileWithWAV(t *testing.T) {
	srcDir := t.TempDir()
	chart := filepath.Join(srcDir, "song.sm")
	text := strings.Replace(sourceSM, "#MUSIC:audio/song.ogg;", "#MUSIC:song.wav;", 1)
	if err := os.WriteFile(chart, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	writeWAV(t, filepath.Join(srcDir, "song.wav"), 44100, 2, 441000)

	outDir := filepath.Join(t.TempDir(), "map")
	res, err := New(DefaultOptions()).ConvertFile(chart, outDir, FileOptions{WAVLength: true, CopyAudio: true})
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}

	if res.Audio == nil || res.Audio.SampleCount != 441000 {
		t.Errorf("Audio = %+v, want 441000 samples", res.Audio)
	}
	if res.BeatMap.BPMInfo == nil || res.BeatMap.BPMInfo.SampleCount != 441000 {
		t.Errorf("BPMInfo = %+v, want song length from the WAV", res.BeatMap.BPMInfo)
	}
	if !res.AudioCopied {
		t.Error("AudioCopied = false, want true")
	}
	if _, err := os.Stat(filepath.Join(outDir, "song.wav")); err != nil {
		t.Errorf("song.wav not copied: %v", err)
	}
}

func TestConvertFileBadWAV(t *testing.T) {
	srcDir := t.TempDir()
	chart := filepath.Join(srcDir, "song.sm")
	text := strings.Replace(sourceSM, "#MUSIC:audio/song.ogg;", "#MUSIC:song.wav;", 1)
	if err := os.WriteFile(chart, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "song.wav"), []byte("not riff"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := New(DefaultOptions()).ConvertFile(chart, t.TempDir(), FileOptions{WAVLength: true})
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if res.Audio != nil {
		t.Errorf("Audio = %+v, want nil", res.Audio)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Stage != "audio" {
		t.Errorf("Warnings = %v, want one audio warning", res.Warnings)
	}
}

func TestCopyAudio(t *testing.T) {
	srcDir := t.TempDir()
	chart := filepath.Join(srcDir, "song.sm")
	if err := os.MkdirAll(filepath.Join(srcDir, "audio"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "audio", "song.ogg"), []byte("ogg"), 0644); err != nil {
		t.Fatal(err)
	}

	song, _, err := LoadSong(writeChart(t, chart), "", msd.DefaultOptions())
	if err != nil {
		t.Fatalf("LoadSong() error = %v", err)
	}

	outDir := t.TempDir()
	copied, err := CopyAudio(chart, song, outDir)
	if err != nil || !copied {
		t.Fatalf("CopyAudio() = %v, %v, want true, nil", copied, err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "audio", "song.ogg"))
	if err != nil || string(data) != "ogg" {
		t.Errorf("copied audio = %q, %v", data, err)
	}

	// already present
	if copied, err := CopyAudio(chart, song, outDir); err != nil || copied {
		t.Errorf("second CopyAudio() = %v, %v, want false, nil", copied, err)
	}

	song.Music = "nope.ogg"
	if copied, err := CopyAudio(chart, song, outDir); err != nil || copied {
		t.Errorf("CopyAudio() without source = %v, %v, want false, nil", copied, err)
	}
}

func writeChart(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(sourceSM), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
