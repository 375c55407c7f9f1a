package stepmania

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/james-see/sm2bs/pkg/msd"
)

const sampleSM = `// generated by hand
#TITLE:Test Song;
#SUBTITLE:(Extended);
#ARTIST:Someone;
#CREDIT:Charter;
#MUSIC:song.ogg;
#OFFSET:-0.125;
#SAMPLESTART:30.5;
#SAMPLELENGTH:12;
#BGCHANGES:;
#BPMS:0.000=120.000
,8.000=240.000;
#NOTES:
     dance-single:
     Blank:
     Hard:
     9:
     0.1,0.2,0.3,0.4,0.5:
0000
1000
0M00
0000
,  // measure 1
1000
0200
0300
0000
;
#NOTES:
     dance-double:
     :
     challenge:
     11:
     :
00000001
;
`

func TestParse(t *testing.T) {
	song, warnings, err := Parse(sampleSM)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if song.Title != "Test Song" || song.Subtitle != "(Extended)" || song.Artist != "Someone" || song.Credit != "Charter" {
		t.Errorf("metadata = %q/%q/%q/%q", song.Title, song.Subtitle, song.Artist, song.Credit)
	}
	if song.Music != "song.ogg" {
		t.Errorf("Music = %q, want %q", song.Music, "song.ogg")
	}
	if song.Offset != -0.125 || song.SampleStart != 30.5 || song.SampleLength != 12 {
		t.Errorf("timing = %v/%v/%v", song.Offset, song.SampleStart, song.SampleLength)
	}

	expectedBPMs := []BPMChange{{0, 120}, {8, 240}}
	if !reflect.DeepEqual(song.BPMs, expectedBPMs) {
		t.Errorf("BPMs = %v, want %v", song.BPMs, expectedBPMs)
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "BGCHANGES") {
		t.Errorf("warnings = %v, want one about BGCHANGES", warnings)
	}

	if len(song.Charts) != 2 {
		t.Fatalf("len(Charts) = %d, want 2", len(song.Charts))
	}

	chart := song.Charts[0]
	if chart.Type != ChartTypeDanceSingle || !chart.Type.Supported() {
		t.Errorf("Type = %q, want dance-single", chart.Type)
	}
	if chart.Description != "Blank" || chart.Difficulty != DifficultyHard || chart.Meter != 9 {
		t.Errorf("chart header = %q/%v/%d", chart.Description, chart.Difficulty, chart.Meter)
	}
	if chart.RadarValues != "0.1,0.2,0.3,0.4,0.5" {
		t.Errorf("RadarValues = %q", chart.RadarValues)
	}

	expectedNotes := []Note{
		{Tick: 48, Column: 0, Type: NoteTap},
		{Tick: 96, Column: 1, Type: NoteMine},
		{Tick: 192, Column: 0, Type: NoteTap},
		{Tick: 240, Column: 1, Type: NoteHoldHead},
		{Tick: 288, Column: 1, Type: NoteHoldRollTail},
	}
	if !reflect.DeepEqual(chart.Notes, expectedNotes) {
		t.Errorf("Notes = %v, want %v", chart.Notes, expectedNotes)
	}

	double := song.Charts[1]
	if double.Type != ChartTypeDanceDouble || double.Type.Supported() {
		t.Errorf("Type = %q, want unsupported dance-double", double.Type)
	}
	if double.Difficulty != DifficultyChallenge {
		t.Errorf("Difficulty = %v, want Challenge", double.Difficulty)
	}
	if len(double.Notes) != 1 || double.Notes[0].Column != 7 || double.Notes[0].Tick != 0 {
		t.Errorf("Notes = %v, want one note at tick 0 column 7", double.Notes)
	}
}

func TestDecodeGridTicks(t *testing.T) {
	records := []msd.Record{{"NOTES", "dance-single", "", "Easy", "1", "", "0000\n0000\n0100\n0000"}}
	song, _, err := Decode(records, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	notes := song.Charts[0].Notes
	if len(notes) != 1 {
		t.Fatalf("len(Notes) = %d, want 1", len(notes))
	}
	if notes[0].Tick != 96 || notes[0].Column != 1 {
		t.Errorf("note = %+v, want tick 96 column 1", notes[0])
	}
	if notes[0].Beat() != 2 {
		t.Errorf("Beat() = %v, want 2", notes[0].Beat())
	}
}

func TestDecodeGridOrdering(t *testing.T) {
	grid := "1111\n0000,\n0000\n0000\n0000\n0000\n1001\n0000\n0000\n0000\n0000\n0000\n0000\n0000"
	records := []msd.Record{{"NOTES", "dance-single", "", "Medium", "5", "", grid}}
	song, _, err := Decode(records, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	notes := song.Charts[0].Notes
	if len(notes) != 6 {
		t.Fatalf("len(Notes) = %d, want 6", len(notes))
	}
	for i := 1; i < len(notes); i++ {
		prev, cur := notes[i-1], notes[i]
		if cur.Tick < prev.Tick || (cur.Tick == prev.Tick && cur.Column <= prev.Column) {
			t.Errorf("notes %d and %d out of order: %+v, %+v", i-1, i, prev, cur)
		}
	}
	// 12 rows per measure: 16 ticks per row, row 4 of measure 1
	if notes[4].Tick != 192+4*16 {
		t.Errorf("notes[4].Tick = %d, want %d", notes[4].Tick, 192+4*16)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []msd.Record
		opts    DecodeOptions
		wantErr error
		wantTag string
	}{
		{"zero bpm", []msd.Record{{"BPMS", "0=0"}}, DecodeOptions{}, ErrNonPositiveBPM, "BPMS"},
		{"negative bpm", []msd.Record{{"BPMS", "0=120,4=-60"}}, DecodeOptions{}, ErrNonPositiveBPM, "BPMS"},
		{"negative beat", []msd.Record{{"BPMS", "-4=120,0=140"}}, DecodeOptions{}, ErrNegativeBeat, "BPMS"},
		{"bpm without equals", []msd.Record{{"BPMS", "0"}}, DecodeOptions{}, ErrMalformedNumber, "BPMS"},
		{"bpm garbage", []msd.Record{{"BPMS", "0=fast"}}, DecodeOptions{}, ErrMalformedNumber, "BPMS"},
		{"bad offset", []msd.Record{{"OFFSET", "abc"}}, DecodeOptions{}, ErrMalformedNumber, "OFFSET"},
		{"missing title value", []msd.Record{{"TITLE"}}, DecodeOptions{}, ErrMissingField, "TITLE"},
		{"short notes", []msd.Record{{"NOTES", "dance-single", "", "Hard"}}, DecodeOptions{}, ErrMissingField, "NOTES"},
		{"bad difficulty", []msd.Record{{"NOTES", "dance-single", "", "Insane", "1", "", "0000"}}, DecodeOptions{}, ErrUnknownDifficulty, "NOTES"},
		{"bad meter", []msd.Record{{"NOTES", "dance-single", "", "Hard", "x", "", "0000"}}, DecodeOptions{}, ErrMalformedNumber, "NOTES"},
		{"bad note", []msd.Record{{"NOTES", "dance-single", "", "Hard", "1", "", "00X0"}}, DecodeOptions{}, ErrUnknownNoteType, "NOTES"},
		{"bad row count", []msd.Record{{"NOTES", "dance-single", "", "Hard", "1", "", "0000\n0000\n0000\n0000\n0000"}}, DecodeOptions{}, ErrInvalidRowCount, "NOTES"},
		{"ssc version", []msd.Record{{"VERSION", "0.83"}}, DecodeOptions{}, ErrUnsupportedVersion, "VERSION"},
		{"other version", []msd.Record{{"VERSION", "0.81"}}, DecodeOptions{Version: "0.83"}, ErrUnsupportedVersion, "VERSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.records, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Decode() error = %T, want *DecodeError", err)
			}
			if decErr.Tag != tt.wantTag {
				t.Errorf("DecodeError.Tag = %q, want %q", decErr.Tag, tt.wantTag)
			}
		})
	}
}

func TestDecodeAcceptsMatchingVersion(t *testing.T) {
	records := []msd.Record{{"VERSION", " 0.83 "}, {"TITLE", "x"}}
	song, _, err := Decode(records, DecodeOptions{Version: "0.83"})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if song.Title != "x" {
		t.Errorf("Title = %q, want %q", song.Title, "x")
	}
}

func TestDecodeTagsCaseInsensitive(t *testing.T) {
	records := []msd.Record{{"title", "lower"}, {"Bpms", "0=150"}}
	song, warnings, err := Decode(records, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if song.Title != "lower" {
		t.Errorf("Title = %q, want %q", song.Title, "lower")
	}
	if len(song.BPMs) != 1 || song.BPMs[0].BPM != 150 {
		t.Errorf("BPMs = %v, want [{0 150}]", song.BPMs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestDecodeCRLFGrid(t *testing.T) {
	records := []msd.Record{{"NOTES", "dance-single", "", "Beginner", "1", "", "\r\n1000\r\n0000\r\n"}}
	song, _, err := Decode(records, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	notes := song.Charts[0].Notes
	if len(notes) != 1 || notes[0] != (Note{Tick: 0, Column: 0, Type: NoteTap}) {
		t.Errorf("Notes = %v, want one tap at tick 0", notes)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, _, err := Parse("#TITLE:unterminated")
	var synErr *msd.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse() error = %v, want *msd.SyntaxError", err)
	}
}

func TestParseDifficulty(t *testing.T) {
	for i, name := range []string{"Beginner", "easy", "MEDIUM", "Hard", "Challenge", "Edit"} {
		d, err := ParseDifficulty(name)
		if err != nil {
			t.Errorf("ParseDifficulty(%q) error = %v", name, err)
			continue
		}
		if d != Difficulty(i) {
			t.Errorf("ParseDifficulty(%q) = %v, want %v", name, d, Difficulty(i))
		}
	}
	if _, err := ParseDifficulty("Expert"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("ParseDifficulty(Expert) error = %v, want ErrUnknownDifficulty", err)
	}
}

func TestLookupTag(t *testing.T) {
	tests := []struct {
		name     string
		expected Tag
	}{
		{"NOTES", TagNotes},
		{"notes", TagNotes},
		{"SampleStart", TagSampleStart},
		{"BGCHANGES", TagUnknown},
		{"", TagUnknown},
	}
	for _, tt := range tests {
		if got := LookupTag(tt.name); got != tt.expected {
			t.Errorf("LookupTag(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}
