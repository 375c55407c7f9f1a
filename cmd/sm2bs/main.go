// Package main is the entry point for sm2bs CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/sm2bs/pkg/api"
	"github.com/james-see/sm2bs/pkg/beatsaber"
	"github.com/james-see/sm2bs/pkg/converter"
	"github.com/james-see/sm2bs/pkg/msd"
	"github.com/james-see/sm2bs/pkg/tui"
	"github.com/james-see/sm2bs/pkg/warn"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputPath   string
	charsetLabel string
	sampleRate   int
	songLength   int
	copyAudio    bool
	chartIndex   int
	showRecords  bool
	keepComments bool
	serverPort   int
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sm2bs",
	Short: "Convert StepMania charts into Beat Saber maps",
	Long: `sm2bs converts StepMania .sm simfiles into Beat Saber map folders
(Info.dat, one difficulty file per chart and BPMInfo.dat for songs with
tempo changes).

Examples:
  sm2bs convert song.sm -o ./song_map
  sm2bs convert song.sm --song-length 183 --sample-rate 48000
  sm2bs inspect song.sm --records
  sm2bs midi song.sm --chart 2 -o preview.mid
  sm2bs tui
  sm2bs serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.sm>",
	Short: "Convert a .sm chart into a Beat Saber map folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.sm>",
	Short: "Print the metadata and charts of a .sm file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var midiCmd = &cobra.Command{
	Use:   "midi <input.sm>",
	Short: "Render one chart as a MIDI preview",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&charsetLabel, "charset", "", "Source encoding of the chart, e.g. shift_jis (default utf-8)")

	// convert command
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output map directory (default <input>_beatsaber)")
	convertCmd.Flags().IntVar(&sampleRate, "sample-rate", beatsaber.DefaultSampleRate, "Audio sample rate in Hz")
	convertCmd.Flags().IntVar(&songLength, "song-length", 0, "Song length in seconds (default: read from WAV music, else pad 5s after the last tempo change)")
	convertCmd.Flags().BoolVar(&copyAudio, "copy-audio", true, "Copy the music file into the map directory")

	// inspect command
	inspectCmd.Flags().BoolVar(&showRecords, "records", false, "Dump the raw #TAG records")
	inspectCmd.Flags().BoolVar(&keepComments, "keep-comments", false, "Keep // comments inside record values")

	// midi command
	midiCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .mid file path")
	midiCmd.Flags().IntVarP(&chartIndex, "chart", "c", 0, "Index of the chart to render")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, suffix string) string {
	if outputPath != "" {
		return outputPath
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// conversionOptions resolves the song length: an explicit flag wins over the WAV music file
func conversionOptions() (converter.Options, converter.FileOptions) {
	opts := converter.DefaultOptions()
	opts.SampleRate = sampleRate
	fo := converter.FileOptions{Charset: charsetLabel, CopyAudio: copyAudio}

	if songLength > 0 {
		opts.SampleCount = converter.SongLengthSamples(songLength, sampleRate)
	} else {
		fo.WAVLength = true
	}
	return opts, fo
}

func printWarnings(ws []warn.Warning) {
	for _, w := range ws {
		fmt.Fprintln(os.Stderr, warnStyle.Render("warning: "+w.String()))
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, "_beatsaber")

	opts, fo := conversionOptions()
	result, err := converter.New(opts).ConvertFile(input, output, fo)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	if result.Audio != nil {
		fmt.Printf("Read %s: %d samples at %d Hz\n", result.Song.Music, result.Audio.SampleCount, result.Audio.SampleRate)
	}
	if result.AudioCopied {
		fmt.Printf("Copied %s\n", result.Song.Music)
	}

	fmt.Printf("Converted %s -> %s (%d difficulties)\n", input, output, len(result.BeatMap.Difficulties()))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]
	opts := msd.DefaultOptions()
	opts.PreserveCommentsInValues = keepComments

	if showRecords {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		text, err := converter.ReadSource(f, charsetLabel)
		if err != nil {
			return err
		}
		records, err := msd.Tokenize(text, opts)
		if err != nil {
			return err
		}
		for _, rec := range records {
			fmt.Println(rec.String())
		}
		return nil
	}

	song, warnings, err := converter.LoadSong(input, charsetLabel, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	fmt.Printf("Title:  %s\n", song.Title)
	if song.Subtitle != "" {
		fmt.Printf("        %s\n", song.Subtitle)
	}
	fmt.Printf("Artist: %s\n", song.Artist)
	fmt.Printf("Music:  %s\n", song.Music)
	fmt.Printf("Offset: %v\n", song.Offset)
	for _, change := range song.BPMs {
		fmt.Printf("BPM:    %v at beat %v\n", change.BPM, change.Beat)
	}
	for i, chart := range song.Charts {
		target := "-"
		if bd, err := converter.MapDifficulty(chart.Difficulty); err == nil {
			target = bd.String()
		}
		fmt.Printf("[%d] %s %s (%d) -> %s, %d notes\n",
			i, chart.Type, chart.Difficulty, chart.Meter, target, len(chart.Notes))
	}
	return nil
}

func runMIDI(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	song, warnings, err := converter.LoadSong(input, charsetLabel, msd.DefaultOptions())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if err := converter.NewMIDIExporter().WriteMIDIFile(song, chartIndex, output); err != nil {
		return err
	}

	fmt.Printf("Rendered chart %d of %s -> %s\n", chartIndex, input, output)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(converter.DefaultOptions())
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
