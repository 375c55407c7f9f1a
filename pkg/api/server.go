// Package api provides the REST API server for sm2bs
package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/sm2bs/pkg/beatsaber"
	"github.com/james-see/sm2bs/pkg/converter"
	"github.com/james-see/sm2bs/pkg/stepmania"
	"github.com/james-see/sm2bs/pkg/warn"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title sm2bs API
// @version 1.0
// @description API for converting StepMania charts into Beat Saber maps
// @host localhost:8080
// @BasePath /api/v1

// NewRouter builds the API routes without starting a listener
func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.POST("/inspect", handleInspect)
		v1.POST("/convert", handleConvert)
		v1.POST("/convert/midi", handleMIDIPreview)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sm2bs",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the input format, output documents and difficulty mapping
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	mapping := make(map[string]string)
	for d := stepmania.DifficultyBeginner; d <= stepmania.DifficultyEdit; d++ {
		bd, err := converter.MapDifficulty(d)
		if err != nil {
			mapping[d.String()] = ""
			continue
		}
		mapping[d.String()] = bd.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"input":  []string{"sm"},
		"output": []string{"beatsaber", "midi"},
		"documents": gin.H{
			beatsaber.InfoFilename:    beatsaber.InfoVersion,
			beatsaber.BPMInfoFilename: beatsaber.BPMInfoVersion,
			"difficulty":              beatsaber.DifficultyVersion,
		},
		"difficulties": mapping,
	})
}

type chartSummary struct {
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
	Meter      int    `json:"meter"`
	Notes      int    `json:"notes"`
}

type inspectResponse struct {
	Title    string                `json:"title"`
	Artist   string                `json:"artist"`
	Music    string                `json:"music"`
	BPMs     []stepmania.BPMChange `json:"bpms"`
	Charts   []chartSummary        `json:"charts"`
	Warnings []string              `json:"warnings"`
}

type convertResponse struct {
	Files    map[string]json.RawMessage `json:"files"`
	Warnings []string                   `json:"warnings"`
}

// handleInspect godoc
// @Summary Inspect a .sm chart
// @Description Upload a .sm file and receive its decoded metadata and charts
// @Tags inspect
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true ".sm file to inspect"
// @Param charset query string false "Source encoding (default: utf-8)"
// @Success 200 {object} inspectResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/inspect [post]
func handleInspect(c *gin.Context) {
	song, warnings, ok := readSong(c)
	if !ok {
		return
	}

	resp := inspectResponse{
		Title:    song.Title,
		Artist:   song.Artist,
		Music:    song.Music,
		BPMs:     song.BPMs,
		Warnings: warnStrings(warnings),
	}
	for _, chart := range song.Charts {
		resp.Charts = append(resp.Charts, chartSummary{
			Type:       string(chart.Type),
			Difficulty: chart.Difficulty.String(),
			Meter:      chart.Meter,
			Notes:      len(chart.Notes),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleConvert godoc
// @Summary Convert .sm to a Beat Saber map
// @Description Upload a .sm file and receive every map document keyed by file name
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true ".sm file to convert"
// @Param charset query string false "Source encoding (default: utf-8)"
// @Param sample_rate query int false "Audio sample rate (default: 44100)"
// @Param song_length query int false "Song length in seconds (default: pad after the last tempo change)"
// @Success 200 {object} convertResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	opts, err := optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, warnings, ok := readSong(c)
	if !ok {
		return
	}

	result, err := converter.New(opts).Convert(song)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	files, err := result.BeatMap.Files()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := convertResponse{
		Files:    make(map[string]json.RawMessage, len(files)),
		Warnings: warnStrings(append(warnings, result.Warnings...)),
	}
	for name, data := range files {
		resp.Files[name] = data
	}
	c.JSON(http.StatusOK, resp)
}

// handleMIDIPreview godoc
// @Summary Render a chart as MIDI
// @Description Upload a .sm file and receive a MIDI preview of one chart
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true ".sm file to render"
// @Param chart query int false "Chart index (default: 0)"
// @Param charset query string false "Source encoding (default: utf-8)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/midi [post]
func handleMIDIPreview(c *gin.Context) {
	index, err := strconv.Atoi(c.DefaultQuery("chart", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chart must be an integer"})
		return
	}

	song, _, ok := readSong(c)
	if !ok {
		return
	}

	data, err := converter.NewMIDIExporter().Export(song, index)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": c.GetString(uploadNameKey) + ".mid",
	}))
	c.Data(http.StatusOK, "audio/midi", data)
}

const uploadNameKey = "upload_name"

// readSong decodes the uploaded chart, writing an error response on failure
func readSong(c *gin.Context) (*stepmania.Song, []warn.Warning, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, nil, false
	}
	defer func() { _ = file.Close() }()

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	if name == "" || name == "." {
		name = "converted"
	}
	c.Set(uploadNameKey, name)

	text, err := converter.ReadSource(file, c.Query("charset"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	song, warnings, err := stepmania.Parse(text)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return song, warnings, true
}

func optionsFromQuery(c *gin.Context) (converter.Options, error) {
	opts := converter.DefaultOptions()

	if v := c.Query("sample_rate"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return opts, fmt.Errorf("invalid sample_rate %q", v)
		}
		opts.SampleRate = rate
	}
	if v := c.Query("song_length"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return opts, fmt.Errorf("invalid song_length %q", v)
		}
		opts.SampleCount = converter.SongLengthSamples(seconds, opts.SampleRate)
	}
	return opts, nil
}

func warnStrings(ws []warn.Warning) []string {
	return warn.List(ws).Strings()
}
