package beatsaber

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known file names inside a map directory
const (
	InfoFilename    = "Info.dat"
	BPMInfoFilename = "BPMInfo.dat"
)

// Files renders every document of the map keyed by file name
func (m *BeatMap) Files() (map[string][]byte, error) {
	files := make(map[string][]byte)

	info, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", InfoFilename, err)
	}
	files[InfoFilename] = info

	if m.BPMInfo != nil {
		data, err := json.Marshal(m.BPMInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", BPMInfoFilename, err)
		}
		files[BPMInfoFilename] = data
	}

	for _, dm := range m.Difficulties() {
		data, err := json.Marshal(dm)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", dm.Filename, err)
		}
		files[dm.Filename] = data
	}

	return files, nil
}

// SaveToDisk writes the map into dir, creating it if needed
func (m *BeatMap) SaveToDisk(dir string) error {
	files, err := m.Files()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create map directory: %w", err)
	}

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// LoadFromDisk reads a map directory (or its Info.dat path)
func LoadFromDisk(path string) (*BeatMap, error) {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, InfoFilename)
	}
	dir := filepath.Dir(path)

	m := &BeatMap{}
	if err := readJSON(path, m); err != nil {
		return nil, err
	}

	for _, dm := range m.Difficulties() {
		if err := readJSON(filepath.Join(dir, dm.Filename), dm); err != nil {
			return nil, err
		}
	}

	info := &BPMInfo{}
	err := readJSON(filepath.Join(dir, BPMInfoFilename), info)
	switch {
	case err == nil:
		m.BPMInfo = info
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return m, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
