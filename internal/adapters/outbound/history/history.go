// Package history records diagnose runs in a JSON file under the data
// directory, newest entry last.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

const historyFile = "history/diagnostics.json"

// FileHistory implements domain.DiagnosticHistory using JSON file storage.
type FileHistory struct {
	dataDir string
}

// New creates a FileHistory rooted at dataDir.
func New(dataDir string) *FileHistory {
	return &FileHistory{dataDir: dataDir}
}

// Save appends an entry, assigning an ID when the caller left it empty.
func (h *FileHistory) Save(entry domain.HistoryEntry) error {
	entries, err := h.load()
	if err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entries = append(entries, entry)

	fp := filepath.Join(h.dataDir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0o644)
}

// Load returns the recorded runs for one drone, oldest first. An empty
// slug returns every run.
func (h *FileHistory) Load(slug string) ([]domain.HistoryEntry, error) {
	entries, err := h.load()
	if err != nil {
		return nil, err
	}
	if slug == "" {
		return entries, nil
	}

	var filtered []domain.HistoryEntry
	for _, e := range entries {
		if e.DroneSlug == slug {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (h *FileHistory) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(filepath.Join(h.dataDir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
