// Package configstore persists FC configuration snapshots as pairs of
// files per drone: the raw `diff all` text (pastable back into the CLI
// for restore) and the parsed JSON.
package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Store implements domain.ConfigStore on the filesystem. When the data
// directory is a git repository, saved snapshots record the current
// commit hash.
type Store struct {
	dataDir string
	git     domain.GitInfo
	now     func() time.Time
}

// New creates a Store rooted at dataDir. git may be nil.
func New(dataDir string, git domain.GitInfo) *Store {
	return &Store{dataDir: dataDir, git: git, now: time.Now}
}

func (s *Store) droneDir(slug string) string {
	return filepath.Join(s.dataDir, "configs", slug)
}

func (s *Store) commitHash() string {
	if s.git == nil || !s.git.IsGitRepo(s.dataDir) {
		return ""
	}
	hash, err := s.git.CommitHash(s.dataDir)
	if err != nil {
		return ""
	}
	return hash
}

// Save writes a snapshot pair and returns its metadata.
func (s *Store) Save(slug, rawText string, cfg *domain.FCConfig) (domain.StoredConfig, error) {
	dir := s.droneDir(slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StoredConfig{}, err
	}

	ts := s.now().UTC().Format("20060102T150405")
	rawPath := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", slug, ts))
	parsedPath := filepath.Join(dir, fmt.Sprintf("%s_%s.json", slug, ts))

	if err := os.WriteFile(rawPath, []byte(rawText), 0o644); err != nil {
		return domain.StoredConfig{}, fmt.Errorf("writing raw snapshot: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return domain.StoredConfig{}, err
	}
	if err := os.WriteFile(parsedPath, data, 0o644); err != nil {
		return domain.StoredConfig{}, fmt.Errorf("writing parsed snapshot: %w", err)
	}

	return domain.StoredConfig{
		DroneSlug:       slug,
		Timestamp:       ts,
		Firmware:        cfg.Firmware,
		FirmwareVersion: cfg.FirmwareVersion,
		BoardName:       cfg.BoardName,
		CommitHash:      s.commitHash(),
		RawPath:         rawPath,
		ParsedPath:      parsedPath,
	}, nil
}

// List returns every stored snapshot for a drone, newest first.
func (s *Store) List(slug string) ([]domain.StoredConfig, error) {
	dir := s.droneDir(slug)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := slug + "_"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var configs []domain.StoredConfig
	for _, name := range names {
		parsedPath := filepath.Join(dir, name)
		data, err := os.ReadFile(parsedPath)
		if err != nil {
			continue
		}
		var cfg domain.FCConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			continue
		}

		ts := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		configs = append(configs, domain.StoredConfig{
			DroneSlug:       slug,
			Timestamp:       ts,
			Firmware:        cfg.Firmware,
			FirmwareVersion: cfg.FirmwareVersion,
			BoardName:       cfg.BoardName,
			RawPath:         strings.TrimSuffix(parsedPath, ".json") + ".txt",
			ParsedPath:      parsedPath,
		})
	}
	return configs, nil
}

// Load reads one snapshot by timestamp. The raw text is restored onto
// the returned config.
func (s *Store) Load(slug, timestamp string) (string, *domain.FCConfig, error) {
	dir := s.droneDir(slug)
	base := fmt.Sprintf("%s_%s", slug, timestamp)

	data, err := os.ReadFile(filepath.Join(dir, base+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("no snapshot %s for %q", timestamp, slug)
		}
		return "", nil, err
	}

	var cfg domain.FCConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", nil, fmt.Errorf("parsing snapshot %s: %w", timestamp, err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, base+".txt"))
	if err != nil && !os.IsNotExist(err) {
		return "", nil, err
	}
	cfg.RawText = string(raw)

	return string(raw), &cfg, nil
}

// Delete removes a snapshot pair. Returns false when neither file existed.
func (s *Store) Delete(slug, timestamp string) (bool, error) {
	dir := s.droneDir(slug)
	base := fmt.Sprintf("%s_%s", slug, timestamp)

	deleted := false
	for _, ext := range []string{".txt", ".json"} {
		err := os.Remove(filepath.Join(dir, base+ext))
		if err == nil {
			deleted = true
		} else if !os.IsNotExist(err) {
			return deleted, err
		}
	}
	return deleted, nil
}
