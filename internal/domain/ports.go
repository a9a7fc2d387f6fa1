package domain

// CatalogRepository loads the component database and constraint rules.
type CatalogRepository interface {
	LoadComponents() (map[string][]*Component, error)
	LoadConstraints() ([]Constraint, error)
}

// FleetRepository stores fleet drone records as JSON files.
type FleetRepository interface {
	List() ([]*Build, error)
	Load(slug string) (*Build, error)
	Save(record map[string]any, slug string) (string, error)
	Remove(slug string) (bool, error)
}

// ConfigParser turns raw `diff all` text into a structured FCConfig.
type ConfigParser interface {
	Parse(text string) *FCConfig
}

// StoredConfig is the metadata for one saved configuration snapshot.
type StoredConfig struct {
	DroneSlug       string `json:"drone_slug"`
	Timestamp       string `json:"timestamp"`
	Firmware        string `json:"firmware"`
	FirmwareVersion string `json:"firmware_version"`
	BoardName       string `json:"board_name,omitempty"`
	CommitHash      string `json:"commit_hash,omitempty"`
	RawPath         string `json:"raw_path"`
	ParsedPath      string `json:"parsed_path"`
}

// ConfigStore persists configuration snapshots per drone.
type ConfigStore interface {
	Save(slug, rawText string, cfg *FCConfig) (StoredConfig, error)
	List(slug string) ([]StoredConfig, error)
	Load(slug, timestamp string) (string, *FCConfig, error)
	Delete(slug, timestamp string) (bool, error)
}

// HistoryEntry is one recorded diagnostic run.
type HistoryEntry struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	DroneSlug     string `json:"drone_slug"`
	CommitHash    string `json:"commit_hash,omitempty"`
	CriticalCount int    `json:"critical_count"`
	WarningCount  int    `json:"warning_count"`
	InfoCount     int    `json:"info_count"`
	SafeToFly     bool   `json:"safe_to_fly"`
}

// DiagnosticHistory records diagnose runs over time.
type DiagnosticHistory interface {
	Save(entry HistoryEntry) error
	Load(slug string) ([]HistoryEntry, error)
}

// GitInfo reports version-control provenance for the data directory.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
