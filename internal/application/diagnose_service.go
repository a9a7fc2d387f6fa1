package application

import (
	"fmt"
	"time"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

// ReportCache memoizes diagnostic reports keyed by an input fingerprint.
type ReportCache interface {
	Key(configText, buildSource string, symptoms []string) string
	Get(key string) (*diagnose.Report, bool)
	Put(key string, report *diagnose.Report)
}

// DiagnoseService orchestrates the diagnostic pipeline:
// load drone -> parse config -> run engine -> record history.
type DiagnoseService struct {
	fleet   domain.FleetRepository
	parser  domain.ConfigParser
	configs domain.ConfigStore
	history domain.DiagnosticHistory
	engine  *diagnose.Engine
	cache   ReportCache
	git     domain.GitInfo
	dataDir string
	now     func() time.Time
}

func NewDiagnoseService(
	fleet domain.FleetRepository,
	parser domain.ConfigParser,
	configs domain.ConfigStore,
	history domain.DiagnosticHistory,
	engine *diagnose.Engine,
	cache ReportCache,
	git domain.GitInfo,
	dataDir string,
) *DiagnoseService {
	return &DiagnoseService{
		fleet:   fleet,
		parser:  parser,
		configs: configs,
		history: history,
		engine:  engine,
		cache:   cache,
		git:     git,
		dataDir: dataDir,
		now:     time.Now,
	}
}

// Diagnose runs the full pipeline for one fleet drone. When compareLast
// is set the latest stored snapshot is diffed against the new config;
// cached reports are bypassed in that case because the diff depends on
// store state.
func (s *DiagnoseService) Diagnose(slug, configText string, symptomKeys []string, compareLast bool) (*diagnose.Report, error) {
	b, err := s.fleet.Load(slug)
	if err != nil {
		return nil, fmt.Errorf("loading drone %q: %w", slug, err)
	}

	if err := validateSymptoms(symptomKeys); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil && !compareLast {
		key = s.cache.Key(configText, b.SourceFile, symptomKeys)
		if report, ok := s.cache.Get(key); ok {
			return report, nil
		}
	}

	cfg := s.parser.Parse(configText)

	var previous *domain.FCConfig
	if compareLast {
		previous = s.latestSnapshot(slug)
	}

	report := s.engine.RunDiagnostics(cfg, b, symptomKeys, previous)

	if err := s.recordRun(slug, report); err != nil {
		return nil, fmt.Errorf("recording history: %w", err)
	}
	if key != "" {
		s.cache.Put(key, report)
	}
	return report, nil
}

// QuickCheck runs the reduced safe-to-fly battery. configText may be
// empty, in which case only the electrical compatibility subset runs.
func (s *DiagnoseService) QuickCheck(slug, configText string) (*diagnose.Report, error) {
	b, err := s.fleet.Load(slug)
	if err != nil {
		return nil, fmt.Errorf("loading drone %q: %w", slug, err)
	}

	var cfg *domain.FCConfig
	if configText != "" {
		cfg = s.parser.Parse(configText)
	}
	return s.engine.RunQuickHealthCheck(b, cfg), nil
}

// History returns recorded diagnose runs, newest first. An empty slug
// returns every drone's runs.
func (s *DiagnoseService) History(slug string) ([]domain.HistoryEntry, error) {
	entries, err := s.history.Load(slug)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	// Stored oldest-first; render newest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// MatchSymptoms maps a free-text complaint onto the symptom catalog.
func (s *DiagnoseService) MatchSymptoms(text string) []symptoms.Match {
	return symptoms.MatchSymptom(text)
}

func (s *DiagnoseService) latestSnapshot(slug string) *domain.FCConfig {
	stored, err := s.configs.List(slug)
	if err != nil || len(stored) == 0 {
		return nil
	}
	_, cfg, err := s.configs.Load(slug, stored[0].Timestamp)
	if err != nil {
		return nil
	}
	return cfg
}

func (s *DiagnoseService) recordRun(slug string, report *diagnose.Report) error {
	entry := domain.HistoryEntry{
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		DroneSlug:     slug,
		CriticalCount: countSeverity(report, domain.SeverityCritical),
		WarningCount:  countSeverity(report, domain.SeverityWarning),
		InfoCount:     countSeverity(report, domain.SeverityInfo),
		SafeToFly:     report.SafeToFly(),
	}
	if s.git != nil && s.git.IsGitRepo(s.dataDir) {
		if hash, err := s.git.CommitHash(s.dataDir); err == nil {
			entry.CommitHash = hash
		}
	}
	return s.history.Save(entry)
}

func countSeverity(report *diagnose.Report, sev domain.Severity) int {
	n := 0
	for _, f := range report.AllFindingsPrioritized() {
		if f.CheckSeverity() == sev {
			n++
		}
	}
	return n
}

func validateSymptoms(keys []string) error {
	for _, key := range keys {
		if _, ok := symptoms.Lookup(key); !ok {
			return fmt.Errorf("unknown symptom %q (see `dronedoctor symptoms`)", key)
		}
	}
	return nil
}
