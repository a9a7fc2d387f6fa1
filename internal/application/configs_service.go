package application

import (
	"fmt"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
)

// ConfigsService manages per-drone configuration snapshots.
type ConfigsService struct {
	fleet  domain.FleetRepository
	parser domain.ConfigParser
	store  domain.ConfigStore
}

func NewConfigsService(fleet domain.FleetRepository, parser domain.ConfigParser, store domain.ConfigStore) *ConfigsService {
	return &ConfigsService{fleet: fleet, parser: parser, store: store}
}

// SaveSnapshot parses and stores a `diff all` dump for a fleet drone.
func (s *ConfigsService) SaveSnapshot(slug, rawText string) (domain.StoredConfig, error) {
	if _, err := s.fleet.Load(slug); err != nil {
		return domain.StoredConfig{}, fmt.Errorf("loading drone %q: %w", slug, err)
	}
	cfg := s.parser.Parse(rawText)
	if cfg.Firmware != "BTFL" && cfg.Firmware != "INAV" {
		return domain.StoredConfig{}, fmt.Errorf("not a recognizable flight controller dump")
	}
	stored, err := s.store.Save(slug, rawText, cfg)
	if err != nil {
		return domain.StoredConfig{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return stored, nil
}

// List returns a drone's stored snapshots, newest first.
func (s *ConfigsService) List(slug string) ([]domain.StoredConfig, error) {
	return s.store.List(slug)
}

// Show loads one stored snapshot. An empty timestamp loads the latest.
func (s *ConfigsService) Show(slug, timestamp string) (string, *domain.FCConfig, error) {
	ts, err := s.resolveTimestamp(slug, timestamp)
	if err != nil {
		return "", nil, err
	}
	return s.store.Load(slug, ts)
}

// Diff compares two stored snapshots. Empty timestamps select the two
// most recent: old defaults to the second-newest, new to the newest.
func (s *ConfigsService) Diff(slug, oldTS, newTS string) ([]string, error) {
	if oldTS == "" || newTS == "" {
		stored, err := s.store.List(slug)
		if err != nil {
			return nil, err
		}
		if len(stored) < 2 {
			return nil, fmt.Errorf("need at least two snapshots for %q, have %d", slug, len(stored))
		}
		if newTS == "" {
			newTS = stored[0].Timestamp
		}
		if oldTS == "" {
			oldTS = stored[1].Timestamp
		}
	}

	_, oldCfg, err := s.store.Load(slug, oldTS)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", oldTS, err)
	}
	_, newCfg, err := s.store.Load(slug, newTS)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", newTS, err)
	}
	return diagnose.DiffConfigs(oldCfg, newCfg), nil
}

// Delete removes one stored snapshot. Returns false when none existed.
func (s *ConfigsService) Delete(slug, timestamp string) (bool, error) {
	return s.store.Delete(slug, timestamp)
}

func (s *ConfigsService) resolveTimestamp(slug, timestamp string) (string, error) {
	if timestamp != "" {
		return timestamp, nil
	}
	stored, err := s.store.List(slug)
	if err != nil {
		return "", err
	}
	if len(stored) == 0 {
		return "", fmt.Errorf("no stored configs for %q", slug)
	}
	return stored[0].Timestamp, nil
}
