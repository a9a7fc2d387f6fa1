// Package fleet stores owned drones as JSON records in the fleet/
// directory of the data dir. Component values are database IDs or
// inline custom components marked with "_custom": true.
package fleet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/catalog"
	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Keys that are record metadata rather than component references.
var metadataKeys = map[string]bool{
	"name":             true,
	"drone_class":      true,
	"status":           true,
	"nickname":         true,
	"notes":            true,
	"acquired_date":    true,
	"tags":             true,
	"component_status": true,
}

// Store implements domain.FleetRepository over a data directory,
// resolving component IDs against the catalog.
type Store struct {
	dataDir string
	catalog *catalog.Repository
}

// New creates a Store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir, catalog: catalog.New(dataDir)}
}

func (s *Store) fleetDir() string {
	return filepath.Join(s.dataDir, "fleet")
}

// List loads every fleet drone, skipping malformed files.
func (s *Store) List() ([]*domain.Build, error) {
	entries, err := os.ReadDir(s.fleetDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading fleet dir: %w", err)
	}

	byID, err := s.catalog.ComponentsByID()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var drones []*domain.Build
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.fleetDir(), name))
		if err != nil {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		drones = append(drones, buildFromRecord(record, byID, name))
	}
	return drones, nil
}

// Load reads one fleet drone by slug.
func (s *Store) Load(slug string) (*domain.Build, error) {
	path := filepath.Join(s.fleetDir(), slug+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no fleet drone %q", slug)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	byID, err := s.catalog.ComponentsByID()
	if err != nil {
		return nil, err
	}
	return buildFromRecord(record, byID, slug+".json"), nil
}

// Save writes a fleet drone record as pretty JSON. An empty slug is
// derived from the record's name. Returns the slug the record was
// stored under.
func (s *Store) Save(record map[string]any, slug string) (string, error) {
	if slug == "" {
		name, _ := record["name"].(string)
		slug = Slugify(name)
	}
	if err := os.MkdirAll(s.fleetDir(), 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(s.fleetDir(), slug+".json"), data, 0o644); err != nil {
		return "", err
	}
	return slug, nil
}

// Remove deletes a fleet drone record. Returns false when none existed.
func (s *Store) Remove(slug string) (bool, error) {
	path := filepath.Join(s.fleetDir(), slug+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// buildFromRecord resolves a fleet record into a Build. A single motor
// reference is replicated to the class motor count.
func buildFromRecord(record map[string]any, byID map[string]*domain.Component, sourceFile string) *domain.Build {
	str := func(key string) string {
		s, _ := record[key].(string)
		return s
	}

	droneClass := str("drone_class")
	if droneClass == "" {
		droneClass = "unknown"
	}

	components := map[string][]*domain.Component{}
	for key, value := range record {
		if metadataKeys[key] {
			continue
		}
		switch key {
		case "motor":
			motors := resolveList(value, byID)
			if len(motors) == 1 {
				replicated := make([]*domain.Component, domain.MotorCountFor(droneClass))
				for i := range replicated {
					replicated[i] = motors[0]
				}
				motors = replicated
			}
			if len(motors) > 0 {
				components["motor"] = motors
			}
		case "servo":
			if servos := resolveList(value, byID); len(servos) > 0 {
				components["servo"] = servos
			}
		default:
			if c := resolveComponent(value, byID); c != nil {
				components[key] = []*domain.Component{c}
			}
		}
	}

	name := str("name")
	if name == "" {
		name = "Unnamed Drone"
	}
	status := str("status")
	if status == "" {
		status = "active"
	}

	var tags []string
	if rawTags, ok := record["tags"].([]any); ok {
		for _, t := range rawTags {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	componentStatus := map[string]string{}
	if rawCS, ok := record["component_status"].(map[string]any); ok {
		for k, v := range rawCS {
			if s, ok := v.(string); ok {
				componentStatus[k] = s
			}
		}
	}

	return &domain.Build{
		Name:            name,
		Nickname:        str("nickname"),
		DroneClass:      droneClass,
		Components:      components,
		Status:          status,
		Notes:           str("notes"),
		Tags:            tags,
		AcquiredDate:    str("acquired_date"),
		ComponentStatus: componentStatus,
		SourceFile:      sourceFile,
	}
}

// resolveComponent handles both ID-string references and inline custom
// component objects.
func resolveComponent(value any, byID map[string]*domain.Component) *domain.Component {
	switch v := value.(type) {
	case string:
		return byID[v]
	case map[string]any:
		custom, _ := v["_custom"].(bool)
		if !custom {
			return nil
		}
		ctype, _ := v["component_type"].(string)
		if ctype == "" {
			ctype = "unknown"
		}
		return catalog.Flatten(v, ctype)
	}
	return nil
}

func resolveList(value any, byID map[string]*domain.Component) []*domain.Component {
	items, ok := value.([]any)
	if !ok {
		if c := resolveComponent(value, byID); c != nil {
			return []*domain.Component{c}
		}
		return nil
	}
	var resolved []*domain.Component
	for _, item := range items {
		if c := resolveComponent(item, byID); c != nil {
			resolved = append(resolved, c)
		}
	}
	return resolved
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Slugify derives a filesystem slug from a drone name: camel-case words
// split apart, lowercased, joined with underscores.
func Slugify(name string) string {
	var words []string
	for _, field := range strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/'
	}) {
		words = append(words, camelcase.Split(field)...)
	}
	slug := strings.ToLower(strings.Join(words, "_"))
	slug = slugCleanRe.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "drone"
	}
	return slug
}
