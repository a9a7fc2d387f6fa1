// Package catalog loads the component database and constraint rules
// from the data directory. Components live in components/*.json, one
// file per component type; constraints live in constraints/*.yaml.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Filenames map to component types; files absent from the data dir are
// simply skipped.
var fileToType = map[string]string{
	"motors.json":             "motor",
	"escs.json":               "esc",
	"flight_controllers.json": "fc",
	"frames.json":             "frame",
	"propellers.json":         "propeller",
	"batteries.json":          "battery",
	"vtx.json":                "vtx",
	"receivers.json":          "receiver",
	"servos.json":             "servo",
	"airframes.json":          "airframe",
	"gps_modules.json":        "gps",
}

// Repository implements domain.CatalogRepository over a data directory.
type Repository struct {
	dataDir string
}

// New creates a Repository rooted at dataDir.
func New(dataDir string) *Repository {
	return &Repository{dataDir: dataDir}
}

type rawComponent struct {
	ID           string         `json:"id"`
	Manufacturer string         `json:"manufacturer"`
	Model        string         `json:"model"`
	WeightG      float64        `json:"weight_g"`
	PriceUSD     float64        `json:"price_usd"`
	Category     string         `json:"category"`
	Specs        map[string]any `json:"specs"`
}

// LoadComponents reads every component file and returns components
// grouped by type, with specs normalized.
func (r *Repository) LoadComponents() (map[string][]*domain.Component, error) {
	result := make(map[string][]*domain.Component)
	dir := filepath.Join(r.dataDir, "components")

	for filename, ctype := range fileToType {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}

		var rawList []rawComponent
		if err := json.Unmarshal(data, &rawList); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}

		for _, raw := range rawList {
			result[ctype] = append(result[ctype], Flatten(raw.asMap(), ctype))
		}
	}
	return result, nil
}

// ComponentsByID loads all components indexed by id.
func (r *Repository) ComponentsByID() (map[string]*domain.Component, error) {
	all, err := r.LoadComponents()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Component)
	for _, list := range all {
		for _, c := range list {
			byID[c.ID] = c
		}
	}
	return byID, nil
}

func (rc rawComponent) asMap() map[string]any {
	return map[string]any{
		"id":           rc.ID,
		"manufacturer": rc.Manufacturer,
		"model":        rc.Model,
		"weight_g":     rc.WeightG,
		"price_usd":    rc.PriceUSD,
		"category":     rc.Category,
		"specs":        rc.Specs,
	}
}

// Flatten builds a Component from a raw record, normalizing the spec
// fields the rules compare against. Exported because the fleet store
// flattens inline custom components the same way.
func Flatten(raw map[string]any, componentType string) *domain.Component {
	specs := map[string]any{}
	if s, ok := raw["specs"].(map[string]any); ok {
		for k, v := range s {
			specs[k] = v
		}
	}

	// "3S-6S" or "1S" strings become numeric min/max cell counts.
	for _, key := range []string{"voltage_range", "voltage_input"} {
		if s, ok := specs[key].(string); ok {
			if lo, hi, ok := parseVoltageRange(s); ok {
				specs["voltage_min_s"] = lo
				specs["voltage_max_s"] = hi
			}
		}
	}

	// Numeric mounting patterns like 16 become "16x16".
	for _, key := range []string{"mounting_pattern_mm", "fc_mounting_pattern_mm", "secondary_mounting_mm"} {
		if v, ok := specs[key]; ok {
			specs[key] = normalizeMountingPattern(v)
		}
	}

	// BEC ratings like "2.5A" become milliamp integers.
	for _, key := range []string{"bec_5v", "bec_9v"} {
		if s, ok := specs[key].(string); ok {
			if ma, ok := parseBECAmps(s); ok {
				specs[key+"_current_ma"] = ma
			}
		}
	}

	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	num := func(key string) float64 {
		f, _ := domain.AsFloat(raw[key])
		return f
	}

	return &domain.Component{
		ID:           str("id"),
		Type:         componentType,
		Manufacturer: str("manufacturer"),
		Model:        str("model"),
		WeightG:      num("weight_g"),
		PriceUSD:     num("price_usd"),
		Category:     str("category"),
		Specs:        specs,
	}
}

var voltageRangeRe = regexp.MustCompile(`^(\d+)S(?:\s*-\s*(\d+)S)?`)

func parseVoltageRange(value string) (lo, hi float64, ok bool) {
	m := voltageRangeRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(value)))
	if m == nil {
		return 0, 0, false
	}
	lo, _ = strconv.ParseFloat(m[1], 64)
	hi = lo
	if m[2] != "" {
		hi, _ = strconv.ParseFloat(m[2], 64)
	}
	return lo, hi, true
}

func normalizeMountingPattern(v any) string {
	if f, ok := domain.AsFloat(v); ok {
		n := int(f)
		return fmt.Sprintf("%dx%d", n, n)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

var becAmpsRe = regexp.MustCompile(`(?i)^([\d.]+)\s*A`)

func parseBECAmps(value string) (int, bool) {
	m := becAmpsRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, false
	}
	amps, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return int(amps * 1000), true
}
