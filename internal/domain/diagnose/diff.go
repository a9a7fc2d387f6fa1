package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// DiffConfigs compares two configuration snapshots and returns a
// human-readable change list covering master settings, features and
// serial port assignments. Identical snapshots yield an empty list.
func DiffConfigs(old, new *domain.FCConfig) []string {
	changes := []string{}

	keys := make(map[string]bool, len(old.MasterSettings)+len(new.MasterSettings))
	for k := range old.MasterSettings {
		keys[k] = true
	}
	for k := range new.MasterSettings {
		keys[k] = true
	}
	for _, key := range sortedKeys(keys) {
		oldVal, oldOK := old.MasterSettings[key]
		newVal, newOK := new.MasterSettings[key]
		switch {
		case !oldOK && newOK:
			changes = append(changes, fmt.Sprintf("%s added: %s", key, newVal))
		case oldOK && !newOK:
			changes = append(changes, fmt.Sprintf("%s removed (was %s)", key, oldVal))
		case oldVal != newVal:
			changes = append(changes, fmt.Sprintf("%s changed from %s to %s", key, oldVal, newVal))
		}
	}

	oldFeatures := enabledFeatures(old)
	newFeatures := enabledFeatures(new)
	for _, feat := range sortedKeys(newFeatures) {
		if !oldFeatures[feat] {
			changes = append(changes, fmt.Sprintf("Feature %s was enabled", feat))
		}
	}
	for _, feat := range sortedKeys(oldFeatures) {
		if !newFeatures[feat] {
			changes = append(changes, fmt.Sprintf("Feature %s was disabled", feat))
		}
	}

	oldPorts := portIndex(old.SerialPorts)
	newPorts := portIndex(new.SerialPorts)
	ids := make(map[int]bool, len(oldPorts)+len(newPorts))
	for id := range oldPorts {
		ids[id] = true
	}
	for id := range newPorts {
		ids[id] = true
	}
	sortedIDs := make([]int, 0, len(ids))
	for id := range ids {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Ints(sortedIDs)

	for _, id := range sortedIDs {
		oldPort, oldOK := oldPorts[id]
		newPort, newOK := newPorts[id]
		switch {
		case oldOK && newOK:
			oldFns := functionSet(oldPort.Functions)
			newFns := functionSet(newPort.Functions)
			if !equalSets(oldFns, newFns) {
				changes = append(changes, fmt.Sprintf("UART %d functions changed from %s to %s",
					id, strings.Join(sortedKeys(oldFns), ", "), strings.Join(sortedKeys(newFns), ", ")))
			}
		case newOK:
			changes = append(changes, fmt.Sprintf("UART %d added with functions: %s",
				id, strings.Join(newPort.Functions, ", ")))
		default:
			changes = append(changes, fmt.Sprintf("UART %d removed (had functions: %s)",
				id, strings.Join(oldPort.Functions, ", ")))
		}
	}

	return changes
}

func enabledFeatures(cfg *domain.FCConfig) map[string]bool {
	out := make(map[string]bool, len(cfg.Features))
	for feat, on := range cfg.Features {
		if on {
			out[feat] = true
		}
	}
	return out
}

func portIndex(ports []domain.SerialPortConfig) map[int]domain.SerialPortConfig {
	out := make(map[int]domain.SerialPortConfig, len(ports))
	for _, p := range ports {
		out[p.PortID] = p
	}
	return out
}

func functionSet(fns []string) map[string]bool {
	out := make(map[string]bool, len(fns))
	for _, f := range fns {
		out[f] = true
	}
	return out
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
