package fcparser

import (
	"regexp"
	"sort"
	"strings"
)

// Serial port function bits. Betaflight and INAV share most bits but
// diverge at 8192 and 16384.
var btflSerialFunctions = map[int]string{
	1:     "MSP",
	2:     "GPS",
	4:     "TELEMETRY_FRSKY",
	8:     "TELEMETRY_HOTT",
	16:    "TELEMETRY_MSP",
	32:    "TELEMETRY_SMARTPORT",
	64:    "SERIAL_RX",
	128:   "BLACKBOX",
	256:   "TELEMETRY_MAVLINK",
	512:   "ESC_SENSOR",
	1024:  "VTX_SMARTAUDIO",
	2048:  "TELEMETRY_IBUS",
	4096:  "VTX_TRAMP",
	8192:  "RCDEVICE",
	16384: "LIDAR_TF",
	32768: "FRSKY_OSD",
	65536: "VTX_MSP",
}

var inavSerialFunctions = map[int]string{
	1:     "MSP",
	2:     "GPS",
	4:     "TELEMETRY_FRSKY",
	8:     "TELEMETRY_HOTT",
	16:    "TELEMETRY_MSP",
	32:    "TELEMETRY_SMARTPORT",
	64:    "SERIAL_RX",
	128:   "BLACKBOX",
	256:   "TELEMETRY_MAVLINK",
	512:   "ESC_SENSOR",
	1024:  "VTX_SMARTAUDIO",
	2048:  "TELEMETRY_IBUS",
	4096:  "VTX_TRAMP",
	8192:  "TELEMETRY_LTM",
	16384: "MSP_DISPLAYPORT",
	65536: "VTX_MSP",
}

// DecodeFunctionMask expands a serial function bitmask into names,
// lowest bit first. A zero mask decodes to UNUSED.
func DecodeFunctionMask(mask int, firmware string) []string {
	lookup := btflSerialFunctions
	if firmware == "INAV" {
		lookup = inavSerialFunctions
	}

	bits := make([]int, 0, len(lookup))
	for bit := range lookup {
		bits = append(bits, bit)
	}
	sort.Ints(bits)

	var functions []string
	for _, bit := range bits {
		if mask&bit != 0 {
			functions = append(functions, lookup[bit])
		}
	}
	if len(functions) == 0 {
		return []string{"UNUSED"}
	}
	return functions
}

var (
	btflHeaderRe = regexp.MustCompile(`(?i)^#\s*(?:version\s*/\s*)?Betaflight\s*/\s*(\S+)\s+(?:\(\S+\)\s+)?(\d+\.\d+\.\d+)`)
	inavHeaderRe = regexp.MustCompile(`(?i)^#\s*(?:version\s*/\s*)?INAV\s*/\s*(\S+)\s+(?:\(\S+\)\s+)?(\d+\.\d+\.\d+)`)
	boardLineRe  = regexp.MustCompile(`^board_name\s+(\S+)`)
)

// DetectFirmware reads the version header comments out of a dump.
// Returns ("BTFL"|"INAV"|"UNKNOWN", version, board).
func DetectFirmware(text string) (firmware, version, board string) {
	firmware = "UNKNOWN"

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := btflHeaderRe.FindStringSubmatch(line); m != nil {
			firmware, board, version = "BTFL", m[1], m[2]
			continue
		}
		if m := inavHeaderRe.FindStringSubmatch(line); m != nil {
			firmware, board, version = "INAV", m[1], m[2]
			continue
		}
		if m := boardLineRe.FindStringSubmatch(line); m != nil && board == "" {
			board = m[1]
		}
	}
	return firmware, version, board
}
