// Package fcparser turns Betaflight/INAV `diff all` dump text into a
// structured FCConfig. Parsing is lenient: unknown lines are ignored
// and malformed input yields a partial config, never an error.
package fcparser

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Parser implements domain.ConfigParser.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

var (
	boardNameRe = regexp.MustCompile(`^#?\s*board_name\s+(\S+)`)
	profileRe   = regexp.MustCompile(`^profile\s+(\d+)$`)
	rateRe      = regexp.MustCompile(`^rateprofile\s+(\d+)$`)
	featureRe   = regexp.MustCompile(`^feature\s+(-?)(\S+)`)
	serialRe    = regexp.MustCompile(`^serial\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	resourceRe  = regexp.MustCompile(`^resource\s+(\S+)\s+(\S+)\s+(\S+)`)
	auxRe       = regexp.MustCompile(`^aux\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	setRe       = regexp.MustCompile(`^set\s+(\S+)\s*=\s*(.*)`)
)

// Parse reads `diff all` output into an FCConfig.
func (p *Parser) Parse(text string) *domain.FCConfig {
	firmware, version, board := DetectFirmware(text)

	cfg := &domain.FCConfig{
		Firmware:         firmware,
		FirmwareVersion:  version,
		BoardName:        board,
		MasterSettings:   map[string]string{},
		Features:         map[string]bool{},
		ResourceMappings: map[string]string{},
		RawText:          text,
		ParsedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	section := "master"
	profileIdx, rateIdx := 0, 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			if m := boardNameRe.FindStringSubmatch(line); m != nil && cfg.BoardName == "" {
				cfg.BoardName = m[1]
			}
			continue
		}

		if m := profileRe.FindStringSubmatch(line); m != nil {
			section = "profile"
			profileIdx = atoi(m[1])
			for len(cfg.PIDProfiles) <= profileIdx {
				cfg.PIDProfiles = append(cfg.PIDProfiles, domain.ParsedProfile{
					Index: len(cfg.PIDProfiles), Settings: map[string]string{},
				})
			}
			continue
		}

		if m := rateRe.FindStringSubmatch(line); m != nil {
			section = "rateprofile"
			rateIdx = atoi(m[1])
			for len(cfg.RateProfiles) <= rateIdx {
				cfg.RateProfiles = append(cfg.RateProfiles, domain.ParsedProfile{
					Index: len(cfg.RateProfiles), Settings: map[string]string{},
				})
			}
			continue
		}

		if m := featureRe.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[2])
			if m[1] == "-" {
				delete(cfg.Features, name)
			} else {
				cfg.Features[name] = true
			}
			continue
		}

		if m := serialRe.FindStringSubmatch(line); m != nil {
			cfg.SerialPorts = append(cfg.SerialPorts, parseSerialPort(m, firmware))
			continue
		}

		if m := resourceRe.FindStringSubmatch(line); m != nil {
			cfg.ResourceMappings[m[1]+" "+m[2]] = m[3]
			continue
		}

		if m := auxRe.FindStringSubmatch(line); m != nil {
			cfg.AuxModes = append(cfg.AuxModes, domain.AuxMode{
				Index: atoi(m[1]), ModeID: atoi(m[2]), Channel: atoi(m[3]),
				RangeLow: atoi(m[4]), RangeHigh: atoi(m[5]),
				Logic: atoi(m[6]), LinkedTo: atoi(m[7]),
			})
			continue
		}

		if m := setRe.FindStringSubmatch(line); m != nil {
			key, value := m[1], strings.TrimSpace(m[2])
			switch {
			case section == "profile" && profileIdx < len(cfg.PIDProfiles):
				cfg.PIDProfiles[profileIdx].Settings[key] = value
			case section == "rateprofile" && rateIdx < len(cfg.RateProfiles):
				cfg.RateProfiles[rateIdx].Settings[key] = value
			default:
				cfg.MasterSettings[key] = value
			}
		}
	}

	return cfg
}

func parseSerialPort(m []string, firmware string) domain.SerialPortConfig {
	mask := atoi(m[2])
	return domain.SerialPortConfig{
		PortID:         atoi(m[1]),
		FunctionMask:   mask,
		Functions:      DecodeFunctionMask(mask, firmware),
		BaudMSP:        atoi(m[3]),
		BaudGPS:        atoi(m[4]),
		BaudTelemetry:  atoi(m[5]),
		BaudPeripheral: atoi(m[6]),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
