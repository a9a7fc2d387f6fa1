package application

import (
	"fmt"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Protocol name normalization for ESC matching. Betaflight stores e.g.
// "DSHOT600" while the component database stores "DShot600".
var protocolAliases = map[string][]string{
	"DSHOT600":   {"DShot600", "DSHOT600", "Dshot600"},
	"DSHOT300":   {"DShot300", "DSHOT300", "Dshot300"},
	"DSHOT150":   {"DShot150", "DSHOT150", "Dshot150"},
	"ONESHOT125": {"OneShot125", "ONESHOT125"},
	"ONESHOT42":  {"OneShot42", "ONESHOT42"},
	"MULTISHOT":  {"Multishot", "MULTISHOT"},
	"PWM":        {"PWM"},
}

// Detection summarizes what an imported config revealed about the
// hardware, for display alongside the created fleet record.
type Detection struct {
	CraftName        string            `json:"craft_name,omitempty"`
	BoardName        string            `json:"board_name,omitempty"`
	Firmware         string            `json:"firmware"`
	SerialRXProvider string            `json:"serialrx_provider,omitempty"`
	MotorProtocol    string            `json:"motor_protocol,omitempty"`
	VTXType          string            `json:"vtx_type"`
	VTXDetail        string            `json:"vtx_detail,omitempty"`
	MotorCount       int               `json:"motor_count"`
	MatchedSlots     int               `json:"matched_slots"`
	Matches          map[string]string `json:"matches,omitempty"` // slot -> component ID
}

// FleetService manages the drone fleet, including creating records
// from a flight controller configuration dump.
type FleetService struct {
	fleet   domain.FleetRepository
	catalog domain.CatalogRepository
	parser  domain.ConfigParser
}

func NewFleetService(fleet domain.FleetRepository, catalog domain.CatalogRepository, parser domain.ConfigParser) *FleetService {
	return &FleetService{fleet: fleet, catalog: catalog, parser: parser}
}

// List returns every fleet drone sorted by source file.
func (s *FleetService) List() ([]*domain.Build, error) {
	return s.fleet.List()
}

// Show loads one fleet drone by slug.
func (s *FleetService) Show(slug string) (*domain.Build, error) {
	return s.fleet.Load(slug)
}

// Remove deletes a fleet drone record. Returns false when none existed.
func (s *FleetService) Remove(slug string) (bool, error) {
	return s.fleet.Remove(slug)
}

// ImportFromConfig parses a `diff all` dump, matches the detected
// hardware against the component catalog, and saves a new fleet record.
// Unmatched but detected components become inline custom entries. Slug
// may be empty to derive one from the craft name. Returns the stored
// slug and the detection summary.
func (s *FleetService) ImportFromConfig(configText, slug string) (string, *Detection, error) {
	cfg := s.parser.Parse(configText)
	if cfg.Firmware != "BTFL" && cfg.Firmware != "INAV" {
		return "", nil, fmt.Errorf("not a recognizable flight controller dump")
	}

	components, err := s.catalog.LoadComponents()
	if err != nil {
		return "", nil, fmt.Errorf("loading components: %w", err)
	}

	craftName := strings.TrimSpace(cfg.Setting("name"))
	if craftName == "" {
		craftName = strings.TrimSpace(cfg.Setting("craft_name"))
	}
	serialrx := strings.TrimSpace(cfg.Setting("serialrx_provider"))
	motorProtocol := strings.TrimSpace(cfg.Setting("motor_pwm_protocol"))
	vtxType, vtxDetail := detectVTXType(cfg)

	det := &Detection{
		CraftName:        craftName,
		BoardName:        cfg.BoardName,
		Firmware:         firmwareInfo(cfg),
		SerialRXProvider: serialrx,
		MotorProtocol:    motorProtocol,
		VTXType:          vtxType,
		VTXDetail:        vtxDetail,
		MotorCount:       detectMotorCount(cfg),
		Matches:          map[string]string{},
	}

	record := map[string]any{
		"name":        droneName(craftName, cfg.BoardName),
		"drone_class": "5inch",
		"status":      "building",
		"notes":       "Auto-created from FC config: " + det.Firmware,
		"tags":        buildTags(cfg, vtxType, serialrx),
	}

	assign := func(slot string, match *domain.Component, fallback map[string]any) {
		if match != nil {
			record[slot] = match.ID
			det.Matches[slot] = match.ID
			det.MatchedSlots++
		} else if fallback != nil {
			record[slot] = fallback
		}
	}

	assign("fc", matchFC(cfg.BoardName, components), customFC(cfg.BoardName))
	assign("receiver", matchReceiver(serialrx, components), customReceiver(serialrx))
	assign("esc", matchESC(motorProtocol, components), customESC(motorProtocol))
	assign("vtx", matchVTX(vtxType, components), customVTX(vtxType, vtxDetail))

	stored, err := s.fleet.Save(record, slug)
	if err != nil {
		return "", nil, fmt.Errorf("saving fleet record: %w", err)
	}
	return stored, det, nil
}

func droneName(craftName, boardName string) string {
	switch {
	case craftName != "":
		return craftName
	case boardName != "":
		return fmt.Sprintf("New Drone (%s)", boardName)
	default:
		return "New Drone from FC"
	}
}

func firmwareInfo(cfg *domain.FCConfig) string {
	fw := cfg.Firmware
	switch fw {
	case "BTFL":
		fw = "Betaflight"
	case "INAV":
		fw = "INAV"
	}
	info := strings.TrimSpace(fw + " " + cfg.FirmwareVersion)
	if cfg.BoardName != "" {
		info += " on " + cfg.BoardName
	}
	return info
}

// matchFC matches the board name against catalog FCs by MCU substring:
// "SPEEDYBEEF405V4" contains "F405" from mcu "STM32F405".
func matchFC(boardName string, components map[string][]*domain.Component) *domain.Component {
	if boardName == "" {
		return nil
	}
	boardUpper := strings.ToUpper(boardName)
	for _, c := range components["fc"] {
		mcu, _ := c.Specs["mcu"].(string)
		short := strings.ToUpper(mcu)
		short = strings.ReplaceAll(short, "STM32", "")
		short = strings.ReplaceAll(short, "AT32", "")
		if short != "" && strings.Contains(boardUpper, short) {
			return c
		}
	}
	return nil
}

func matchReceiver(serialrx string, components map[string][]*domain.Component) *domain.Component {
	if serialrx == "" {
		return nil
	}
	want := strings.ToUpper(serialrx)
	for _, c := range components["receiver"] {
		proto, _ := c.Specs["output_protocol"].(string)
		if proto != "" && strings.ToUpper(proto) == want {
			return c
		}
	}
	return nil
}

func matchESC(motorProtocol string, components map[string][]*domain.Component) *domain.Component {
	if motorProtocol == "" {
		return nil
	}
	want := strings.ToUpper(motorProtocol)
	acceptable := map[string]bool{want: true}
	for _, alias := range protocolAliases[want] {
		acceptable[strings.ToUpper(alias)] = true
	}
	for _, c := range components["esc"] {
		proto, _ := c.Specs["protocol"].(string)
		if proto != "" && acceptable[strings.ToUpper(proto)] {
			return c
		}
	}
	return nil
}

func matchVTX(vtxType string, components map[string][]*domain.Component) *domain.Component {
	if vtxType == "none" {
		return nil
	}
	for _, c := range components["vtx"] {
		t, _ := c.Specs["type"].(string)
		if strings.Contains(strings.ToLower(t), vtxType) {
			return c
		}
	}
	return nil
}

// detectVTXType infers the video link from serial port functions.
func detectVTXType(cfg *domain.FCConfig) (vtxType, detail string) {
	switch {
	case cfg.SerialPortWithFunction("VTX_MSP") != nil:
		return "digital", "MSP DisplayPort"
	case cfg.SerialPortWithFunction("VTX_SMARTAUDIO") != nil:
		return "analog", "SmartAudio"
	case cfg.SerialPortWithFunction("VTX_TRAMP") != nil:
		return "analog", "IRC Tramp"
	default:
		return "none", ""
	}
}

func detectMotorCount(cfg *domain.FCConfig) int {
	n := 0
	for key := range cfg.ResourceMappings {
		if strings.HasPrefix(key, "MOTOR") {
			n++
		}
	}
	if n == 0 {
		return 4
	}
	return n
}

func buildTags(cfg *domain.FCConfig, vtxType, serialrx string) []string {
	var tags []string
	switch cfg.Firmware {
	case "BTFL":
		tags = append(tags, "betaflight")
	case "INAV":
		tags = append(tags, "inav")
	}
	if vtxType != "none" {
		tags = append(tags, vtxType)
	}
	if serialrx != "" {
		tags = append(tags, strings.ToUpper(serialrx))
	}
	if cfg.HasFeature("GPS") || cfg.SerialPortWithFunction("GPS") != nil {
		tags = append(tags, "GPS")
	}
	return tags
}

func customFC(boardName string) map[string]any {
	if boardName == "" {
		return nil
	}
	return customComponent("fc", "detected_fc_"+strings.ToLower(boardName), boardName, nil)
}

func customReceiver(serialrx string) map[string]any {
	if serialrx == "" {
		return nil
	}
	return customComponent("receiver", "detected_rx_"+strings.ToLower(serialrx),
		fmt.Sprintf("Unknown %s Receiver", serialrx),
		map[string]any{"output_protocol": serialrx})
}

func customESC(motorProtocol string) map[string]any {
	if motorProtocol == "" {
		return nil
	}
	return customComponent("esc", "detected_esc_"+strings.ToLower(motorProtocol),
		fmt.Sprintf("Unknown %s ESC", motorProtocol),
		map[string]any{"protocol": motorProtocol})
}

func customVTX(vtxType, detail string) map[string]any {
	if vtxType == "none" {
		return nil
	}
	title := strings.ToUpper(vtxType[:1]) + vtxType[1:]
	return customComponent("vtx", "detected_vtx_"+vtxType,
		fmt.Sprintf("Unknown %s VTX (%s)", title, detail),
		map[string]any{"type": title, "control": detail})
}

func customComponent(componentType, id, model string, specs map[string]any) map[string]any {
	if specs == nil {
		specs = map[string]any{}
	}
	return map[string]any{
		"_custom":        true,
		"component_type": componentType,
		"id":             id,
		"manufacturer":   "Unknown",
		"model":          model,
		"specs":          specs,
	}
}
