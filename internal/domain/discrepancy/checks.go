// Package discrepancy compares live FC configuration signals against the
// fleet build record. A discrepancy only exists when two real signals
// disagree; missing data on either side produces nothing.
package discrepancy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/firmware"
)

type checkFunc func(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy

// allChecks runs in a fixed order so reports list findings by check id.
var allChecks = []checkFunc{
	checkFCBoard,          // disc_001
	checkReceiverProtocol, // disc_002
	checkVTXType,          // disc_003
	checkMotorProtocol,    // disc_004
	checkBidirDShotESC,    // disc_005
	checkBatteryType,      // disc_006
	checkCraftName,        // disc_007
	checkGPSPresence,      // disc_008
	checkESCTelemetry,     // disc_009
	checkMotorCount,       // disc_010
}

// Detect compares a parsed FC configuration against the fleet build record
// and returns every discrepancy found.
func Detect(cfg *domain.FCConfig, b *domain.Build) []domain.Discrepancy {
	var found []domain.Discrepancy
	for _, check := range allChecks {
		if d := check(cfg, b); d != nil {
			found = append(found, *d)
		}
	}
	return found
}

// disc_001: the configured board target should match the fleet FC's MCU.
func checkFCBoard(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	fc := b.GetComponent("fc")
	if fc == nil {
		return nil
	}

	fleetMCU := fc.GetString("mcu")
	boardName := cfg.BoardName
	if fleetMCU == "" || boardName == "" {
		return nil
	}

	boardUpper := strings.ToUpper(boardName)

	// STM32F405 -> F405, AT32F435 -> F435; board names like MATEKF722
	// carry the family shorthand.
	mcuShort := strings.ToUpper(fleetMCU)
	mcuShort = strings.ReplaceAll(mcuShort, "STM32", "")
	mcuShort = strings.ReplaceAll(mcuShort, "AT32", "")

	if mcuShort != "" && strings.Contains(boardUpper, mcuShort) {
		return nil
	}

	// Broader family match: F4 covers F405/F411.
	if len(mcuShort) >= 2 && strings.Contains(boardUpper, mcuShort[:2]) {
		return nil
	}

	return &domain.Discrepancy{
		ID:            "disc_001",
		ComponentType: "fc",
		Category:      "identity",
		Severity:      domain.SeverityCritical,
		FleetValue:    fmt.Sprintf("%s %s (%s)", fc.Manufacturer, fc.Model, fleetMCU),
		DetectedValue: fmt.Sprintf("Board: %s", boardName),
		Message:       fmt.Sprintf("FC board '%s' does not match fleet MCU '%s' — the flight controller may have been swapped", boardName, fleetMCU),
		FixSuggestion: "If you replaced the FC, update the fleet record with the new FC. If this is the same FC, verify the board_name target in Betaflight Configurator.",
	}
}

// disc_002: serialrx_provider should match the fleet receiver protocol.
func checkReceiverProtocol(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	rx := b.GetComponent("receiver")
	if rx == nil {
		return nil
	}

	provider := cfg.Setting("serialrx_provider")
	fleetProtocol := rx.GetString("output_protocol")
	if provider == "" || fleetProtocol == "" {
		return nil
	}

	if firmware.SerialRXCompatible(provider, fleetProtocol) {
		return nil
	}

	return &domain.Discrepancy{
		ID:            "disc_002",
		ComponentType: "receiver",
		Category:      "protocol",
		Severity:      domain.SeverityCritical,
		FleetValue:    fmt.Sprintf("%s %s (%s)", rx.Manufacturer, rx.Model, fleetProtocol),
		DetectedValue: fmt.Sprintf("serialrx_provider = %s", provider),
		Message:       fmt.Sprintf("FC serial RX provider '%s' does not match fleet receiver protocol '%s' — receiver may have been swapped", provider, fleetProtocol),
		FixSuggestion: "If you swapped the receiver, update the fleet record. If the FC is misconfigured, change serialrx_provider in Betaflight Configurator → Configuration → Receiver.",
	}
}

// disc_003: analog vs digital VTX, inferred from port functions. Fires
// only when exactly one side of the configuration is unambiguous.
func checkVTXType(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	vtx := b.GetComponent("vtx")
	if vtx == nil {
		return nil
	}

	fleetType := strings.ToLower(vtx.GetString("type"))
	if fleetType == "" {
		return nil
	}
	if len(cfg.SerialPorts) == 0 {
		return nil
	}

	fleetIsDigital := strings.Contains(fleetType, "digital")

	smartAudio := cfg.SerialPortWithFunction("VTX_SMARTAUDIO")
	tramp := cfg.SerialPortWithFunction("VTX_TRAMP")
	vtxMSP := cfg.SerialPortWithFunction("VTX_MSP")
	mspDP := cfg.SerialPortWithFunction("MSP_DISPLAYPORT")

	configIsAnalog := smartAudio != nil || tramp != nil
	configIsDigital := vtxMSP != nil || mspDP != nil

	// No VTX UART at all, or both kinds present: nothing to conclude.
	if !configIsAnalog && !configIsDigital {
		return nil
	}

	if fleetIsDigital && configIsAnalog && !configIsDigital {
		analogFn := "VTX_TRAMP"
		port := tramp
		if smartAudio != nil {
			analogFn = "VTX_SMARTAUDIO"
			port = smartAudio
		}
		portID := "?"
		if port != nil {
			portID = strconv.Itoa(port.PortID)
		}
		return &domain.Discrepancy{
			ID:            "disc_003",
			ComponentType: "vtx",
			Category:      "identity",
			Severity:      domain.SeverityCritical,
			FleetValue:    fmt.Sprintf("%s %s (%s)", vtx.Manufacturer, vtx.Model, vtx.GetString("type")),
			DetectedValue: fmt.Sprintf("%s on UART %s (Analog VTX)", analogFn, portID),
			Message:       fmt.Sprintf("Fleet says digital VTX but FC has analog VTX control (%s) — VTX may have been swapped", analogFn),
			FixSuggestion: "If you swapped to an analog VTX, update the fleet record. If the FC is misconfigured, switch the UART to VTX (MSP+DisplayPort) for digital.",
		}
	}

	if !fleetIsDigital && configIsDigital && !configIsAnalog {
		return &domain.Discrepancy{
			ID:            "disc_003",
			ComponentType: "vtx",
			Category:      "identity",
			Severity:      domain.SeverityCritical,
			FleetValue:    fmt.Sprintf("%s %s (%s)", vtx.Manufacturer, vtx.Model, vtx.GetString("type")),
			DetectedValue: "VTX_MSP / MSP_DISPLAYPORT (Digital VTX)",
			Message:       "Fleet says analog VTX but FC has digital VTX control (MSP) — VTX may have been swapped",
			FixSuggestion: "If you swapped to a digital VTX, update the fleet record. If the FC is misconfigured, switch the UART to SmartAudio or Tramp for analog.",
		}
	}

	return nil
}

// disc_004: motor_pwm_protocol should be able to drive the fleet ESC.
func checkMotorProtocol(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}

	fcProtocol := strings.ToUpper(cfg.Setting("motor_pwm_protocol"))
	escProtocol := esc.GetString("protocol")
	if fcProtocol == "" || escProtocol == "" {
		return nil
	}

	if firmware.MotorProtocolCompatible(fcProtocol, escProtocol) {
		return nil
	}

	return &domain.Discrepancy{
		ID:            "disc_004",
		ComponentType: "esc",
		Category:      "protocol",
		Severity:      domain.SeverityWarning,
		FleetValue:    fmt.Sprintf("%s %s (supports %s)", esc.Manufacturer, esc.Model, escProtocol),
		DetectedValue: fmt.Sprintf("motor_pwm_protocol = %s", fcProtocol),
		Message:       fmt.Sprintf("FC motor protocol '%s' is not compatible with fleet ESC protocol '%s' — ESC may have been swapped or FC misconfigured", fcProtocol, escProtocol),
		FixSuggestion: "If you swapped the ESC, update the fleet record. Otherwise, change motor protocol in Betaflight Configurator → Configuration → ESC/Motor Features.",
	}
}

// disc_005: bidirectional DShot implies a BLHeli_32 or AM32 ESC.
func checkBidirDShotESC(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	if cfg.Setting("dshot_bidir") != "ON" {
		return nil
	}

	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}

	escFirmware := esc.GetString("firmware")
	if escFirmware == "" || escFirmware == "BLHeli_32" || escFirmware == "AM32" {
		return nil
	}

	return &domain.Discrepancy{
		ID:            "disc_005",
		ComponentType: "esc",
		Category:      "feature",
		Severity:      domain.SeverityWarning,
		FleetValue:    fmt.Sprintf("%s %s (%s)", esc.Manufacturer, esc.Model, escFirmware),
		DetectedValue: "dshot_bidir = ON (requires BLHeli_32 or AM32)",
		Message:       fmt.Sprintf("Bidirectional DShot is enabled but fleet ESC has %s firmware — ESC may have been upgraded or swapped", escFirmware),
		FixSuggestion: "If you upgraded/swapped the ESC to BLHeli_32 or AM32, update the fleet record. If the fleet record is correct, disable bidirectional DShot.",
	}
}

// disc_006: vbat_max_cell_voltage should suit the fleet battery chemistry.
func checkBatteryType(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	battery := b.GetComponent("battery")
	if battery == nil {
		return nil
	}

	cells, ok := battery.GetFloat("cell_count")
	if !ok || cells == 0 {
		return nil
	}

	maxSetting := cfg.Setting("vbat_max_cell_voltage")
	if maxSetting == "" {
		return nil
	}
	maxVal, err := strconv.Atoi(maxSetting)
	if err != nil {
		return nil
	}

	// Betaflight stores cell voltage in centivolt: 420 = 4.20V standard
	// LiPo, 435 = 4.35V HV LiPo.
	chemistry := battery.GetString("chemistry")
	if chemistry == "" {
		chemistry = "LiPo"
	}

	if chemistry == "LiHV" && maxVal < 430 {
		return &domain.Discrepancy{
			ID:            "disc_006",
			ComponentType: "battery",
			Category:      "feature",
			Severity:      domain.SeverityWarning,
			FleetValue:    fmt.Sprintf("%sS %s (max 4.35V/cell)", domain.FormatValue(cells), chemistry),
			DetectedValue: fmt.Sprintf("vbat_max_cell_voltage = %.2fV", float64(maxVal)/100),
			Message:       fmt.Sprintf("Fleet battery is %s (4.35V/cell max) but FC max cell voltage is %.2fV — battery type may have changed", chemistry, float64(maxVal)/100),
			FixSuggestion: "If you switched to HV LiPo, set vbat_max_cell_voltage to 435 in CLI. If still using standard LiPo, update the fleet record.",
		}
	}

	if chemistry != "LiHV" && maxVal >= 435 {
		return &domain.Discrepancy{
			ID:            "disc_006",
			ComponentType: "battery",
			Category:      "feature",
			Severity:      domain.SeverityWarning,
			FleetValue:    fmt.Sprintf("%sS %s (max 4.20V/cell)", domain.FormatValue(cells), chemistry),
			DetectedValue: fmt.Sprintf("vbat_max_cell_voltage = %.2fV (HV LiPo setting)", float64(maxVal)/100),
			Message:       fmt.Sprintf("Fleet battery is standard %s but FC is set for HV LiPo (%.2fV/cell) — battery may have been swapped", chemistry, float64(maxVal)/100),
			FixSuggestion: "If you switched to HV LiPo, update the fleet battery record. Otherwise, set vbat_max_cell_voltage to 430 in CLI.",
		}
	}

	return nil
}

// disc_007: the FC craft name should match the fleet name or nickname.
func checkCraftName(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	craftName := cfg.Setting("name")
	if craftName == "" {
		craftName = cfg.Setting("craft_name")
	}
	if craftName == "" {
		return nil
	}

	buildName := strings.TrimSpace(strings.ToLower(b.Name))
	buildNickname := strings.TrimSpace(strings.ToLower(b.Nickname))
	craftLower := strings.TrimSpace(strings.ToLower(craftName))

	if craftLower == buildName || craftLower == buildNickname {
		return nil
	}
	if strings.Contains(buildName, craftLower) || strings.Contains(craftLower, buildName) {
		return nil
	}
	if buildNickname != "" && (strings.Contains(buildNickname, craftLower) || strings.Contains(craftLower, buildNickname)) {
		return nil
	}

	fleetValue := fmt.Sprintf("'%s'", b.Name)
	if b.Nickname != "" {
		fleetValue += fmt.Sprintf(" / '%s'", b.Nickname)
	}

	return &domain.Discrepancy{
		ID:            "disc_007",
		ComponentType: "fc",
		Category:      "identity",
		Severity:      domain.SeverityInfo,
		FleetValue:    fleetValue,
		DetectedValue: fmt.Sprintf("craft_name = '%s'", craftName),
		Message:       fmt.Sprintf("FC craft name '%s' does not match fleet drone name — may indicate a different drone", craftName),
		FixSuggestion: "Update the craft name in Betaflight CLI: set name = YOUR_DRONE_NAME",
	}
}

// disc_008: GPS component presence vs GPS feature/UART in the config.
func checkGPSPresence(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	gps := b.GetComponent("gps")
	fleetHasGPS := gps != nil

	configHasGPS := cfg.HasFeature("GPS") || cfg.SerialPortWithFunction("GPS") != nil

	if fleetHasGPS == configHasGPS {
		return nil
	}

	if fleetHasGPS {
		return &domain.Discrepancy{
			ID:            "disc_008",
			ComponentType: "gps",
			Category:      "feature",
			Severity:      domain.SeverityInfo,
			FleetValue:    fmt.Sprintf("GPS: %s %s", gps.Manufacturer, gps.Model),
			DetectedValue: "No GPS feature or UART configured",
			Message:       "Fleet has a GPS component but FC has no GPS configured — GPS may have been removed",
			FixSuggestion: "If you removed the GPS, remove it from the fleet record. If GPS should be active, enable GPS feature and assign a UART.",
		}
	}

	return &domain.Discrepancy{
		ID:            "disc_008",
		ComponentType: "gps",
		Category:      "feature",
		Severity:      domain.SeverityInfo,
		FleetValue:    "No GPS in fleet record",
		DetectedValue: "GPS feature/UART configured in FC",
		Message:       "FC has GPS configured but fleet record has no GPS component — GPS may have been added",
		FixSuggestion: "If you added a GPS module, add it to the fleet record.",
	}
}

// disc_009: ESC current sensor vs ESC_SENSOR feature/UART.
func checkESCTelemetry(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}

	fleetHasSensor := esc.GetBool("current_sensor")
	configHasSensor := cfg.HasFeature("ESC_SENSOR") || cfg.SerialPortWithFunction("ESC_SENSOR") != nil

	if fleetHasSensor == configHasSensor {
		return nil
	}

	if fleetHasSensor {
		return &domain.Discrepancy{
			ID:            "disc_009",
			ComponentType: "esc",
			Category:      "feature",
			Severity:      domain.SeverityInfo,
			FleetValue:    fmt.Sprintf("%s %s (has current sensor)", esc.Manufacturer, esc.Model),
			DetectedValue: "ESC_SENSOR not enabled",
			Message:       "Fleet ESC has current sensor but FC doesn't have ESC_SENSOR enabled — may be intentionally unused",
			FixSuggestion: "To enable per-motor telemetry, assign ESC_SENSOR to a UART in Betaflight Ports tab.",
		}
	}

	return &domain.Discrepancy{
		ID:            "disc_009",
		ComponentType: "esc",
		Category:      "feature",
		Severity:      domain.SeverityInfo,
		FleetValue:    fmt.Sprintf("%s %s (no current sensor listed)", esc.Manufacturer, esc.Model),
		DetectedValue: "ESC_SENSOR is enabled",
		Message:       "FC has ESC_SENSOR enabled but fleet ESC doesn't list a current sensor — ESC may have been upgraded",
		FixSuggestion: "If you upgraded the ESC, update the fleet record with current_sensor: true.",
	}
}

// disc_010: MOTOR resource mappings vs the fleet motor count.
func checkMotorCount(cfg *domain.FCConfig, b *domain.Build) *domain.Discrepancy {
	if len(cfg.ResourceMappings) == 0 {
		return nil
	}

	configMotorCount := 0
	for k := range cfg.ResourceMappings {
		if strings.HasPrefix(k, "MOTOR ") {
			configMotorCount++
		}
	}
	if configMotorCount == 0 {
		return nil
	}

	fleetMotorCount := b.MotorCount()
	if configMotorCount == fleetMotorCount {
		return nil
	}

	return &domain.Discrepancy{
		ID:            "disc_010",
		ComponentType: "motor",
		Category:      "identity",
		Severity:      domain.SeverityWarning,
		FleetValue:    fmt.Sprintf("%d motors", fleetMotorCount),
		DetectedValue: fmt.Sprintf("%d MOTOR resource mappings", configMotorCount),
		Message:       fmt.Sprintf("FC has %d motor outputs configured but fleet has %d motors — frame or motor setup may have changed", configMotorCount, fleetMotorCount),
		FixSuggestion: "If the motor count changed (e.g. quad to hex), update the fleet record's drone class and motors.",
	}
}
