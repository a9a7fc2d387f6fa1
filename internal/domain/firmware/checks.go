// Package firmware cross-validates a parsed FC configuration against the
// components a build is recorded to carry. Checks that lack the data they
// need return no result at all; a finding always rests on a real signal.
package firmware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

type checkFunc func(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult

// allChecks runs in a fixed order so findings list by check id.
var allChecks = []checkFunc{
	checkMotorProtocol,      // fw_001
	checkBLHeliSDShot1200,   // fw_002
	checkBidirDShot,         // fw_003
	checkReceiverProtocol,   // fw_004
	checkReceiverUART,       // fw_005
	checkSBUSInversion,      // fw_006
	checkVTXUART,            // fw_007
	checkDigitalVTXMSP,      // fw_008
	checkVTXTableMatch,      // fw_009
	checkBatteryMinVoltage,  // fw_010
	checkBatteryCellVoltage, // fw_011
	checkPIDLoopRate,        // fw_012
	checkGyroFilter,         // fw_013
	checkRPMFiltering,       // fw_014
	checkOSDFeature,         // fw_015
	checkTelemetryFeature,   // fw_016
	checkESCSensor,          // fw_017
	checkSerialConflicts,    // fw_018
	checkINAVNavSpeed,       // fw_019
	checkINAVFixedWing,      // fw_020
}

// Validate runs every firmware cross-check and aggregates the results.
// Check ids carry the fw_ prefix so they never collide with compatibility
// rule ids.
func Validate(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationReport {
	report := &domain.ValidationReport{BuildName: b.Name}
	for _, check := range allChecks {
		if r := check(cfg, b); r != nil {
			report.Results = append(report.Results, *r)
		}
	}
	return report
}

func result(id, name string, severity domain.Severity, passed bool, message string) *domain.ValidationResult {
	outcome := domain.OutcomeFailed
	if passed {
		outcome = domain.OutcomePassed
	}
	return &domain.ValidationResult{
		ConstraintID:   id,
		ConstraintName: name,
		Severity:       severity,
		Outcome:        outcome,
		Message:        message,
	}
}

// fw_001: the FC motor protocol must be able to drive the ESC protocol.
func checkMotorProtocol(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}
	fcProtocol := strings.ToUpper(cfg.Setting("motor_pwm_protocol"))
	escProtocol := esc.GetString("protocol")
	if fcProtocol == "" || escProtocol == "" {
		return nil
	}
	if MotorProtocolCompatible(fcProtocol, escProtocol) {
		return result("fw_001", "Motor protocol match", domain.SeverityCritical, true,
			fmt.Sprintf("FC protocol %s is compatible with ESC %s", fcProtocol, escProtocol))
	}
	return result("fw_001", "Motor protocol match", domain.SeverityCritical, false,
		fmt.Sprintf("FC motor protocol %s does not match ESC protocol %s — motors may not spin", fcProtocol, escProtocol))
}

// fw_002: BLHeli_S ESCs cannot run DShot1200.
func checkBLHeliSDShot1200(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}
	if esc.GetString("firmware") != "BLHeli_S" || strings.ToUpper(cfg.Setting("motor_pwm_protocol")) != "DSHOT1200" {
		return nil
	}
	return result("fw_002", "BLHeli_S DShot1200 incompatibility", domain.SeverityCritical, false,
		"BLHeli_S ESCs cannot run DShot1200 — use DShot600 or lower, or upgrade to BLHeli_32/AM32")
}

// fw_003: bidirectional DShot needs BLHeli_32 or AM32 ESC firmware.
func checkBidirDShot(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if cfg.Setting("dshot_bidir") != "ON" {
		return nil
	}
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}
	escFirmware := esc.GetString("firmware")
	if escFirmware == "BLHeli_32" || escFirmware == "AM32" {
		return result("fw_003", "Bidirectional DShot firmware", domain.SeverityWarning, true,
			fmt.Sprintf("Bidirectional DShot enabled with compatible %s ESC firmware", escFirmware))
	}
	return result("fw_003", "Bidirectional DShot firmware", domain.SeverityWarning, false,
		fmt.Sprintf("Bidirectional DShot requires BLHeli_32 or AM32, but ESC has %s", escFirmware))
}

// fw_004: serialrx_provider must match the receiver output protocol.
func checkReceiverProtocol(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	rx := b.GetComponent("receiver")
	if rx == nil {
		return nil
	}
	provider := strings.ToUpper(cfg.Setting("serialrx_provider"))
	rxProtocol := rx.GetString("output_protocol")
	if provider == "" || rxProtocol == "" {
		return nil
	}
	if SerialRXCompatible(provider, rxProtocol) {
		return result("fw_004", "Receiver protocol match", domain.SeverityCritical, true,
			fmt.Sprintf("FC serial RX provider %s matches receiver protocol %s", provider, rxProtocol))
	}
	return result("fw_004", "Receiver protocol match", domain.SeverityCritical, false,
		fmt.Sprintf("FC serial RX provider %s does not match receiver protocol %s — no RC input", provider, rxProtocol))
}

// fw_005: some UART must carry the SERIAL_RX function.
func checkReceiverUART(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if b.GetComponent("receiver") == nil || len(cfg.SerialPorts) == 0 {
		return nil
	}
	if port := cfg.SerialPortWithFunction("SERIAL_RX"); port != nil {
		return result("fw_005", "Receiver UART assigned", domain.SeverityCritical, true,
			fmt.Sprintf("SERIAL_RX assigned to UART %d", port.PortID))
	}
	return result("fw_005", "Receiver UART assigned", domain.SeverityCritical, false,
		"No UART has SERIAL_RX function — receiver will not work. Assign serial RX in Ports tab.")
}

// fw_006: SBUS on F405/F411 boards needs software inversion.
func checkSBUSInversion(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	rx := b.GetComponent("receiver")
	fc := b.GetComponent("fc")
	if rx == nil || fc == nil {
		return nil
	}
	if rx.GetString("output_protocol") != "SBUS" {
		return nil
	}
	mcu := fc.GetString("mcu")
	if !strings.Contains(mcu, "F405") && !strings.Contains(mcu, "F411") {
		return nil
	}
	if cfg.Setting("serialrx_inverted") == "ON" {
		return result("fw_006", "SBUS inversion on F4", domain.SeverityWarning, true,
			"SBUS inversion enabled for F4 board")
	}
	return result("fw_006", "SBUS inversion on F4", domain.SeverityWarning, false,
		fmt.Sprintf("SBUS on %s needs set serialrx_inverted = ON — F4 boards lack hardware inversion", mcu))
}

// fw_007: analog VTX should have a SmartAudio or Tramp UART for control.
func checkVTXUART(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	vtx := b.GetComponent("vtx")
	if vtx == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(vtx.GetString("type")), "digital") {
		return nil
	}
	if len(cfg.SerialPorts) == 0 {
		return nil
	}
	port := cfg.SerialPortWithFunction("VTX_SMARTAUDIO")
	if port == nil {
		port = cfg.SerialPortWithFunction("VTX_TRAMP")
	}
	if port != nil {
		return result("fw_007", "VTX UART assigned", domain.SeverityWarning, true,
			fmt.Sprintf("VTX control UART assigned to port %d", port.PortID))
	}
	return result("fw_007", "VTX UART assigned", domain.SeverityWarning, false,
		"No UART assigned for VTX control (SmartAudio/Tramp) — you won't be able to change VTX settings from OSD")
}

// fw_008: DJI/HDZero/Walksnail digital VTX needs MSP DisplayPort on a UART.
func checkDigitalVTXMSP(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	vtx := b.GetComponent("vtx")
	if vtx == nil {
		return nil
	}
	system := strings.ToLower(vtx.GetString("system"))
	needsMSP := false
	for _, kw := range []string{"dji", "hdzero", "walksnail", "avatar"} {
		if strings.Contains(system, kw) {
			needsMSP = true
			break
		}
	}
	if !needsMSP {
		return nil
	}
	if len(cfg.SerialPorts) == 0 {
		return nil
	}
	port := cfg.SerialPortWithFunction("VTX_MSP")
	if port == nil {
		port = cfg.SerialPortWithFunction("MSP_DISPLAYPORT")
	}
	if port != nil {
		return result("fw_008", "Digital VTX MSP DisplayPort", domain.SeverityCritical, true,
			fmt.Sprintf("MSP/DisplayPort assigned to UART %d for digital VTX", port.PortID))
	}
	systemName := vtx.GetString("system")
	if systemName == "" {
		systemName = "Digital"
	}
	return result("fw_008", "Digital VTX MSP DisplayPort", domain.SeverityCritical, false,
		fmt.Sprintf("%s VTX needs MSP DisplayPort on a UART — no OSD will be displayed", systemName))
}

// fw_009: a populated VTX table on a digital VTX is worth confirming.
func checkVTXTableMatch(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	vtx := b.GetComponent("vtx")
	if vtx == nil {
		return nil
	}
	bandsSetting := cfg.Setting("vtx_table_bands")
	if bandsSetting == "" {
		return nil
	}
	bands, err := strconv.Atoi(bandsSetting)
	if err != nil {
		return nil
	}
	if strings.Contains(strings.ToLower(vtx.GetString("type")), "digital") && bands > 0 {
		return result("fw_009", "VTX type match", domain.SeverityWarning, true,
			"VTX table configured for digital VTX")
	}
	return nil
}

// fw_010: vbat_min_cell_voltage should be in a sane range (centivolt).
func checkBatteryMinVoltage(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	minSetting := cfg.Setting("vbat_min_cell_voltage")
	if minSetting == "" {
		return nil
	}
	minVal, err := strconv.Atoi(minSetting)
	if err != nil {
		return nil
	}
	switch {
	case minVal >= 310 && minVal <= 360:
		return result("fw_010", "Battery min cell voltage", domain.SeverityWarning, true,
			fmt.Sprintf("Min cell voltage %.2fV is reasonable", float64(minVal)/100))
	case minVal < 310:
		return result("fw_010", "Battery min cell voltage", domain.SeverityWarning, false,
			fmt.Sprintf("Min cell voltage %.2fV is dangerously low — risk of over-discharging LiPo", float64(minVal)/100))
	}
	return result("fw_010", "Battery min cell voltage", domain.SeverityWarning, false,
		fmt.Sprintf("Min cell voltage %.2fV is unusually high — will land early unnecessarily", float64(minVal)/100))
}

// fw_011: vbat_max_cell_voltage drives cell count detection.
func checkBatteryCellVoltage(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
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
	if maxVal >= 410 && maxVal <= 440 {
		return result("fw_011", "Battery cell detection", domain.SeverityWarning, true,
			fmt.Sprintf("Max cell voltage %.2fV is reasonable for %sS battery", float64(maxVal)/100, domain.FormatValue(cells)))
	}
	return result("fw_011", "Battery cell detection", domain.SeverityWarning, false,
		fmt.Sprintf("Max cell voltage %.2fV may cause incorrect cell count detection for %sS battery", float64(maxVal)/100, domain.FormatValue(cells)))
}

// fw_012: PID process denominator should suit the DShot rate.
func checkPIDLoopRate(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	denomSetting := cfg.Setting("pid_process_denom")
	fcProtocol := strings.ToUpper(cfg.Setting("motor_pwm_protocol"))
	if denomSetting == "" {
		return nil
	}
	denom, err := strconv.Atoi(denomSetting)
	if err != nil {
		return nil
	}
	if fcProtocol == "DSHOT1200" && denom > 2 {
		return result("fw_012", "PID loop rate for DShot", domain.SeverityWarning, false,
			fmt.Sprintf("DShot1200 performs best with pid_process_denom <= 2, currently %d", denom))
	}
	if (fcProtocol == "DSHOT600" || fcProtocol == "DSHOT300") && denom > 4 {
		return result("fw_012", "PID loop rate for DShot", domain.SeverityWarning, false,
			fmt.Sprintf("%s works best with pid_process_denom <= 4, currently %d", fcProtocol, denom))
	}
	return result("fw_012", "PID loop rate for DShot", domain.SeverityWarning, true,
		fmt.Sprintf("PID loop rate (denom=%d) adequate for %s", denom, fcProtocol))
}

// fw_013: gyro LPF1 frequency should suit the airframe size.
func checkGyroFilter(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	lpf1Setting := cfg.Setting("gyro_lpf1_static_hz")
	if lpf1Setting == "" {
		return nil
	}
	lpf1, err := strconv.Atoi(lpf1Setting)
	if err != nil {
		return nil
	}
	if lpf1 == 0 {
		return result("fw_013", "Gyro filter range", domain.SeverityInfo, true,
			"Gyro LPF1 disabled (using dynamic filtering)")
	}
	if strings.Contains(b.DroneClass, "whoop") && lpf1 > 200 {
		return result("fw_013", "Gyro filter range", domain.SeverityInfo, false,
			fmt.Sprintf("Gyro LPF1 at %dHz is high for a whoop — consider 100-150Hz", lpf1))
	}
	if strings.Contains(b.DroneClass, "7inch") && lpf1 > 200 {
		return result("fw_013", "Gyro filter range", domain.SeverityInfo, false,
			fmt.Sprintf("Gyro LPF1 at %dHz may be too high for 7\" — consider 100-150Hz", lpf1))
	}
	return result("fw_013", "Gyro filter range", domain.SeverityInfo, true,
		fmt.Sprintf("Gyro LPF1 at %dHz is reasonable for %s", lpf1, b.DroneClass))
}

// fw_014: bidir DShot with a capable ESC should also run RPM filtering.
func checkRPMFiltering(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if cfg.Setting("dshot_bidir") != "ON" {
		return nil
	}
	esc := b.GetComponent("esc")
	if esc == nil {
		return nil
	}
	escFirmware := esc.GetString("firmware")
	if escFirmware != "BLHeli_32" && escFirmware != "AM32" {
		return nil
	}
	harmonicsSetting := cfg.Setting("rpm_filter_harmonics")
	harmonics, err := strconv.Atoi(harmonicsSetting)
	if err != nil {
		harmonics = 0
	}
	if harmonics > 0 {
		return result("fw_014", "RPM filtering", domain.SeverityInfo, true,
			fmt.Sprintf("RPM filtering enabled with %s harmonics — good for noise reduction", harmonicsSetting))
	}
	return result("fw_014", "RPM filtering", domain.SeverityInfo, false,
		"Bidirectional DShot is enabled with BLHeli_32/AM32 but RPM filtering is off — enable for better filtering")
}

// fw_015: an FC with an OSD chip should have the OSD feature on.
func checkOSDFeature(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	vtx := b.GetComponent("vtx")
	fc := b.GetComponent("fc")
	if vtx == nil || fc == nil {
		return nil
	}
	osd := fc.GetString("osd")
	if osd == "" || osd == "none" {
		return nil
	}
	if cfg.HasFeature("OSD") {
		return result("fw_015", "OSD feature", domain.SeverityWarning, true, "OSD feature enabled")
	}
	return result("fw_015", "OSD feature", domain.SeverityWarning, false,
		"FC has OSD chip but OSD feature is disabled — enable it to see telemetry overlay")
}

// fw_016: a telemetry-capable receiver should have TELEMETRY enabled.
func checkTelemetryFeature(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	rx := b.GetComponent("receiver")
	if rx == nil || !rx.GetBool("telemetry") {
		return nil
	}
	if cfg.HasFeature("TELEMETRY") {
		return result("fw_016", "Telemetry feature", domain.SeverityInfo, true,
			"TELEMETRY feature enabled — receiver supports telemetry")
	}
	return result("fw_016", "Telemetry feature", domain.SeverityInfo, false,
		"Receiver supports telemetry but TELEMETRY feature is disabled — enable for battery/RSSI on TX")
}

// fw_017: an ESC with a current sensor should feed a UART.
func checkESCSensor(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	esc := b.GetComponent("esc")
	if esc == nil || !esc.GetBool("current_sensor") {
		return nil
	}
	if port := cfg.SerialPortWithFunction("ESC_SENSOR"); port != nil {
		return result("fw_017", "ESC sensor feature", domain.SeverityInfo, true,
			fmt.Sprintf("ESC sensor on UART %d — per-motor telemetry available", port.PortID))
	}
	return result("fw_017", "ESC sensor feature", domain.SeverityInfo, false,
		"ESC has current sensor but no UART assigned for ESC_SENSOR — per-motor telemetry unavailable")
}

// fw_018: no UART may carry conflicting function assignments.
func checkSerialConflicts(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if len(cfg.SerialPorts) == 0 {
		return nil
	}
	var conflicts []string
	for _, port := range cfg.SerialPorts {
		var active []string
		for _, f := range port.Functions {
			if f != "UNUSED" {
				active = append(active, f)
			}
		}
		for i, f1 := range active {
			for _, f2 := range active[i+1:] {
				switch {
				case (f1 == "SERIAL_RX" && f2 == "GPS") || (f1 == "GPS" && f2 == "SERIAL_RX"):
					conflicts = append(conflicts, fmt.Sprintf("UART%d: %s + %s", port.PortID, f1, f2))
				case strings.HasPrefix(f1, "VTX_") && strings.HasPrefix(f2, "VTX_"):
					conflicts = append(conflicts, fmt.Sprintf("UART%d: %s + %s", port.PortID, f1, f2))
				case strings.HasPrefix(f1, "TELEMETRY_") && strings.HasPrefix(f2, "TELEMETRY_"):
					conflicts = append(conflicts, fmt.Sprintf("UART%d: %s + %s", port.PortID, f1, f2))
				}
			}
		}
	}
	if len(conflicts) > 0 {
		return result("fw_018", "Serial port conflicts", domain.SeverityCritical, false,
			fmt.Sprintf("Conflicting serial assignments: %s", strings.Join(conflicts, "; ")))
	}
	return result("fw_018", "Serial port conflicts", domain.SeverityCritical, true,
		"No conflicting serial port assignments")
}

// fw_019: INAV nav speed should suit the drone class.
func checkINAVNavSpeed(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if cfg.Firmware != "INAV" {
		return nil
	}
	speedSetting := cfg.Setting("nav_mc_vel_xy_max")
	if speedSetting == "" {
		return nil
	}
	speed, err := strconv.Atoi(speedSetting)
	if err != nil {
		return nil
	}
	if strings.Contains(b.DroneClass, "7inch") || strings.Contains(b.DroneClass, "lr") {
		if speed < 500 {
			return result("fw_019", "iNav nav speed settings", domain.SeverityWarning, false,
				fmt.Sprintf("nav_mc_vel_xy_max=%d is low for long range — consider 800-1200", speed))
		}
		return result("fw_019", "iNav nav speed settings", domain.SeverityWarning, true,
			fmt.Sprintf("Nav speed %d cm/s is reasonable for %s", speed, b.DroneClass))
	}
	if strings.Contains(b.DroneClass, "whoop") && speed > 800 {
		return result("fw_019", "iNav nav speed settings", domain.SeverityWarning, false,
			fmt.Sprintf("nav_mc_vel_xy_max=%d is high for a whoop — consider 300-500", speed))
	}
	return nil
}

// fw_020: flying wings on INAV need an airplane platform type.
func checkINAVFixedWing(cfg *domain.FCConfig, b *domain.Build) *domain.ValidationResult {
	if cfg.Firmware != "INAV" || b.DroneClass != "flying_wing" {
		return nil
	}
	platform := cfg.Setting("platform_type")
	if platform == "" {
		return nil
	}
	upper := strings.ToUpper(platform)
	if upper == "AIRPLANE" || upper == "FLYING_WING" {
		return result("fw_020", "iNav fixed-wing platform", domain.SeverityWarning, true,
			fmt.Sprintf("Platform type '%s' correct for flying wing", platform))
	}
	return result("fw_020", "iNav fixed-wing platform", domain.SeverityWarning, false,
		fmt.Sprintf("Platform type '%s' should be AIRPLANE or FLYING_WING for flying wing drone class", platform))
}
