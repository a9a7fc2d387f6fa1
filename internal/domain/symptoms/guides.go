package symptoms

// FixSuggestion returns the one-line fix for a firmware check id, or ""
// when none is curated. Discrepancies carry their own suggestion on the
// Discrepancy itself.
func FixSuggestion(checkID string) string {
	return fixSuggestions[checkID]
}

var fixSuggestions = map[string]string{
	"fw_001": "In Betaflight Configurator -> Configuration -> ESC/Motor Features -> set Motor Protocol to match your ESC.",
	"fw_002": "BLHeli_S ESCs cannot run DShot1200. Downgrade to DShot600 or lower, or upgrade ESC to BLHeli_32/AM32.",
	"fw_003": "Bidirectional DShot requires BLHeli_32 or AM32 ESC firmware. Disable bidir DShot or upgrade ESC firmware.",
	"fw_004": "In Betaflight Configurator -> Configuration -> Receiver -> set Serial Receiver Provider to match your RX (e.g. CRSF for ELRS).",
	"fw_005": "In Betaflight Configurator -> Ports tab -> find the UART your receiver is wired to -> enable Serial RX.",
	"fw_006": "SBUS on F4 boards needs inversion. In CLI: set serialrx_inverted = ON",
	"fw_007": "In Betaflight Configurator -> Ports tab -> find the UART your VTX control wire is on -> enable Peripherals: TBS SmartAudio or IRC Tramp.",
	"fw_008": "In Betaflight Configurator -> Ports tab -> find the UART connected to your digital VTX -> enable Peripherals: VTX (MSP+DisplayPort).",
	"fw_009": "Check VTX table settings match your VTX hardware. In Betaflight Configurator -> Video Transmitter tab.",
	"fw_010": "Set vbat_min_cell_voltage to a safe value (330 = 3.30V is standard). In CLI: set vbat_min_cell_voltage = 330",
	"fw_011": "Verify vbat_max_cell_voltage matches your battery. 430 (4.20V) for LiPo, 435 (4.35V) for LiHV.",
	"fw_012": "Lower pid_process_denom for faster PID loop rate. DShot600 works best with denom <= 4.",
	"fw_013": "Adjust gyro_lpf1_static_hz for your quad size. 5\" freestyle: ~150-250Hz, whoop: ~100-150Hz, 7\": ~100-150Hz.",
	"fw_014": "Enable RPM filtering for better motor noise reduction. In CLI: set rpm_filter_harmonics = 3",
	"fw_015": "Enable OSD feature to see telemetry overlay. In Betaflight Configurator -> Configuration -> Other Features -> OSD.",
	"fw_016": "Enable TELEMETRY feature for battery/RSSI on your TX. In Betaflight Configurator -> Configuration -> Other Features -> TELEMETRY.",
	"fw_017": "Assign ESC_SENSOR to a UART in Betaflight Ports tab for per-motor telemetry data.",
	"fw_018": "Fix conflicting serial port assignments. Each UART should have only one primary function. Check Betaflight Ports tab.",
	"fw_019": "Adjust iNav navigation speed settings for your drone class. Long range: 800-1200, whoop: 300-500.",
	"fw_020": "Set platform_type to AIRPLANE or FLYING_WING for fixed-wing drones in iNav.",
}

// ResolutionGuide is a structured multi-step fix for one check id.
type ResolutionGuide struct {
	Summary      string   `json:"summary"`
	Steps        []string `json:"steps"`
	SeverityNote string   `json:"severity_note"`
	Reference    string   `json:"reference,omitempty"`
}

// GuideFor returns the resolution guide for a check id, when one is
// curated. Guides exist for the checks that ground a drone.
func GuideFor(checkID string) (ResolutionGuide, bool) {
	g, ok := resolutionGuides[checkID]
	return g, ok
}

var resolutionGuides = map[string]ResolutionGuide{
	"disc_002": {
		Summary: "Receiver protocol mismatch between FC config and fleet record",
		Steps: []string{
			"Step 1: Open Betaflight Configurator and go to the Configuration tab.",
			"Step 2: Under 'Receiver', check the 'Serial Receiver Provider' dropdown.",
			"Step 3: Verify which receiver is physically installed on your drone.",
			"Step 4: If you swapped the receiver, set the provider to match (e.g., CRSF for ELRS/Crossfire, SBUS for FrSky).",
			"Step 5: If the fleet record is wrong, update it with the correct receiver model and protocol.",
			"Step 6: Save and reboot the FC. Verify RC input is working in the Receiver tab.",
		},
		SeverityNote: "No RC control until resolved — the drone cannot be flown safely.",
		Reference:    "Betaflight wiki: Receiver Configuration",
	},
	"disc_003": {
		Summary: "VTX type mismatch — analog vs digital video system",
		Steps: []string{
			"Step 1: Identify which VTX is physically installed (analog SmartAudio/Tramp or digital DJI/HDZero/Walksnail).",
			"Step 2: In Betaflight Configurator, go to the Ports tab.",
			"Step 3: For analog VTX: assign 'TBS SmartAudio' or 'IRC Tramp' to the UART wired to the VTX.",
			"Step 4: For digital VTX: assign 'VTX (MSP+DisplayPort)' to the UART wired to the VTX.",
			"Step 5: Remove any conflicting VTX assignments on other UARTs.",
			"Step 6: If you replaced the VTX, update the fleet record with the new VTX model and type.",
		},
		SeverityNote: "No video feed or OSD until the correct VTX type is configured.",
		Reference:    "Betaflight wiki: VTX Configuration",
	},
	"disc_004": {
		Summary: "Motor protocol mismatch between FC config and ESC",
		Steps: []string{
			"Step 1: Open Betaflight Configurator and go to Configuration tab.",
			"Step 2: Under 'ESC/Motor Features', check the current Motor Protocol setting.",
			"Step 3: Verify which ESC is installed and what protocols it supports (check ESC spec sheet).",
			"Step 4: Set the Motor Protocol to match: DShot600 for BLHeli_32/AM32, DShot300 for BLHeli_S.",
			"Step 5: If you swapped the ESC, update the fleet record with the new ESC model and protocol.",
			"Step 6: Save and reboot. Test motor spin in the Motors tab (remove props first!).",
		},
		SeverityNote: "Motors may not spin or may behave erratically — do not fly.",
		Reference:    "Betaflight wiki: DShot and ESC Protocol",
	},
	"fw_001": {
		Summary: "FC motor protocol does not match ESC capability",
		Steps: []string{
			"Step 1: Open Betaflight Configurator -> Configuration -> ESC/Motor Features.",
			"Step 2: Check the 'Motor Protocol' dropdown.",
			"Step 3: Set it to match your ESC: DShot600 is the most common for modern ESCs.",
			"Step 4: BLHeli_S ESCs: use DShot300 or DShot600 (NOT DShot1200).",
			"Step 5: BLHeli_32/AM32 ESCs: DShot600 recommended, DShot1200 optional.",
			"Step 6: Save, reboot, and test motors in Motors tab with props removed.",
		},
		SeverityNote: "Motors will not spin with the wrong protocol — address before flying.",
		Reference:    "Betaflight wiki: Motor Protocol",
	},
	"fw_004": {
		Summary: "Serial receiver protocol does not match the installed receiver",
		Steps: []string{
			"Step 1: Open Betaflight Configurator -> Configuration -> Receiver.",
			"Step 2: Check the 'Serial Receiver Provider' setting.",
			"Step 3: Set it to match your receiver: CRSF for ELRS/TBS Crossfire, SBUS for FrSky, IBUS for FlySky.",
			"Step 4: Go to the Receiver tab and verify channels respond to stick input.",
			"Step 5: If channels do not move, also check that SERIAL_RX is assigned to the correct UART in the Ports tab.",
		},
		SeverityNote: "No RC control — cannot fly until resolved.",
		Reference:    "Betaflight wiki: Receiver",
	},
	"fw_005": {
		Summary: "No UART assigned for serial receiver input",
		Steps: []string{
			"Step 1: Open Betaflight Configurator -> Ports tab.",
			"Step 2: Find the UART that your receiver's TX/RX wire is physically connected to.",
			"Step 3: Enable 'Serial RX' on that UART row.",
			"Step 4: Make sure no other conflicting function is assigned to the same UART.",
			"Step 5: Save and reboot. Go to the Receiver tab and verify channels respond.",
			"Step 6: If unsure which UART, check your FC's pinout diagram for the RX pad.",
		},
		SeverityNote: "Receiver will not work at all without a UART assignment.",
		Reference:    "Betaflight wiki: Serial Port Configuration",
	},
	"fw_006": {
		Summary: "SBUS on F4 board needs software inversion",
		Steps: []string{
			"Step 1: F4 boards (STM32F405, F411) lack hardware UART inversion.",
			"Step 2: SBUS uses an inverted signal — F4 boards need a software workaround.",
			"Step 3: In Betaflight CLI, type: set serialrx_inverted = ON",
			"Step 4: Type: save",
			"Step 5: Alternatively, use an uninverted SBUS pad if your FC has one (check pinout).",
			"Step 6: If using ELRS/CRSF, this issue does not apply — CRSF is not inverted.",
		},
		SeverityNote: "Receiver will not work on F4 with SBUS unless inversion is enabled.",
		Reference:    "Betaflight wiki: SBUS on F4",
	},
	"fw_007": {
		Summary: "No UART assigned for analog VTX control (SmartAudio/Tramp)",
		Steps: []string{
			"Step 1: Open Betaflight Configurator -> Ports tab.",
			"Step 2: Find the UART that your VTX SmartAudio/Tramp wire is connected to.",
			"Step 3: Under 'Peripherals', select 'TBS SmartAudio' or 'IRC Tramp' for that UART.",
			"Step 4: Save and reboot.",
			"Step 5: Go to the Video Transmitter tab and verify VTX settings are readable.",
			"Step 6: If unsure which UART, check your FC pinout for the VTX or SA pad.",
		},
		SeverityNote: "VTX settings cannot be changed from OSD — channel/power must be set manually on the VTX.",
		Reference:    "Betaflight wiki: VTX SmartAudio Setup",
	},
	"fw_008": {
		Summary: "Digital VTX needs MSP DisplayPort UART assignment",
		Steps: []string{
			"Step 1: Open Betaflight Configurator -> Ports tab.",
			"Step 2: Find the UART connected to your digital VTX (DJI/HDZero/Walksnail).",
			"Step 3: Under 'Peripherals', select 'VTX (MSP+DisplayPort)'.",
			"Step 4: Save and reboot.",
			"Step 5: In Configuration tab, ensure OSD feature is enabled.",
			"Step 6: Power cycle the VTX and verify OSD elements appear in your goggles.",
		},
		SeverityNote: "No OSD overlay in goggles until MSP DisplayPort is configured.",
		Reference:    "Betaflight wiki: MSP DisplayPort for Digital FPV",
	},
	"fw_010": {
		Summary: "Battery minimum cell voltage is outside safe range",
		Steps: []string{
			"Step 1: In Betaflight CLI, check current value: get vbat_min_cell_voltage",
			"Step 2: Standard safe minimum is 330 (3.30V per cell).",
			"Step 3: For conservative flying, use 340 (3.40V).",
			"Step 4: Values below 310 (3.10V) risk permanent battery damage from over-discharge.",
			"Step 5: Values above 360 (3.60V) will trigger landing warnings too early.",
			"Step 6: Set the value: set vbat_min_cell_voltage = 330 then type: save",
		},
		SeverityNote: "Incorrect min voltage can damage batteries (too low) or cut flights short (too high).",
		Reference:    "Betaflight wiki: Battery Monitoring",
	},
	"fw_011": {
		Summary: "Battery max cell voltage may cause incorrect cell count detection",
		Steps: []string{
			"Step 1: In Betaflight CLI, check current value: get vbat_max_cell_voltage",
			"Step 2: For standard LiPo: set to 430 (4.30V — slightly above 4.20V full charge).",
			"Step 3: For LiHV (high voltage): set to 440 (4.40V — slightly above 4.35V full charge).",
			"Step 4: Incorrect max voltage causes wrong cell count auto-detection.",
			"Step 5: Wrong cell count means all voltage thresholds are wrong (min, warning, etc.).",
			"Step 6: Set the value and save: set vbat_max_cell_voltage = 430 then type: save",
		},
		SeverityNote: "Wrong cell count detection cascades into all battery warnings being incorrect.",
		Reference:    "Betaflight wiki: Battery Monitoring",
	},
	"elec_001": {
		Summary: "Battery voltage too low for ESC minimum rating",
		Steps: []string{
			"Step 1: Check your ESC's voltage rating (e.g., '3-6S' means 3S minimum).",
			"Step 2: Check your battery's cell count (e.g., 4S, 6S).",
			"Step 3: The battery cell count must meet or exceed the ESC's minimum S-rating.",
			"Step 4: If your battery is below the ESC's minimum, use a higher-voltage battery.",
			"Step 5: Running an ESC below its designed voltage can cause erratic behavior.",
		},
		SeverityNote: "Voltage mismatch can cause ESC failure or unpredictable motor behavior.",
		Reference:    "ESC manufacturer voltage specifications",
	},
	"elec_002": {
		Summary: "Battery voltage exceeds ESC maximum rating — risk of ESC destruction",
		Steps: []string{
			"Step 1: CHECK IMMEDIATELY — this can destroy your ESC on first plug-in.",
			"Step 2: Verify your ESC's maximum S-rating (e.g., '3-6S' means 6S maximum).",
			"Step 3: Verify your battery cell count.",
			"Step 4: NEVER plug in a battery that exceeds the ESC's maximum voltage rating.",
			"Step 5: If you need higher voltage, replace the ESC with one rated for your battery.",
			"Step 6: A 6S battery on a 4S-max ESC will blow the MOSFETs instantly, possibly with fire.",
		},
		SeverityNote: "DANGER: Over-voltage destroys ESCs immediately. Do NOT power on until resolved.",
		Reference:    "ESC manufacturer voltage specifications",
	},
	"elec_003": {
		Summary: "ESC current rating too low for motor maximum draw",
		Steps: []string{
			"Step 1: Check your motor's maximum current draw from the spec sheet or thrust data.",
			"Step 2: Check your ESC's continuous current rating.",
			"Step 3: The ESC should handle motor max current plus a 20% safety margin.",
			"Step 4: Example: 40A motor max draw needs at least 48A ESC (40 * 1.2 = 48).",
			"Step 5: If the ESC is undersized, replace it with a higher-rated one.",
			"Step 6: Alternatively, use softer throttle curves to limit peak current (not recommended for racing).",
		},
		SeverityNote: "Undersized ESC will overheat and can burn out during aggressive flying.",
		Reference:    "Motor thrust data tables and ESC specifications",
	},
}
