// Package symptoms connects user-reported problems to the diagnostic
// checks that can explain them. The catalog is curated: every symptom
// carries a keyword index for fuzzy matching and a list of check ids
// worth looking at first.
package symptoms

// Symptom is one user-reportable problem the matcher can recognize.
type Symptom struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Catalog lists every known symptom in presentation order.
var Catalog = []Symptom{
	{
		Key:   "cant_arm",
		Label: "Will not arm",
		Description: "Motors do not arm when the arm switch is activated. The drone stays " +
			"disarmed with no motor response. Common causes include receiver issues, " +
			"arming switch misconfiguration, or pre-arm safety checks failing.",
	},
	{
		Key:   "motors_wont_spin",
		Label: "Motors won't spin / ESC not initializing",
		Description: "Motors do not spin when armed, or spin briefly then stop. ESCs may " +
			"fail to initialize (no startup tones). Usually caused by motor protocol " +
			"mismatch, ESC wiring issues, or voltage incompatibility.",
	},
	{
		Key:   "flips_on_takeoff",
		Label: "Flips on takeoff",
		Description: "Drone flips violently immediately on takeoff, crashing within the " +
			"first second. Caused by reversed motor direction, wrong motor order, " +
			"or incorrect motor protocol settings.",
	},
	{
		Key:   "no_video",
		Label: "No video / OSD not showing",
		Description: "No video feed in goggles or monitor. Screen is black, shows static, " +
			"or OSD elements are missing. Can be caused by VTX UART misconfiguration, " +
			"wrong video system settings, or MSP DisplayPort issues.",
	},
	{
		Key:   "no_receiver",
		Label: "No receiver signal",
		Description: "Flight controller shows no receiver connection. RC channels show zero " +
			"or no movement in Betaflight receiver tab. Caused by wrong UART assignment, " +
			"incorrect serial RX protocol, or SBUS inversion issues on F4 boards.",
	},
	{
		Key:   "low_range",
		Label: "Low range / signal drops",
		Description: "Radio control range is significantly shorter than expected. Signal " +
			"drops or failsafes occur at close range. Often caused by receiver " +
			"protocol mismatch, antenna issues, or telemetry configuration problems.",
	},
	{
		Key:   "gps_not_working",
		Label: "GPS not working",
		Description: "GPS module shows no satellites or no position fix. GPS features like " +
			"rescue mode are unavailable. Caused by missing GPS UART assignment, " +
			"GPS feature not enabled, or serial port conflicts.",
	},
	{
		Key:   "rth_not_working",
		Label: "Return to home not working",
		Description: "Return-to-home or GPS rescue does not activate or flies erratically. " +
			"May be caused by GPS issues, navigation settings misconfiguration, " +
			"or missing feature flags in firmware.",
	},
	{
		Key:   "bad_vibrations",
		Label: "Bad vibrations / oscillations",
		Description: "Drone vibrates excessively, video shows jello effect, or flight is " +
			"unstable with oscillations. Caused by PID tuning issues, inadequate " +
			"gyro filtering, or RPM filtering not enabled.",
	},
	{
		Key:   "short_flight_time",
		Label: "Short flight time",
		Description: "Flight time is much shorter than expected for the battery capacity. " +
			"Battery lands warning triggers too early or too late. Can be caused " +
			"by incorrect voltage thresholds, battery mismatch, or excessive current draw.",
	},
	{
		Key:   "failsafe_issues",
		Label: "Failsafe not working correctly",
		Description: "Failsafe does not trigger when signal is lost, or triggers unexpectedly " +
			"during normal flight. Often caused by receiver protocol mismatch, " +
			"telemetry configuration, or UART assignment issues.",
	},
	{
		Key:   "vtx_not_changing",
		Label: "VTX not changing channels/power",
		Description: "VTX channel, power, or band cannot be changed from the OSD or radio. " +
			"SmartAudio or Tramp controls do not respond. Usually caused by missing " +
			"VTX UART assignment or wrong VTX table settings.",
	},
	{
		Key:   "compass_drift",
		Label: "Compass / heading drift",
		Description: "Compass heading drifts or is inaccurate. The drone rotates slowly " +
			"in position hold or heading is wrong on the map. Caused by GPS/compass " +
			"configuration issues or serial port conflicts.",
	},
	{
		Key:   "altitude_hold_issues",
		Label: "Altitude hold not working",
		Description: "Altitude hold mode does not maintain height, drifts up or down, " +
			"or is unavailable. Caused by barometer/GPS configuration issues " +
			"or incorrect navigation settings for the drone class.",
	},
}

// Lookup returns the catalog entry for a symptom key.
func Lookup(key string) (Symptom, bool) {
	for _, s := range Catalog {
		if s.Key == key {
			return s, true
		}
	}
	return Symptom{}, false
}

// SymptomChecks maps each symptom key to the check ids that most often
// explain it, across discrepancy (disc_), firmware (fw_) and
// compatibility rule (elec_) namespaces.
var SymptomChecks = map[string][]string{
	"cant_arm":             {"disc_002", "fw_005", "fw_018"},
	"motors_wont_spin":     {"disc_004", "disc_005", "fw_001", "fw_002", "elec_001", "elec_002"},
	"flips_on_takeoff":     {"disc_010", "fw_001", "disc_004"},
	"no_video":             {"disc_003", "fw_007", "fw_008", "fw_015"},
	"no_receiver":          {"disc_002", "fw_004", "fw_005", "fw_006"},
	"low_range":            {"disc_002", "fw_004", "fw_005", "fw_016"},
	"gps_not_working":      {"disc_008", "fw_018"},
	"rth_not_working":      {"disc_008", "fw_018", "fw_019"},
	"bad_vibrations":       {"fw_012", "fw_013", "fw_014"},
	"short_flight_time":    {"disc_006", "fw_010", "fw_011", "elec_005"},
	"failsafe_issues":      {"disc_002", "fw_004", "fw_005", "fw_016"},
	"vtx_not_changing":     {"disc_003", "fw_007", "fw_008", "fw_009"},
	"compass_drift":        {"disc_008", "fw_018"},
	"altitude_hold_issues": {"disc_008", "fw_018", "fw_019"},
}

// symptomKeywords is the fuzzy-match index. Multi-word phrases score
// higher than single words when they hit.
var symptomKeywords = map[string][]string{
	"cant_arm": {
		"arm", "wont arm", "won't arm", "not arming", "cant arm", "can't arm",
		"arming", "disarmed", "failsafe arming", "arm switch", "wont disarm",
		"refuses to arm", "unable to arm", "arming disabled", "arming prevention",
	},
	"motors_wont_spin": {
		"motor", "spin", "not spinning", "wont spin", "won't spin",
		"motors dead", "no motor", "props not turning", "propellers not spinning",
		"esc not initializing", "esc beeping", "esc no tones", "motor not responding",
		"props wont spin", "motors stopped", "motors not working",
	},
	"flips_on_takeoff": {
		"flip", "flips", "flips on takeoff", "flip on arm", "flip on takeoff",
		"crashes immediately", "death roll", "tumble", "rolls over",
		"yaw spin", "flips over", "instant crash", "takes off sideways",
	},
	"no_video": {
		"video", "no video", "black screen", "no image", "vtx", "osd",
		"blank goggles", "no feed", "static", "no osd", "no display",
		"video black", "goggles black", "no picture", "video lost",
		"screen blank", "no fpv", "fpv black",
	},
	"no_receiver": {
		"receiver", "no receiver", "rx not working", "no rc", "no signal",
		"rc input", "no channels", "receiver not detected", "rx dead",
		"no rx", "rc not connected", "receiver disconnected", "sbus",
		"crsf not working", "elrs not binding", "no rc input",
	},
	"low_range": {
		"range", "low range", "signal drop", "signal loss", "failsafe range",
		"short range", "rssi low", "rssi drops", "link quality", "lq drops",
		"connection drops", "drops out", "radio range", "antenna range",
	},
	"gps_not_working": {
		"gps", "no gps", "gps fix", "no satellites", "satellite",
		"gps not found", "position", "no position", "gps module",
		"ublox", "gps lock", "gps search", "no gps signal",
	},
	"rth_not_working": {
		"rth", "return to home", "return home", "gps rescue", "rescue mode",
		"rth not working", "home point", "failsafe rth", "return to launch",
		"go home", "navigation", "nav not working",
	},
	"bad_vibrations": {
		"vibration", "jello", "shaking", "oscillation", "wobble",
		"pid", "noisy", "gyro", "propwash", "prop wash",
		"unstable", "shaky video", "motor noise", "desync",
		"oscillating", "bouncing", "flutter",
	},
	"short_flight_time": {
		"flight time", "short flight", "battery life", "battery drain",
		"voltage", "low battery", "sag", "battery sag", "lands early",
		"not enough flight time", "battery dies fast", "quick discharge",
		"battery warning", "capacity",
	},
	"failsafe_issues": {
		"failsafe", "fail safe", "failsafe not working", "failsafe trigger",
		"unexpected failsafe", "failsafe land", "failsafe drop",
		"signal lost", "rx loss", "link lost", "failsafe activates",
	},
	"vtx_not_changing": {
		"vtx channel", "vtx power", "smartaudio", "smart audio",
		"tramp", "vtx control", "vtx settings", "change channel",
		"change power", "vtx band", "pit mode", "vtx table",
		"vtx not responding", "vtx stuck",
	},
	"compass_drift": {
		"compass", "heading", "drift", "compass drift", "heading wrong",
		"mag", "magnetometer", "compass calibration", "yaw drift",
		"heading offset", "compass error",
	},
	"altitude_hold_issues": {
		"altitude", "altitude hold", "alt hold", "height", "baro",
		"barometer", "climbing", "sinking", "altitude drift",
		"position hold altitude", "vario", "alt not holding",
	},
}
