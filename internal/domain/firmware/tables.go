package firmware

import "strings"

// motorProtocolMap maps the FC motor_pwm_protocol setting to the ESC
// protocol spec values it can drive. Keys are the uppercase setting
// values; a DShot-capable ESC also accepts every slower DShot rate.
var motorProtocolMap = map[string]map[string]bool{
	"DSHOT600":   {"DShot600": true, "DShot1200": true},
	"DSHOT300":   {"DShot300": true, "DShot600": true, "DShot1200": true},
	"DSHOT150":   {"DShot150": true, "DShot300": true, "DShot600": true, "DShot1200": true},
	"DSHOT1200":  {"DShot1200": true},
	"MULTISHOT":  {"Multishot": true, "DShot150": true, "DShot300": true, "DShot600": true, "DShot1200": true},
	"ONESHOT125": {"Oneshot125": true, "Oneshot42": true, "Multishot": true, "DShot150": true, "DShot300": true, "DShot600": true, "DShot1200": true},
	"ONESHOT42":  {"Oneshot42": true, "Multishot": true, "DShot150": true, "DShot300": true, "DShot600": true, "DShot1200": true},
	"PWM":        {"PWM": true, "Oneshot125": true, "Oneshot42": true, "Multishot": true, "DShot150": true, "DShot300": true, "DShot600": true, "DShot1200": true},
}

// serialRXMap maps serialrx_provider setting values to the receiver
// output protocols they can decode.
var serialRXMap = map[string]map[string]bool{
	"CRSF":         {"CRSF": true},
	"SBUS":         {"SBUS": true},
	"IBUS":         {"IBUS": true},
	"SPEKTRUM1024": {"DSMX": true, "DSM2": true},
	"SPEKTRUM2048": {"DSMX": true, "DSM2": true},
	"SUMD":         {"SUMD": true},
	"SUMH":         {"SUMH": true},
	"FPORT":        {"FPORT": true},
	"GHST":         {"GHST": true},
}

// MotorProtocolCompatible reports whether an ESC speaking escProtocol can
// be driven by the given FC motor_pwm_protocol setting. Unknown settings
// match nothing.
func MotorProtocolCompatible(fcProtocol, escProtocol string) bool {
	return motorProtocolMap[strings.ToUpper(fcProtocol)][escProtocol]
}

// SerialRXCompatible reports whether a receiver output protocol can be
// decoded under the given serialrx_provider setting.
func SerialRXCompatible(provider, rxProtocol string) bool {
	return serialRXMap[strings.ToUpper(provider)][rxProtocol]
}
