package domain

import "strings"

// SerialPortConfig is a single UART function assignment from the FC.
type SerialPortConfig struct {
	PortID         int      `json:"port_id"`
	FunctionMask   int      `json:"function_mask"`
	Functions      []string `json:"functions"`
	BaudMSP        int      `json:"baud_msp"`
	BaudGPS        int      `json:"baud_gps"`
	BaudTelemetry  int      `json:"baud_telemetry"`
	BaudPeripheral int      `json:"baud_peripheral"`
}

// HasFunction reports whether the port has the named function assigned.
func (p SerialPortConfig) HasFunction(name string) bool {
	for _, fn := range p.Functions {
		if fn == name {
			return true
		}
	}
	return false
}

// ParsedProfile is a PID or rate profile section from a config dump.
type ParsedProfile struct {
	Index    int               `json:"index"`
	Settings map[string]string `json:"settings"`
}

// FCConfig is a parsed flight controller configuration snapshot,
// produced from `diff all` output by the fcparser adapter.
type FCConfig struct {
	Firmware         string             `json:"firmware"`
	FirmwareVersion  string             `json:"firmware_version"`
	BoardName        string             `json:"board_name,omitempty"`
	MasterSettings   map[string]string  `json:"master_settings"`
	Features         map[string]bool    `json:"features"`
	SerialPorts      []SerialPortConfig `json:"serial_ports"`
	PIDProfiles      []ParsedProfile    `json:"pid_profiles,omitempty"`
	RateProfiles     []ParsedProfile    `json:"rate_profiles,omitempty"`
	ResourceMappings map[string]string  `json:"resource_mappings,omitempty"`
	AuxModes         []AuxMode          `json:"aux_modes,omitempty"`
	RawText          string             `json:"-"`
	ParsedAt         string             `json:"parsed_at,omitempty"`
}

// AuxMode is a single aux switch mode range assignment.
type AuxMode struct {
	Index     int `json:"index"`
	ModeID    int `json:"mode_id"`
	Channel   int `json:"channel"`
	RangeLow  int `json:"range_low"`
	RangeHigh int `json:"range_high"`
	Logic     int `json:"logic"`
	LinkedTo  int `json:"linked_to"`
}

// GetSetting looks up a master setting by key.
func (c *FCConfig) GetSetting(key string) (string, bool) {
	v, ok := c.MasterSettings[key]
	return v, ok
}

// Setting returns a master setting value, or "" when absent.
func (c *FCConfig) Setting(key string) string {
	return c.MasterSettings[key]
}

// HasFeature reports whether a feature flag is enabled, case-insensitively.
func (c *FCConfig) HasFeature(name string) bool {
	want := strings.ToUpper(name)
	for feat, on := range c.Features {
		if on && strings.ToUpper(feat) == want {
			return true
		}
	}
	return false
}

// SerialPortWithFunction returns the first port with the named function,
// or nil.
func (c *FCConfig) SerialPortWithFunction(name string) *SerialPortConfig {
	for i := range c.SerialPorts {
		if c.SerialPorts[i].HasFunction(name) {
			return &c.SerialPorts[i]
		}
	}
	return nil
}

// SerialPortsWithFunction returns every port with the named function.
func (c *FCConfig) SerialPortsWithFunction(name string) []SerialPortConfig {
	var ports []SerialPortConfig
	for _, p := range c.SerialPorts {
		if p.HasFunction(name) {
			ports = append(ports, p)
		}
	}
	return ports
}

// FeatureNames returns the enabled feature names.
func (c *FCConfig) FeatureNames() []string {
	var names []string
	for feat, on := range c.Features {
		if on {
			names = append(names, feat)
		}
	}
	return names
}
