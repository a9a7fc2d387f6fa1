package fcparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/fcparser"
)

const sampleDiff = `# diff all

# version
# Betaflight / STM32F405 (S405) 4.5.1 Nov 14 2024 / 07:03:22 (77d01ba3b) MSP API: 1.46
# config rev: fad perf

# start the command batch
batch start

# board_name SPEEDYBEEF405V4
board_name SPEEDYBEEF405V4

# feature
feature -TELEMETRY
feature GPS
feature OSD

# serial
serial 0 64 115200 57600 0 115200
serial 1 2 115200 57600 0 115200
serial 2 1024 115200 57600 0 115200

# resource
resource MOTOR 1 B06
resource MOTOR 2 B07
resource MOTOR 3 B08
resource MOTOR 4 B09

# aux
aux 0 0 0 1700 2100 0 0

# master
set motor_pwm_protocol = DSHOT600
set serialrx_provider = CRSF
set vbat_max_cell_voltage = 435
set craft_name = Shredder

profile 0

set p_pitch = 52
set i_pitch = 90

rateprofile 0

set roll_rc_rate = 120

# end the command batch
batch end
`

func TestParse_Header(t *testing.T) {
	cfg := fcparser.New().Parse(sampleDiff)

	assert.Equal(t, "BTFL", cfg.Firmware)
	assert.Equal(t, "4.5.1", cfg.FirmwareVersion)
	assert.Equal(t, "STM32F405", cfg.BoardName)
}

func TestParse_FeaturesAndSettings(t *testing.T) {
	cfg := fcparser.New().Parse(sampleDiff)

	assert.True(t, cfg.HasFeature("GPS"))
	assert.True(t, cfg.HasFeature("osd"))
	assert.False(t, cfg.HasFeature("TELEMETRY"), "feature -TELEMETRY disables it")

	v, ok := cfg.GetSetting("motor_pwm_protocol")
	require.True(t, ok)
	assert.Equal(t, "DSHOT600", v)
	assert.Equal(t, "Shredder", cfg.Setting("craft_name"))
}

func TestParse_SerialPorts(t *testing.T) {
	cfg := fcparser.New().Parse(sampleDiff)
	require.Len(t, cfg.SerialPorts, 3)

	rx := cfg.SerialPortWithFunction("SERIAL_RX")
	require.NotNil(t, rx)
	assert.Equal(t, 0, rx.PortID)
	assert.Equal(t, 64, rx.FunctionMask)
	assert.Equal(t, 115200, rx.BaudMSP)

	assert.NotNil(t, cfg.SerialPortWithFunction("GPS"))
	assert.NotNil(t, cfg.SerialPortWithFunction("VTX_SMARTAUDIO"))
}

func TestParse_ProfileSettingsSeparated(t *testing.T) {
	cfg := fcparser.New().Parse(sampleDiff)

	_, inMaster := cfg.GetSetting("p_pitch")
	assert.False(t, inMaster, "profile settings must not leak into master")

	require.Len(t, cfg.PIDProfiles, 1)
	assert.Equal(t, "52", cfg.PIDProfiles[0].Settings["p_pitch"])

	require.Len(t, cfg.RateProfiles, 1)
	assert.Equal(t, "120", cfg.RateProfiles[0].Settings["roll_rc_rate"])
}

func TestParse_ResourcesAndAux(t *testing.T) {
	cfg := fcparser.New().Parse(sampleDiff)

	assert.Len(t, cfg.ResourceMappings, 4)
	assert.Equal(t, "B06", cfg.ResourceMappings["MOTOR 1"])

	require.Len(t, cfg.AuxModes, 1)
	assert.Equal(t, 1700, cfg.AuxModes[0].RangeLow)
}

func TestParse_GarbageInput(t *testing.T) {
	cfg := fcparser.New().Parse("complete nonsense\nnothing useful here\n")
	assert.Equal(t, "UNKNOWN", cfg.Firmware)
	assert.Empty(t, cfg.SerialPorts)
	assert.Empty(t, cfg.MasterSettings)
}

func TestDetectFirmware_INAV(t *testing.T) {
	fw, ver, board := fcparser.DetectFirmware("# INAV / MATEKF722SE (SE72) 7.1.0 Apr  1 2024\n")
	assert.Equal(t, "INAV", fw)
	assert.Equal(t, "7.1.0", ver)
	assert.Equal(t, "MATEKF722SE", board)
}

func TestDetectFirmware_BoardNameFallback(t *testing.T) {
	fw, _, board := fcparser.DetectFirmware("board_name OMNIBUSF4SD\n")
	assert.Equal(t, "UNKNOWN", fw)
	assert.Equal(t, "OMNIBUSF4SD", board)
}

func TestDecodeFunctionMask_FirmwareDivergence(t *testing.T) {
	assert.Equal(t, []string{"LIDAR_TF"}, fcparser.DecodeFunctionMask(16384, "BTFL"))
	assert.Equal(t, []string{"MSP_DISPLAYPORT"}, fcparser.DecodeFunctionMask(16384, "INAV"))
	assert.Equal(t, []string{"UNUSED"}, fcparser.DecodeFunctionMask(0, "BTFL"))
	assert.Equal(t, []string{"MSP", "GPS"}, fcparser.DecodeFunctionMask(3, "BTFL"))
}
