package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronedoctor/dronedoctor/internal/adapters/inbound/cli"
)

const sampleDiff = `# diff all

# version
# Betaflight / STM32F405 (S405) 4.5.1 Nov 14 2024 / 07:03:22 (77d01ba3b) MSP API: 1.46

batch start

# board_name SPEEDYBEEF405V4
board_name SPEEDYBEEF405V4

# feature
feature GPS

# serial
serial 0 64 115200 57600 0 115200
serial 2 1024 115200 57600 0 115200

# resource
resource MOTOR 1 B06
resource MOTOR 2 B07
resource MOTOR 3 B08
resource MOTOR 4 B09

# master
set motor_pwm_protocol = DSHOT600
set serialrx_provider = CRSF
set craft_name = Shredder

batch end
`

// fixtureDataDir builds a minimal data directory: a small catalog, one
// electrical rule and one fleet drone.
func fixtureDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("components/flight_controllers.json", `[
  {"id": "fc_speedybee_f405", "manufacturer": "SpeedyBee", "model": "F405 V4", "weight_g": 9.6, "price_usd": 45.99, "category": "5inch", "specs": {"mcu": "STM32F405"}}
]`)
	write("components/receivers.json", `[
  {"id": "rx_elrs_ep1", "manufacturer": "HappyModel", "model": "EP1", "weight_g": 0.6, "price_usd": 14.99, "category": "5inch", "specs": {"output_protocol": "CRSF"}}
]`)
	write("components/escs.json", `[
  {"id": "esc_aikon_55a", "manufacturer": "Aikon", "model": "AK32 55A", "weight_g": 13.0, "price_usd": 59.99, "category": "5inch", "specs": {"protocol": "DShot600", "voltage_max_s": 6}}
]`)
	write("components/batteries.json", `[
  {"id": "batt_cnhl_1300", "manufacturer": "CNHL", "model": "Black Series 1300", "weight_g": 168, "price_usd": 23.99, "category": "5inch", "specs": {"cell_count": 6, "capacity_mah": 1300}}
]`)
	write("constraints/electrical.yaml", `category: electrical
rules:
  - id: elec_001
    name: Battery within ESC voltage rating
    severity: critical
    components: [battery, esc]
    check:
      operator: lte
      field_a: battery.cell_count
      field_b: esc.voltage_max_s
    message_template: "Battery {actual}S exceeds ESC rating {limit}S"
`)
	write("fleet/shredder.json", `{
  "name": "Shredder",
  "drone_class": "5inch",
  "status": "active",
  "fc": "fc_speedybee_f405",
  "receiver": "rx_elrs_ep1",
  "esc": "esc_aikon_55a",
  "battery": "batt_cnhl_1300"
}`)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func runWithData(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	return run(t, append(args, "--data-dir", dataDir)...)
}

func configFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diff.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dronedoctor")
}

func TestSymptomsList(t *testing.T) {
	out, err := run(t, "symptoms")
	require.NoError(t, err)
	assert.Contains(t, out, "cant_arm")
	assert.Contains(t, out, "no_receiver")
}

func TestSymptomsMatch(t *testing.T) {
	out, err := run(t, "symptoms", "motors", "won't", "spin")
	require.NoError(t, err)
	assert.Contains(t, out, "motors_wont_spin")
}

func TestFleetListAndShow(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "fleet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Shredder")

	out, err = runWithData(t, dir, "fleet", "show", "shredder")
	require.NoError(t, err)
	assert.Contains(t, out, "SpeedyBee")

	_, err = runWithData(t, dir, "fleet", "show", "ghost")
	assert.Error(t, err)
}

func TestFleetImport(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "fleet", "import", configFile(t), "--slug", "imported")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported imported")
	assert.Contains(t, out, "matched 3 of 4")

	out, err = runWithData(t, dir, "fleet", "show", "imported")
	require.NoError(t, err)
	assert.Contains(t, out, "Shredder", "name comes from craft_name")
}

func TestValidateCommand(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "validate", "shredder")
	require.NoError(t, err)
	assert.Contains(t, out, "COMPATIBLE")
}

func TestPairCommand(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "pair", "batt_cnhl_1300", "esc_aikon_55a")
	require.NoError(t, err)
	assert.Contains(t, out, "elec_001")

	_, err = runWithData(t, dir, "pair", "batt_cnhl_1300", "nope")
	assert.Error(t, err)
}

func TestQuickCommand_NoConfig(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "quick", "shredder")
	require.NoError(t, err)
	assert.Contains(t, out, "Quick Health Check")
}

func TestDiagnoseCommand(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "diagnose", "shredder", configFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Diagnostic Report")
	assert.Contains(t, out, "Shredder")
}

func TestDiagnoseCommand_JSON(t *testing.T) {
	dir := fixtureDataDir(t)

	out, err := runWithData(t, dir, "diagnose", "shredder", configFile(t), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"build_name": "Shredder"`)
}

func TestDiagnoseCommand_History(t *testing.T) {
	dir := fixtureDataDir(t)

	_, err := runWithData(t, dir, "diagnose", "shredder", configFile(t))
	require.NoError(t, err)

	out, err := runWithData(t, dir, "diagnose", "shredder", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Diagnostic History")
}

func TestDiagnoseCommand_UnknownSymptom(t *testing.T) {
	dir := fixtureDataDir(t)

	_, err := runWithData(t, dir, "diagnose", "shredder", configFile(t), "--symptom", "haunted")
	assert.Error(t, err)
}

func TestConfigsLifecycle(t *testing.T) {
	dir := fixtureDataDir(t)
	cfg := configFile(t)

	out, err := runWithData(t, dir, "configs", "save", "shredder", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved shredder snapshot")

	out, err = runWithData(t, dir, "configs", "list", "shredder")
	require.NoError(t, err)
	assert.Contains(t, out, "BTFL 4.5.1")

	out, err = runWithData(t, dir, "configs", "show", "shredder")
	require.NoError(t, err)
	assert.Contains(t, out, "BTFL 4.5.1 on STM32F405")

	out, err = runWithData(t, dir, "configs", "show", "shredder", "--raw")
	require.NoError(t, err)
	assert.Equal(t, sampleDiff, out)
}

func TestPerfCommand_MissingSpecs(t *testing.T) {
	dir := fixtureDataDir(t)

	// The fixture drone has no motors or propeller, so the estimate
	// must fail cleanly rather than divide by zero.
	_, err := runWithData(t, dir, "perf", "shredder")
	assert.Error(t, err)
}

func TestDataDirEnvFallback(t *testing.T) {
	dir := fixtureDataDir(t)
	t.Setenv("DRONEDOCTOR_DATA", dir)

	out, err := run(t, "fleet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Shredder")
}
