package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/catalog"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/configstore"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/fcparser"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/fleet"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/gitinfo"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/history"
	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/memo"
	"github.com/dronedoctor/dronedoctor/internal/application"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
	"github.com/dronedoctor/dronedoctor/internal/domain/rules"
)

const sampleDiff = `# diff all

# version
# Betaflight / STM32F405 (S405) 4.5.1 Nov 14 2024 / 07:03:22 (77d01ba3b) MSP API: 1.46

batch start

# board_name SPEEDYBEEF405V4
board_name SPEEDYBEEF405V4

# feature
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

# master
set motor_pwm_protocol = DSHOT600
set serialrx_provider = CRSF
set vbat_max_cell_voltage = 435
set craft_name = Shredder

batch end
`

const fcsJSON = `[
  {"id": "fc_speedybee_f405", "manufacturer": "SpeedyBee", "model": "F405 V4", "weight_g": 9.6, "price_usd": 45.99, "category": "5inch", "specs": {"mcu": "STM32F405"}}
]`

const receiversJSON = `[
  {"id": "rx_elrs_ep1", "manufacturer": "HappyModel", "model": "EP1", "weight_g": 0.6, "price_usd": 14.99, "category": "5inch", "specs": {"output_protocol": "CRSF"}}
]`

const escsJSON = `[
  {"id": "esc_aikon_55a", "manufacturer": "Aikon", "model": "AK32 55A", "weight_g": 13.0, "price_usd": 59.99, "category": "5inch", "specs": {"protocol": "DShot600", "voltage_min_s": 3, "voltage_max_s": 6}}
]`

const vtxJSON = `[
  {"id": "vtx_rush_tank", "manufacturer": "Rush", "model": "Tank Solo", "weight_g": 7.5, "price_usd": 29.99, "category": "5inch", "specs": {"type": "Analog 5.8GHz"}}
]`

const batteriesJSON = `[
  {"id": "batt_cnhl_1300", "manufacturer": "CNHL", "model": "Black Series 1300", "weight_g": 168, "price_usd": 23.99, "category": "5inch", "specs": {"cell_count": 6, "capacity_mah": 1300}}
]`

const droneJSON = `{
  "name": "Shredder",
  "drone_class": "5inch",
  "status": "active",
  "fc": "fc_speedybee_f405",
  "receiver": "rx_elrs_ep1",
  "esc": "esc_aikon_55a",
  "battery": "batt_cnhl_1300"
}`

const electricalYAML = `category: electrical
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
`

type env struct {
	dir      string
	catalog  *catalog.Repository
	fleet    *fleet.Store
	parser   *fcparser.Parser
	configs  *configstore.Store
	history  *history.FileHistory
	engine   *diagnose.Engine
	cache    *memo.Cache
	diagnose *application.DiagnoseService
}

func setup(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("components/flight_controllers.json", fcsJSON)
	write("components/receivers.json", receiversJSON)
	write("components/escs.json", escsJSON)
	write("components/vtx.json", vtxJSON)
	write("components/batteries.json", batteriesJSON)
	write("constraints/electrical.yaml", electricalYAML)
	write("fleet/shredder.json", droneJSON)

	e := &env{
		dir:     dir,
		catalog: catalog.New(dir),
		fleet:   fleet.New(dir),
		parser:  fcparser.New(),
		configs: configstore.New(dir, gitinfo.New()),
		history: history.New(dir),
	}

	constraints, err := e.catalog.LoadConstraints()
	require.NoError(t, err)
	e.engine = diagnose.NewEngine(rules.NewValidator(constraints))

	e.cache, err = memo.New(8)
	require.NoError(t, err)

	e.diagnose = application.NewDiagnoseService(
		e.fleet, e.parser, e.configs, e.history, e.engine, e.cache, gitinfo.New(), dir)
	return e
}

func TestDiagnoseService_FullRun(t *testing.T) {
	e := setup(t)

	report, err := e.diagnose.Diagnose("shredder", sampleDiff, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "Shredder", report.BuildName)
	assert.Contains(t, report.FCInfo, "BTFL 4.5.1")
	assert.NotNil(t, report.CompatibilityReport)
	assert.NotNil(t, report.FirmwareReport)
	assert.False(t, report.IsQuickCheck)

	// The run lands in history.
	entries, err := e.diagnose.History("shredder")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shredder", entries[0].DroneSlug)
	assert.NotEmpty(t, entries[0].ID)
}

func TestDiagnoseService_CachedSecondRun(t *testing.T) {
	e := setup(t)

	first, err := e.diagnose.Diagnose("shredder", sampleDiff, []string{"cant_arm"}, false)
	require.NoError(t, err)

	second, err := e.diagnose.Diagnose("shredder", sampleDiff, []string{"cant_arm"}, false)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical inputs hit the memo cache")
	assert.Equal(t, 1, e.cache.Len())
}

func TestDiagnoseService_UnknownSymptom(t *testing.T) {
	e := setup(t)
	_, err := e.diagnose.Diagnose("shredder", sampleDiff, []string{"haunted"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "haunted")
}

func TestDiagnoseService_UnknownDrone(t *testing.T) {
	e := setup(t)
	_, err := e.diagnose.Diagnose("ghost", sampleDiff, nil, false)
	assert.Error(t, err)
}

func TestDiagnoseService_QuickCheckWithoutConfig(t *testing.T) {
	e := setup(t)

	report, err := e.diagnose.QuickCheck("shredder", "")
	require.NoError(t, err)

	assert.True(t, report.IsQuickCheck)
	assert.Nil(t, report.FirmwareReport, "no config means no firmware checks")
	assert.Empty(t, report.Discrepancies)
	assert.NotNil(t, report.CompatibilityReport)
}

func TestDiagnoseService_CompareLastDiffsSnapshots(t *testing.T) {
	e := setup(t)
	configsSvc := application.NewConfigsService(e.fleet, e.parser, e.configs)

	_, err := configsSvc.SaveSnapshot("shredder", sampleDiff)
	require.NoError(t, err)

	changed := sampleDiff + "set osd_warn_batt = ON\n"
	report, err := e.diagnose.Diagnose("shredder", changed, nil, true)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ConfigChanges)
}

func TestValidateService_ValidateDrone(t *testing.T) {
	e := setup(t)
	svc := application.NewValidateService(e.catalog, e.fleet)

	report, err := svc.ValidateDrone("shredder")
	require.NoError(t, err)
	assert.Equal(t, "Shredder", report.BuildName)
	assert.True(t, report.Passed(), "6S battery within 6S ESC rating")
}

func TestValidateService_CheckPair(t *testing.T) {
	e := setup(t)
	svc := application.NewValidateService(e.catalog, e.fleet)

	typeA, typeB, results, err := svc.CheckPair("batt_cnhl_1300", "esc_aikon_55a")
	require.NoError(t, err)
	assert.Equal(t, "battery", typeA)
	assert.Equal(t, "esc", typeB)
	require.Len(t, results, 1)
	assert.Equal(t, "elec_001", results[0].ConstraintID)

	_, _, _, err = svc.CheckPair("batt_cnhl_1300", "nonexistent")
	assert.Error(t, err)
}

func TestFleetService_ImportFromConfig(t *testing.T) {
	e := setup(t)
	svc := application.NewFleetService(e.fleet, e.catalog, e.parser)

	slug, det, err := svc.ImportFromConfig(sampleDiff, "")
	require.NoError(t, err)
	assert.Equal(t, "shredder", slug, "slug derived from craft name")

	assert.Equal(t, "Shredder", det.CraftName)
	assert.Equal(t, "SPEEDYBEEF405V4", det.BoardName)
	assert.Equal(t, "analog", det.VTXType)
	assert.Equal(t, "SmartAudio", det.VTXDetail)
	assert.Equal(t, 4, det.MotorCount)
	assert.Equal(t, 4, det.MatchedSlots)
	assert.Equal(t, "fc_speedybee_f405", det.Matches["fc"])
	assert.Equal(t, "rx_elrs_ep1", det.Matches["receiver"])
	assert.Equal(t, "esc_aikon_55a", det.Matches["esc"])
	assert.Equal(t, "vtx_rush_tank", det.Matches["vtx"])

	b, err := svc.Show("shredder")
	require.NoError(t, err)
	assert.Equal(t, "Shredder", b.Name)
	assert.Contains(t, b.Tags, "betaflight")
	assert.Contains(t, b.Tags, "CRSF")
	assert.Contains(t, b.Tags, "GPS")
}

func TestFleetService_ImportUnmatchedFallsBackToCustom(t *testing.T) {
	e := setup(t)
	// Empty the catalog so nothing matches.
	require.NoError(t, os.RemoveAll(filepath.Join(e.dir, "components")))

	svc := application.NewFleetService(e.fleet, e.catalog, e.parser)
	slug, det, err := svc.ImportFromConfig(sampleDiff, "mystery")
	require.NoError(t, err)
	assert.Equal(t, "mystery", slug)
	assert.Equal(t, 0, det.MatchedSlots)

	b, err := svc.Show("mystery")
	require.NoError(t, err)
	rx := b.GetComponent("receiver")
	require.NotNil(t, rx)
	assert.Equal(t, "Unknown", rx.Manufacturer)
	assert.Contains(t, rx.Model, "CRSF")
}

func TestFleetService_ImportRejectsGarbage(t *testing.T) {
	e := setup(t)
	svc := application.NewFleetService(e.fleet, e.catalog, e.parser)
	_, _, err := svc.ImportFromConfig("not a config dump", "")
	assert.Error(t, err)
}

func TestConfigsService_Lifecycle(t *testing.T) {
	e := setup(t)
	svc := application.NewConfigsService(e.fleet, e.parser, e.configs)

	stored, err := svc.SaveSnapshot("shredder", sampleDiff)
	require.NoError(t, err)
	assert.Equal(t, "BTFL", stored.Firmware)

	list, err := svc.List("shredder")
	require.NoError(t, err)
	require.Len(t, list, 1)

	raw, cfg, err := svc.Show("shredder", "")
	require.NoError(t, err)
	assert.Equal(t, sampleDiff, raw)
	assert.Equal(t, "4.5.1", cfg.FirmwareVersion)

	removed, err := svc.Delete("shredder", stored.Timestamp)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestConfigsService_DiffNeedsTwoSnapshots(t *testing.T) {
	e := setup(t)
	svc := application.NewConfigsService(e.fleet, e.parser, e.configs)

	_, err := svc.SaveSnapshot("shredder", sampleDiff)
	require.NoError(t, err)

	_, err = svc.Diff("shredder", "", "")
	assert.Error(t, err)
}

func TestConfigsService_SaveRejectsUnknownDrone(t *testing.T) {
	e := setup(t)
	svc := application.NewConfigsService(e.fleet, e.parser, e.configs)
	_, err := svc.SaveSnapshot("ghost", sampleDiff)
	assert.Error(t, err)
}

func TestBuildService_Performance(t *testing.T) {
	e := setup(t)
	// Give the drone motors and a propeller so the math has inputs.
	write := func(rel, content string) {
		path := filepath.Join(e.dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("components/motors.json", `[
  {"id": "motor_velox_2306", "manufacturer": "T-Motor", "model": "Velox", "weight_g": 32.5, "price_usd": 22.99, "category": "5inch", "specs": {"kv": 1950, "max_thrust_g": 1700, "max_current_a": 38}}
]`)
	write("components/propellers.json", `[
  {"id": "prop_hq_51433", "manufacturer": "HQProp", "model": "5.1x4.3x3", "weight_g": 4.2, "price_usd": 2.99, "category": "5inch", "specs": {"diameter_inches": 5.1}}
]`)
	write("fleet/rig.json", `{
  "name": "Rig",
  "drone_class": "5inch",
  "motor": "motor_velox_2306",
  "propeller": "prop_hq_51433",
  "battery": "batt_cnhl_1300",
  "esc": "esc_aikon_55a",
  "fc": "fc_speedybee_f405"
}`)

	svc := application.NewBuildService(e.catalog, e.fleet)
	b, report, err := svc.Performance("rig")
	require.NoError(t, err)
	assert.Equal(t, "Rig", b.Name)
	assert.Greater(t, report.ThrustToWeightRatio, 1.0)
	assert.Greater(t, report.EstimatedFlightTimeMin, 0.0)
}
