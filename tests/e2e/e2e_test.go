package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "dronedoctor-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "dronedoctor")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/dronedoctor")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

// dataDir copies the pristine fixture data directory into a temp dir so
// commands that write (history, snapshots, fleet import) don't pollute
// testdata between runs.
func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src, err := filepath.Abs("../../testdata/datadir")
	require.NoError(t, err)
	require.NoError(t, os.CopyFS(dir, os.DirFS(src)))
	return dir
}

func dumpPath(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/dumps/shredder_diff.txt")
	require.NoError(t, err)
	return abs
}

func run(t *testing.T, dir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, append(args, "--data-dir", dir)...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

// --- Diagnose Tests ---

func TestE2E_Diagnose(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "diagnose", "shredder", dumpPath(t))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Diagnostic Report")
	assert.Contains(t, out, "Shredder")
}

func TestE2E_DiagnoseJSON(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "diagnose", "shredder", dumpPath(t), "--json")
	assert.Equal(t, 0, code)

	var report diagnose.Report
	err := json.Unmarshal([]byte(out), &report)
	require.NoError(t, err)
	assert.Equal(t, "Shredder", report.BuildName)
	assert.False(t, report.IsQuickCheck)
	assert.NotNil(t, report.CompatibilityReport)
}

func TestE2E_DiagnoseWithSymptom(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "diagnose", "shredder", dumpPath(t), "--symptom", "cant_arm")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Reported symptoms")
}

func TestE2E_DiagnoseHistory(t *testing.T) {
	dir := dataDir(t)
	_, code := run(t, dir, "diagnose", "shredder", dumpPath(t))
	require.Equal(t, 0, code)

	out, code := run(t, dir, "diagnose", "shredder", "--history")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Diagnostic History")
}

func TestE2E_DiagnoseUnknownDrone(t *testing.T) {
	dir := dataDir(t)
	_, code := run(t, dir, "diagnose", "ghost", dumpPath(t))
	assert.Equal(t, 1, code)
}

// --- Quick Check Tests ---

func TestE2E_QuickWithoutConfig(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "quick", "shredder")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Quick Health Check")
}

// --- Validation Tests ---

func TestE2E_Validate(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "validate", "shredder")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "COMPATIBLE")
}

func TestE2E_Pair(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "pair", "batt_cnhl_1300", "esc_aikon_55a")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "elec_001")
}

// --- Fleet Tests ---

func TestE2E_FleetRoundTrip(t *testing.T) {
	dir := dataDir(t)

	out, code := run(t, dir, "fleet", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Shredder")

	out, code = run(t, dir, "fleet", "import", dumpPath(t), "--slug", "spare")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Imported spare")

	out, code = run(t, dir, "fleet", "show", "spare", "--json")
	require.Equal(t, 0, code)
	var b domain.Build
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "Shredder", b.Name, "name comes from craft_name")

	_, code = run(t, dir, "fleet", "remove", "spare")
	assert.Equal(t, 0, code)

	_, code = run(t, dir, "fleet", "show", "spare")
	assert.Equal(t, 1, code)
}

// --- Configs Tests ---

func TestE2E_ConfigsLifecycle(t *testing.T) {
	dir := dataDir(t)

	out, code := run(t, dir, "configs", "save", "shredder", dumpPath(t))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Saved shredder snapshot")

	out, code = run(t, dir, "configs", "list", "shredder")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "BTFL 4.5.1")
}

// --- Performance Tests ---

func TestE2E_Perf(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "perf", "shredder")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Thrust-to-weight")
}

// --- Symptom Tests ---

func TestE2E_SymptomMatch(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "symptoms", "video", "is", "all", "static")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "no_video")
}

// --- Version Test ---

func TestE2E_Version(t *testing.T) {
	dir := dataDir(t)
	out, code := run(t, dir, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "dronedoctor")
}
