// Package cli wires the dronedoctor command tree. Every command builds
// its services from the resolved data directory and writes through
// cmd.OutOrStdout() so tests can capture output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

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

var (
	version = "dev"
	commit  = "none"
)

const (
	dataDirEnv     = "DRONEDOCTOR_DATA"
	defaultDataDir = "./dronedoctor-data"
	reportCacheLen = 32
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dronedoctor",
		Short:         "Diagnose drone builds before they cost you a quad",
		Long:          "DroneDoctor cross-checks flight controller configuration dumps against your fleet records and a component compatibility database, and tells you what is wrong before you plug in a battery.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("data-dir", "", "Data directory (default $"+dataDirEnv+" or "+defaultDataDir+")")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDiagnoseCmd())
	cmd.AddCommand(newQuickCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newPairCmd())
	cmd.AddCommand(newSymptomsCmd())
	cmd.AddCommand(newFleetCmd())
	cmd.AddCommand(newConfigsCmd())
	cmd.AddCommand(newPerfCmd())
	cmd.AddCommand(newOptimizeCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show DroneDoctor version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dronedoctor %s (%s)\n", version, commit)
			return nil
		},
	}
}

// resolveDataDir picks the data directory: --data-dir flag, then the
// DRONEDOCTOR_DATA environment variable (a .env file is honored), then
// ./dronedoctor-data.
func resolveDataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	_ = godotenv.Load() // best-effort; absence of .env is fine
	if dir := os.Getenv(dataDirEnv); dir != "" {
		return dir
	}
	return defaultDataDir
}

// services bundles the wired application layer for one invocation.
type services struct {
	dataDir  string
	diagnose *application.DiagnoseService
	validate *application.ValidateService
	fleet    *application.FleetService
	configs  *application.ConfigsService
	build    *application.BuildService
}

func buildServices(dataDir string) (*services, error) {
	cat := catalog.New(dataDir)
	constraints, err := cat.LoadConstraints()
	if err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	}
	engine := diagnose.NewEngine(rules.NewValidator(constraints))

	cache, err := memo.New(reportCacheLen)
	if err != nil {
		return nil, err
	}

	fl := fleet.New(dataDir)
	parser := fcparser.New()
	git := gitinfo.New()
	store := configstore.New(dataDir, git)
	hist := history.New(dataDir)

	return &services{
		dataDir:  dataDir,
		diagnose: application.NewDiagnoseService(fl, parser, store, hist, engine, cache, git, dataDir),
		validate: application.NewValidateService(cat, fl),
		fleet:    application.NewFleetService(fl, cat, parser),
		configs:  application.NewConfigsService(fl, parser, store),
		build:    application.NewBuildService(cat, fl),
	}, nil
}

func servicesFor(cmd *cobra.Command) (*services, error) {
	return buildServices(resolveDataDir(cmd))
}

// readConfigText loads a config dump from a file, or from stdin when
// the path is "-".
func readConfigText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading config: %w", err)
	}
	return string(data), nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
