package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newQuickCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "quick <drone> [config-file]",
		Short: "Run the safe-to-fly quick check",
		Long:  "Run only the checks that decide whether a drone is safe to plug in: identity mismatches, motor/receiver/battery firmware settings and the electrical compatibility rules. The config file is optional; without it only the electrical rules run.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}

			configText := ""
			if len(args) > 1 {
				configText, err = readConfigText(cmd, args[1])
				if err != nil {
					return err
				}
			}

			report, err := svc.diagnose.QuickCheck(args[0], configText)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiagnosticReport(report))

			if !report.SafeToFly() {
				return fmt.Errorf("not safe to fly")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
