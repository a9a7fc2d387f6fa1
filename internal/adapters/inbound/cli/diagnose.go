package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newDiagnoseCmd() *cobra.Command {
	var (
		symptomKeys []string
		compareLast bool
		showHistory bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose <drone> [config-file]",
		Short: "Run a full diagnostic on a fleet drone",
		Long:  "Cross-check a flight controller `diff all` dump against the drone's fleet record and the compatibility rules. Pass \"-\" as the config file to read from stdin. Symptoms steer which findings are surfaced first.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			slug := args[0]

			if showHistory {
				entries, err := svc.diagnose.History(slug)
				if err != nil {
					return err
				}
				if jsonOutput {
					return renderJSON(cmd, entries)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("config file required (or \"-\" for stdin)")
			}
			configText, err := readConfigText(cmd, args[1])
			if err != nil {
				return err
			}

			report, err := svc.diagnose.Diagnose(slug, configText, symptomKeys, compareLast)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiagnosticReport(report))

			if report.HasCriticalIssues() {
				return fmt.Errorf("critical issues found, not safe to fly")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&symptomKeys, "symptom", "s", nil, "Reported symptom key (repeatable, see `dronedoctor symptoms`)")
	cmd.Flags().BoolVar(&compareLast, "compare-last", false, "Diff against the latest stored snapshot")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show past diagnostic runs instead")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
