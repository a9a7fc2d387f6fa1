package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newValidateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <drone>",
		Short: "Check a fleet drone against the compatibility rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}

			report, err := svc.validate.ValidateDrone(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidationReport(report))

			if !report.Passed() {
				return fmt.Errorf("%d critical compatibility failure(s)", len(report.CriticalFailures()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPairCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pair <component-id> <component-id>",
		Short: "Check two catalog components against each other",
		Long:  "Run every two-component rule that applies to the pair, e.g. a battery against an ESC before buying either.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}

			typeA, typeB, results, err := svc.validate.CheckPair(args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, results)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPairResults(typeA, typeB, results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
