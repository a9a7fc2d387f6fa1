package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newPerfCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "perf <drone>",
		Short: "Estimate a drone's performance envelope",
		Long:  "Estimate thrust-to-weight, hover throttle, current draw and flight time from the drone's component specs. Estimates only; real numbers depend on tune and flying style.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			drone, report, err := svc.build.Performance(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPerformance(drone.Name, report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newOptimizeCmd() *cobra.Command {
	var (
		droneClass string
		budget     float64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest builds from the component catalog",
		Long:  "Search the component catalog for builds of a given class that fit a budget, scored on performance, weight, price and durability. Builds with a critical compatibility failure are never suggested.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			suggestions, err := svc.build.Suggest(droneClass, budget, nil)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, suggestions)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuggestions(suggestions))
			return nil
		},
	}

	cmd.Flags().StringVar(&droneClass, "class", "5inch", "Drone class (5inch, 3inch, whoop)")
	cmd.Flags().Float64Var(&budget, "budget", 400, "Budget in USD")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
