package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newFleetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Manage your drone fleet",
	}
	cmd.AddCommand(newFleetListCmd())
	cmd.AddCommand(newFleetShowCmd())
	cmd.AddCommand(newFleetImportCmd())
	cmd.AddCommand(newFleetRemoveCmd())
	return cmd
}

func newFleetListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fleet drones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			drones, err := svc.fleet.List()
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, drones)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderFleetList(drones))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFleetShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <drone>",
		Short: "Show one fleet drone's full component list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			drone, err := svc.fleet.Show(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, drone)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDroneDetail(drone))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFleetImportCmd() *cobra.Command {
	var (
		slug       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "import <config-file>",
		Short: "Create a fleet record from a flight controller dump",
		Long:  "Parse a `diff all` dump, match the detected board, receiver, ESC and VTX against the component catalog, and save the result as a new fleet drone. Unmatched hardware becomes inline custom entries you can edit later.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			configText, err := readConfigText(cmd, args[0])
			if err != nil {
				return err
			}

			stored, det, err := svc.fleet.ImportFromConfig(configText, slug)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, map[string]any{"slug": stored, "detection": det})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s (%s)\n", stored, det.Firmware)
			fmt.Fprintf(out, "  matched %d of 4 detected components\n", det.MatchedSlots)
			for slot, id := range det.Matches {
				fmt.Fprintf(out, "  %s: %s\n", slot, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "Slug for the new record (default derived from craft name)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFleetRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <drone>",
		Short: "Delete a fleet drone record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			removed, err := svc.fleet.Remove(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no fleet drone %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	return cmd
}
