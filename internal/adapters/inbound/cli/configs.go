package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
)

func newConfigsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Manage stored configuration snapshots",
	}
	cmd.AddCommand(newConfigsSaveCmd())
	cmd.AddCommand(newConfigsListCmd())
	cmd.AddCommand(newConfigsShowCmd())
	cmd.AddCommand(newConfigsDiffCmd())
	cmd.AddCommand(newConfigsDeleteCmd())
	return cmd
}

func newConfigsSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <drone> <config-file>",
		Short: "Store a config dump as a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			configText, err := readConfigText(cmd, args[1])
			if err != nil {
				return err
			}
			stored, err := svc.configs.SaveSnapshot(args[0], configText)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s snapshot %s\n", stored.DroneSlug, stored.Timestamp)
			return nil
		},
	}
	return cmd
}

func newConfigsListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <drone>",
		Short: "List a drone's stored snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			configs, err := svc.configs.List(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, configs)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderConfigList(args[0], configs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newConfigsShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "show <drone> [timestamp]",
		Short: "Show a stored snapshot (latest by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			timestamp := ""
			if len(args) > 1 {
				timestamp = args[1]
			}
			rawText, cfg, err := svc.configs.Show(args[0], timestamp)
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), rawText)
				return nil
			}
			if jsonOutput {
				return renderJSON(cmd, cfg)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", cfg.Firmware, cfg.FirmwareVersion)
			if cfg.BoardName != "" {
				fmt.Fprintf(out, " on %s", cfg.BoardName)
			}
			fmt.Fprintf(out, "\n%d settings, %d features, %d serial ports\n",
				len(cfg.MasterSettings), len(cfg.FeatureNames()), len(cfg.SerialPorts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output parsed config as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Output the raw dump text")
	return cmd
}

func newConfigsDiffCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <drone> [old-timestamp new-timestamp]",
		Short: "Diff two stored snapshots (the two latest by default)",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			oldTS, newTS := "", ""
			if len(args) == 3 {
				oldTS, newTS = args[1], args[2]
			} else if len(args) == 2 {
				return fmt.Errorf("pass both timestamps or neither")
			}

			changes, err := svc.configs.Diff(args[0], oldTS, newTS)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, changes)
			}
			out := cmd.OutOrStdout()
			if len(changes) == 0 {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			for _, change := range changes {
				fmt.Fprintln(out, change)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newConfigsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <drone> <timestamp>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := servicesFor(cmd)
			if err != nil {
				return err
			}
			removed, err := svc.configs.Delete(args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no snapshot %s for %q", args[1], args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s snapshot %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}
