package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/dronedoctor/dronedoctor/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the DroneDoctor MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start DroneDoctor MCP server (stdio)",
		Long:  "Start the DroneDoctor MCP server using stdio transport. This lets AI assistants diagnose configs, validate builds and browse the fleet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mcpadapter.NewDroneDoctorMCPServer(resolveDataDir(cmd))
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}
	return cmd
}
