// Package mcp exposes dronedoctor over the Model Context Protocol so
// AI assistants can diagnose configs and browse the fleet.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

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

// services bundles the wired application layer shared by all handlers.
type services struct {
	diagnose *application.DiagnoseService
	validate *application.ValidateService
	fleet    *application.FleetService
	configs  *application.ConfigsService
	build    *application.BuildService
}

// NewDroneDoctorMCPServer creates an MCP server with all dronedoctor
// tools and resources registered, backed by the given data directory.
func NewDroneDoctorMCPServer(dataDir string) (*server.MCPServer, error) {
	svc, err := buildServices(dataDir)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"dronedoctor",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s, nil
}

func buildServices(dataDir string) (*services, error) {
	cat := catalog.New(dataDir)
	constraints, err := cat.LoadConstraints()
	if err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	}
	engine := diagnose.NewEngine(rules.NewValidator(constraints))

	cache, err := memo.New(32)
	if err != nil {
		return nil, err
	}

	fl := fleet.New(dataDir)
	parser := fcparser.New()
	git := gitinfo.New()
	store := configstore.New(dataDir, git)
	hist := history.New(dataDir)

	return &services{
		diagnose: application.NewDiagnoseService(fl, parser, store, hist, engine, cache, git, dataDir),
		validate: application.NewValidateService(cat, fl),
		fleet:    application.NewFleetService(fl, cat, parser),
		configs:  application.NewConfigsService(fl, parser, store),
		build:    application.NewBuildService(cat, fl),
	}, nil
}
