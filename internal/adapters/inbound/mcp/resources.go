package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

// registerResources registers all dronedoctor MCP resources on the given server.
func registerResources(s *server.MCPServer, svc *services) {
	// 1. dronedoctor://symptoms - the symptom vocabulary
	s.AddResource(
		mcplib.NewResource(
			"dronedoctor://symptoms",
			"Symptom Catalog",
			mcplib.WithResourceDescription("Known symptom keys with labels and descriptions, for use with dronedoctor_diagnose"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSymptomsResource(),
	)

	// 2. dronedoctor://fleet - every fleet drone
	s.AddResource(
		mcplib.NewResource(
			"dronedoctor://fleet",
			"Fleet",
			mcplib.WithResourceDescription("All fleet drones with their resolved components"),
			mcplib.WithMIMEType("application/json"),
		),
		handleFleetResource(svc),
	)

	// 3. dronedoctor://fleet/{slug} - one drone (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"dronedoctor://fleet/{slug}",
			"Fleet Drone",
			mcplib.WithTemplateDescription("One fleet drone's full record with resolved components"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleDroneResource(svc),
	)
}

func handleSymptomsResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(symptoms.Catalog, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling symptoms: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "dronedoctor://symptoms",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleFleetResource(svc *services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		drones, err := svc.fleet.List()
		if err != nil {
			return nil, fmt.Errorf("listing fleet: %w", err)
		}

		data, err := json.MarshalIndent(drones, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling fleet: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "dronedoctor://fleet",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleDroneResource(svc *services) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		slug, ok := request.Params.Arguments["slug"].(string)
		if !ok || slug == "" {
			return nil, fmt.Errorf("drone slug is required")
		}

		drone, err := svc.fleet.Show(slug)
		if err != nil {
			return nil, fmt.Errorf("loading drone: %w", err)
		}

		data, err := json.MarshalIndent(drone, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling drone: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
