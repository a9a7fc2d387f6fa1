package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

// registerTools registers all dronedoctor MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *services) {
	// 1. dronedoctor_diagnose
	s.AddTool(
		mcplib.NewTool("dronedoctor_diagnose",
			mcplib.WithDescription("Run a full diagnostic: cross-check a flight controller `diff all` dump against a fleet drone's record and the compatibility rules. Returns the report as JSON."),
			mcplib.WithString("drone",
				mcplib.Required(),
				mcplib.Description("Fleet drone slug"),
			),
			mcplib.WithString("config",
				mcplib.Required(),
				mcplib.Description("Raw `diff all` dump text"),
			),
			mcplib.WithString("symptoms", mcplib.Description("Comma-separated symptom keys to steer prioritization")),
			mcplib.WithBoolean("compare_last", mcplib.Description("Diff against the latest stored snapshot")),
		),
		handleDiagnose(svc),
	)

	// 2. dronedoctor_quick_check
	s.AddTool(
		mcplib.NewTool("dronedoctor_quick_check",
			mcplib.WithDescription("Run the reduced safe-to-fly check battery for a fleet drone. Config text is optional; without it only the electrical rules run."),
			mcplib.WithString("drone",
				mcplib.Required(),
				mcplib.Description("Fleet drone slug"),
			),
			mcplib.WithString("config", mcplib.Description("Raw `diff all` dump text")),
		),
		handleQuickCheck(svc),
	)

	// 3. dronedoctor_validate_build
	s.AddTool(
		mcplib.NewTool("dronedoctor_validate_build",
			mcplib.WithDescription("Check a fleet drone against every compatibility constraint"),
			mcplib.WithString("drone",
				mcplib.Required(),
				mcplib.Description("Fleet drone slug"),
			),
		),
		handleValidateBuild(svc),
	)

	// 4. dronedoctor_check_pair
	s.AddTool(
		mcplib.NewTool("dronedoctor_check_pair",
			mcplib.WithDescription("Run every two-component rule that applies to a pair of catalog component IDs"),
			mcplib.WithString("component_a",
				mcplib.Required(),
				mcplib.Description("First catalog component ID"),
			),
			mcplib.WithString("component_b",
				mcplib.Required(),
				mcplib.Description("Second catalog component ID"),
			),
		),
		handleCheckPair(svc),
	)

	// 5. dronedoctor_match_symptom
	s.AddTool(
		mcplib.NewTool("dronedoctor_match_symptom",
			mcplib.WithDescription("Fuzzy-match a free-text complaint against the symptom catalog and return ranked symptom keys"),
			mcplib.WithString("text",
				mcplib.Required(),
				mcplib.Description("Free-text problem description, e.g. \"motors won't spin\""),
			),
		),
		handleMatchSymptom(),
	)

	// 6. dronedoctor_diff_configs
	s.AddTool(
		mcplib.NewTool("dronedoctor_diff_configs",
			mcplib.WithDescription("Diff two stored config snapshots for a drone. With no timestamps the two latest are compared."),
			mcplib.WithString("drone",
				mcplib.Required(),
				mcplib.Description("Fleet drone slug"),
			),
			mcplib.WithString("old", mcplib.Description("Older snapshot timestamp")),
			mcplib.WithString("new", mcplib.Description("Newer snapshot timestamp")),
		),
		handleDiffConfigs(svc),
	)

	// 7. dronedoctor_performance
	s.AddTool(
		mcplib.NewTool("dronedoctor_performance",
			mcplib.WithDescription("Estimate a fleet drone's performance envelope (thrust-to-weight, hover throttle, flight time) from component specs"),
			mcplib.WithString("drone",
				mcplib.Required(),
				mcplib.Description("Fleet drone slug"),
			),
		),
		handlePerformance(svc),
	)
}

func handleDiagnose(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		drone, err := request.RequireString("drone")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		configText, err := request.RequireString("config")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		var symptomKeys []string
		if s, ok := args["symptoms"].(string); ok && s != "" {
			symptomKeys = splitAndTrim(s)
		}
		compareLast, _ := args["compare_last"].(bool)

		report, err := svc.diagnose.Diagnose(drone, configText, symptomKeys, compareLast)
		if err != nil {
			return errorResult(fmt.Sprintf("diagnose failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleQuickCheck(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		drone, err := request.RequireString("drone")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		configText, _ := request.GetArguments()["config"].(string)

		report, err := svc.diagnose.QuickCheck(drone, configText)
		if err != nil {
			return errorResult(fmt.Sprintf("quick check failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleValidateBuild(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		drone, err := request.RequireString("drone")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := svc.validate.ValidateDrone(drone)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleCheckPair(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		idA, err := request.RequireString("component_a")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		idB, err := request.RequireString("component_b")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		typeA, typeB, results, err := svc.validate.CheckPair(idA, idB)
		if err != nil {
			return errorResult(fmt.Sprintf("pair check failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"type_a":  typeA,
			"type_b":  typeB,
			"results": results,
		})
	}
}

func handleMatchSymptom() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(symptoms.MatchSymptom(text))
	}
}

func handleDiffConfigs(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		drone, err := request.RequireString("drone")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		oldTS, _ := args["old"].(string)
		newTS, _ := args["new"].(string)

		changes, err := svc.configs.Diff(drone, oldTS, newTS)
		if err != nil {
			return errorResult(fmt.Sprintf("diff failed: %v", err)), nil
		}
		return jsonResult(changes)
	}
}

func handlePerformance(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		drone, err := request.RequireString("drone")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		_, report, err := svc.build.Performance(drone)
		if err != nil {
			return errorResult(fmt.Sprintf("performance estimate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func splitAndTrim(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
