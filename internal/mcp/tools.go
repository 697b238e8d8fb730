package mcp

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"codemap/internal/observability"
	"codemap/internal/service"
)

// AddTypeMapTool registers the type_map tool. Registration functions are
// composable so callers can assemble their own tool set.
func (s *Server) AddTypeMapTool(m *server.MCPServer) {
	tool := mcp.NewTool(
		"type_map",
		mcp.WithDescription("Extract a compact map of the type definitions under a path: structs, classes, interfaces, enums, traits and friends across Rust, TypeScript, JavaScript, Python, Java, Go, C#, PHP and Ruby, with project-wide usage counts. Output is one pipe-delimited row per type."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File or directory to scan")),
		mcp.WithString("filter",
			mcp.Description("Glob over root-relative file paths (e.g. 'src/**'), or a plain substring matched against type names")),
		mcp.WithNumber("max_types",
			mcp.Description("Cap on extracted types (hard ceiling 1000)")),
		mcp.WithNumber("offset",
			mcp.Description("Rows to skip, for pagination")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return")),
		mcp.WithNumber("token_budget",
			mcp.Description("Approximate token ceiling for the response")),
		mcp.WithBoolean("count_usage",
			mcp.Description("Count project-wide references per type (default true; costs a second traversal)")),
	)

	m.AddTool(tool, s.handleTypeMap)
}

func (s *Server) handleTypeMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	if !s.limiter.Allow(1) {
		observability.RateLimitedTotal.Inc()
		s.logger.Warn("rate limited", "tool", "type_map", "request_id", requestID)
		return mcp.NewToolResultError("rate limit exceeded, retry shortly"), nil
	}

	path, ok := args["path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	req := service.TypeMapRequest{Path: path, CountUsage: true}
	if filter, ok := args["filter"].(string); ok {
		req.Pattern = filter
	}
	if v, ok := args["max_types"].(float64); ok {
		req.MaxTypes = int(v)
	}
	if v, ok := args["offset"].(float64); ok {
		req.Offset = int(v)
	}
	if v, ok := args["limit"].(float64); ok {
		req.Limit = int(v)
	}
	if v, ok := args["token_budget"].(float64); ok {
		req.TokenBudget = int(v)
	}
	if v, ok := args["count_usage"].(bool); ok {
		req.CountUsage = v
	}

	s.logger.Info("tool call", "tool", "type_map", "request_id", requestID, "path", path)

	result, err := s.svc.TypeMap(ctx, req)
	if err != nil {
		s.logger.Error("type_map failed", "request_id", requestID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.Render()), nil
}

// AddDependenciesTool registers the dependencies tool.
func (s *Server) AddDependenciesTool(m *server.MCPServer) {
	tool := mcp.NewTool(
		"dependencies",
		mcp.WithDescription("Resolve the in-project files a source file depends on, from its import and module declarations. Supports Rust, Python, TypeScript and JavaScript. Returns project-root-relative paths, one per line."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file to analyze")),
	)

	m.AddTool(tool, s.handleDependencies)
}

func (s *Server) handleDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	if !s.limiter.Allow(1) {
		observability.RateLimitedTotal.Inc()
		s.logger.Warn("rate limited", "tool", "dependencies", "request_id", requestID)
		return mcp.NewToolResultError("rate limit exceeded, retry shortly"), nil
	}

	path, ok := args["path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	s.logger.Info("tool call", "tool", "dependencies", "request_id", requestID, "path", path)

	deps, err := s.svc.Dependencies(ctx, path)
	if err != nil {
		s.logger.Error("dependencies failed", "request_id", requestID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(deps) == 0 {
		return mcp.NewToolResultText("no in-project dependencies found"), nil
	}
	return mcp.NewToolResultText(strings.Join(deps, "\n")), nil
}
