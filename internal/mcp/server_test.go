package mcp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"codemap/internal/config"
	"codemap/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(cfg, service.New(cfg, logger), "test", logger)
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return content.Text
}

func TestHandleTypeMap(t *testing.T) {
	root := t.TempDir()
	source := "struct Engine { rpm: u32 }\nfn run(e: Engine) -> Engine { e }\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte(source), 0o644))

	s := newTestServer(t)
	result, err := s.handleTypeMap(context.Background(), callRequest(map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := textOf(t, result)
	require.Contains(t, text, "name|kind|file|line|usage_count")
	require.Contains(t, text, "Engine|struct|lib.rs|1|2")
	require.Contains(t, text, "showing 1 of 1 types")
}

func TestHandleTypeMapMissingPath(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleTypeMap(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestHandleDependencies(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.js"), []byte(""), 0o644))
	entry := filepath.Join(root, "index.js")
	require.NoError(t, os.WriteFile(entry, []byte(`import u from "./util";`), 0o644))

	s := newTestServer(t)
	result, err := s.handleDependencies(context.Background(), callRequest(map[string]interface{}{
		"path": entry,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "util.js", textOf(t, result))
}

func TestHandleDependenciesRateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = 1
	cfg.Server.RateBurst = 1
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewServer(cfg, service.New(cfg, logger), "test", logger)

	root := t.TempDir()
	file := filepath.Join(root, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("import os\n"), 0o644))
	args := map[string]interface{}{"path": file}

	first, err := s.handleDependencies(context.Background(), callRequest(args))
	require.NoError(t, err)
	require.False(t, first.IsError)

	second, err := s.handleDependencies(context.Background(), callRequest(args))
	require.NoError(t, err)
	require.True(t, second.IsError)
	require.Contains(t, textOf(t, second), "rate limit")
}
