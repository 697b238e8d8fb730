// Package mcp exposes the type map and dependency tools over the Model
// Context Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"codemap/internal/config"
	"codemap/internal/service"
	"codemap/internal/util"
)

type Server struct {
	svc     *service.Service
	limiter *util.Limiter
	logger  *slog.Logger
	mcp     *server.MCPServer
}

func NewServer(cfg *config.Config, svc *service.Service, version string, logger *slog.Logger) *Server {
	s := &Server{
		svc:     svc,
		limiter: util.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		logger:  logger,
	}

	m := server.NewMCPServer(
		"codemap",
		version,
		server.WithToolCapabilities(true),
	)
	s.AddTypeMapTool(m)
	s.AddDependenciesTool(m)
	s.mcp = m

	return s
}

// Serve runs the stdio transport until the client disconnects or the
// process receives SIGINT/SIGTERM.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("mcp server: %w", err)
		}
		close(errCh)
	}()

	select {
	case sig := <-sigCh:
		s.logger.Info("shutting down", "signal", sig.String())
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
