package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/extract-method/internal/config"
	"github.com/mvp-joe/extract-method/internal/parsers"
)

// ServerName is the name advertised during the MCP handshake.
const ServerName = "extract-method"

// Server exposes the extract_method tools over MCP stdio.
type Server struct {
	mcp    *server.MCPServer
	cache  *parsers.Cache
	logger *slog.Logger
}

// NewServer creates a server with every tool registered. Parsed trees are
// cached for the lifetime of the server, keyed by file content, so edits
// made between calls are always seen.
func NewServer(cfg *config.Config, version string, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cache, err := parsers.NewCache(cfg.Batch.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(mcpServer, NewToolset(cfg, cache, logger))

	return &Server{
		mcp:    mcpServer,
		cache:  cache,
		logger: logger,
	}, nil
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the parse cache.
func (s *Server) Close() error {
	if s.cache != nil {
		s.cache.Close()
		stats := s.cache.Stats()
		s.logger.Debug("parse cache closed", "hits", stats.Hits, "misses", stats.Misses)
		s.cache = nil
	}
	return nil
}
