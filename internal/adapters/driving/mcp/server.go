package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/carriersync/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ShutdownTimeout bounds how long in-flight HTTP requests, such as a running
// sync, are given to finish once the context is cancelled.
const ShutdownTimeout = 30 * time.Second

// Instructions tells connected clients how the tools fit together.
const Instructions = `carriersync publishes carrier records from Notion to an OpenAI vector store.
Call check_sections first to confirm every configured section table has its relation and columns.
run_sync publishes the next window of records and advances the saved cursor. Pass reset to purge the store first, or all to keep running passes until every record is processed.
purge_index removes every file from the vector store and cannot be undone.
The carriersync://state resource shows the saved cursor.`

// Server is the MCP server for carriersync.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "carriersync",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: Instructions,
			Logger:       sdkLogger(),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{Logger: sdkLogger()})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		shutdownErr <- httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		logger.Warn("MCP server shutdown: %v", err)
		return fmt.Errorf("shutting down MCP server: %w", err)
	}
	return nil
}

// sdkLogger returns the package logger in verbose mode and nil otherwise,
// which silences the SDK.
func sdkLogger() *slog.Logger {
	if !logger.IsVerbose() {
		return nil
	}
	return logger.Slog()
}
