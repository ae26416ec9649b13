package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	platformgrpc "github.com/louisbranch/puzzlebox/internal/platform/grpc"
	"github.com/louisbranch/puzzlebox/internal/platform/timeouts"
	"github.com/louisbranch/puzzlebox/internal/puzzle/session"
	"github.com/louisbranch/puzzlebox/internal/services/mcp/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Puzzlebox Simulation MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP server address for the HTTP transport.
	// Defaults to localhost-only binding.
	HTTPAddr string
	// HealthAddr is the gRPC health probe address for the HTTP
	// transport. Empty disables the health endpoint.
	HealthAddr string
}

// Server hosts the MCP server over the session registry.
type Server struct {
	mcpServer *mcp.Server
	registry  *session.Registry
}

// New creates a configured MCP server bound to the registry.
func New(registry *session.Registry) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	registerSimulatorTools(mcpServer, registry)
	registerSimulatorResources(mcpServer, registry)

	return &Server{mcpServer: mcpServer, registry: registry}
}

// Run creates a server over the registry and serves it until the context
// ends.
func Run(ctx context.Context, registry *session.Registry, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server := New(registry)
	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// serveHTTP runs the streamable HTTP transport, plus a gRPC health
// endpoint for deployment probes when configured.
func (s *Server) serveHTTP(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		// Localhost-only binding by default.
		httpAddr = "localhost:8081"
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
			return
		}
		errCh <- nil
	}()
	log.Printf("MCP HTTP transport listening on %s", httpAddr)

	if cfg.HealthAddr != "" {
		go func() {
			errCh <- platformgrpc.ListenAndServeHealth(ctx, cfg.HealthAddr)
		}()
		log.Printf("health endpoint listening on %s", cfg.HealthAddr)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// registerSimulatorTools registers the simulator tool surface.
func registerSimulatorTools(mcpServer *mcp.Server, registry *session.Registry) {
	mcp.AddTool(mcpServer, domain.SimulatorInitTool(), domain.SimulatorInitHandler(registry))
	mcp.AddTool(mcpServer, domain.ExecuteMovesTool(), domain.ExecuteMovesHandler(registry))
	mcp.AddTool(mcpServer, domain.ResetTool(), domain.ResetHandler(registry))
	mcp.AddTool(mcpServer, domain.GetStateTool(), domain.GetStateHandler(registry))
	mcp.AddTool(mcpServer, domain.DeleteTool(), domain.DeleteHandler(registry))
}

// registerSimulatorResources registers readable MCP resources.
func registerSimulatorResources(mcpServer *mcp.Server, registry *session.Registry) {
	mcpServer.AddResource(domain.SessionListResource(), domain.SessionListResourceHandler(registry))
}
