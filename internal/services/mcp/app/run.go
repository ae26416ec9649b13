// Package app assembles the MCP service and its dependencies.
package app

import (
	"context"
	"fmt"

	"github.com/louisbranch/puzzlebox/internal/puzzle/session"
	"github.com/louisbranch/puzzlebox/internal/services/mcp/service"
)

// Run starts the MCP app with the provided HTTP address, health address,
// and transport type, owning a fresh session registry for its lifetime.
func Run(ctx context.Context, httpAddr, healthAddr, transport string) error {
	var transportKind service.TransportKind
	switch transport {
	case "http":
		transportKind = service.TransportHTTP
	case "stdio", "":
		transportKind = service.TransportStdio
	default:
		return fmt.Errorf("invalid transport %q: must be 'stdio' or 'http'", transport)
	}

	registry := session.NewRegistry()
	return service.Run(ctx, registry, service.Config{
		Transport:  transportKind,
		HTTPAddr:   httpAddr,
		HealthAddr: healthAddr,
	})
}
