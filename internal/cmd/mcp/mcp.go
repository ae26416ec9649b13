// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/puzzlebox/internal/platform/config"
	"github.com/louisbranch/puzzlebox/internal/platform/otel"
	"github.com/louisbranch/puzzlebox/internal/platform/timeouts"
	mcpapp "github.com/louisbranch/puzzlebox/internal/services/mcp/app"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr   string `env:"PUZZLEBOX_MCP_HTTP_ADDR"   envDefault:"localhost:8081"`
	HealthAddr string `env:"PUZZLEBOX_MCP_HEALTH_ADDR" envDefault:""`
	Transport  string `env:"PUZZLEBOX_MCP_TRANSPORT"   envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health probe address (empty disables it)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return mcpapp.Run(ctx, cfg.HTTPAddr, cfg.HealthAddr, cfg.Transport)
}
