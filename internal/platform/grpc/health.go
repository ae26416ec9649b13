// Package grpc provides shared gRPC plumbing for service binaries.
package grpc

import (
	"context"
	"fmt"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServeHealth runs a gRPC health endpoint on the listener until the
// context ends. Deployment probes check the empty service name.
func ServeHealth(ctx context.Context, lis net.Listener) error {
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		healthServer.Shutdown()
		server.GracefulStop()
	}()

	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("serve health: %w", err)
	}
	return nil
}

// ListenAndServeHealth listens on addr and serves the health endpoint.
func ListenAndServeHealth(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ServeHealth(ctx, lis)
}
