package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// ServiceName is the health service name reported alongside the overall status
const ServiceName = "coc.keeper.Bot"

// GRPCServer exposes the standard gRPC health service
type GRPCServer struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

// NewGRPCServer listens on port. Port 0 picks a free port.
func NewGRPCServer(port int) (*GRPCServer, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to listen").
			WithMeta("port", port)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	reflection.Register(srv)

	g := &GRPCServer{srv: srv, health: healthServer, lis: lis}
	g.SetServing(false)
	return g, nil
}

// Addr is the bound address
func (g *GRPCServer) Addr() string {
	return g.lis.Addr().String()
}

// SetServing flips the overall and bot service status
func (g *GRPCServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)
}

// Serve blocks until Stop
func (g *GRPCServer) Serve() error {
	slog.Info("gRPC health server listening", "addr", g.Addr())
	if err := g.srv.Serve(g.lis); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "gRPC server failed")
	}
	return nil
}

// Stop drains the server, forcing it closed when ctx ends first
func (g *GRPCServer) Stop(ctx context.Context) {
	g.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		g.srv.Stop()
	case <-stopped:
	}
}

// Watch polls probe and mirrors it into the health status until ctx ends
func (g *GRPCServer) Watch(ctx context.Context, interval time.Duration, probe func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := probe()
	g.SetServing(last)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if now := probe(); now != last {
				slog.Info("health status changed", "serving", now)
				g.SetServing(now)
				last = now
			}
		}
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
