package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"team-chat/domain"
	"team-chat/observability"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const servicePrefix = "team-chat."

// ServiceName is the health service name of one socket namespace.
func ServiceName(namespace domain.Namespace) string {
	return servicePrefix + namespace.String()
}

// AdminServer exposes grpc.health.v1 for the process and each namespace.
// The overall status follows the latest health sample.
type AdminServer struct {
	log        *slog.Logger
	port       int
	monitoring *observability.MonitoringManager
	interval   time.Duration
	health     *health.Server
}

func NewAdminServer(log *slog.Logger, port int, monitoring *observability.MonitoringManager, interval time.Duration) *AdminServer {
	if interval <= 0 {
		interval = time.Second
	}
	return &AdminServer{
		log:        log.With("component", "admin"),
		port:       port,
		monitoring: monitoring,
		interval:   interval,
	}
}

func (s *AdminServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("admin listen: %w", err)
	}
	return s.Serve(ctx, lis)
}

// Serve blocks until ctx is done, then drains in-flight calls.
func (s *AdminServer) Serve(ctx context.Context, lis net.Listener) error {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(s.log)))
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, s.health)
	reflection.Register(grpcServer)

	for _, namespace := range domain.Namespaces {
		s.health.SetServingStatus(ServiceName(namespace), healthpb.HealthCheckResponse_SERVING)
	}
	s.refresh()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Admin gRPC server listening", "addr", lis.Addr().String())
		errCh <- grpcServer.Serve(lis)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.refresh()
		case <-ctx.Done():
			s.health.Shutdown()
			grpcServer.GracefulStop()
			s.log.Info("Admin gRPC server stopped")
			return nil
		}
	}
}

// refresh maps the latest sample onto the process wide status.
func (s *AdminServer) refresh() {
	status := healthpb.HealthCheckResponse_SERVING
	if s.monitoring.Latest().Status == "degraded" {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}
