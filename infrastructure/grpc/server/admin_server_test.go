package server_test

import (
	"context"
	"log/slog"
	"net"
	"team-chat/domain"
	"team-chat/infrastructure/grpc/server"
	"team-chat/observability"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestAdminServer_ReportsNamespacesAndProcessHealth(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	monitoring := observability.NewMonitoringManager()
	admin := server.NewAdminServer(log, 0, monitoring, 20*time.Millisecond)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- admin.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	defer func() { _ = conn.Close() }()
	client := healthpb.NewHealthClient(conn)

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
		defer callCancel()
		resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.Status
	}

	// Every namespace is served
	req.Eventually(func() bool {
		return check("") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
	for _, namespace := range domain.Namespaces {
		req.Equal(healthpb.HealthCheckResponse_SERVING, check(server.ServiceName(namespace)))
	}

	// When the process is sampled as degraded
	monitoring.Update(observability.HealthStats{Status: "degraded"})

	// Then the overall status follows
	req.Eventually(func() bool {
		return check("") == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	req.NoError(<-done)
}
