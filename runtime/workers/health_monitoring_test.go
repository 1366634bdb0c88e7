package workers

import (
	"context"
	"log/slog"
	"team-chat/observability"
	"team-chat/runtime"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestHealthMonitoringWorker_SamplesProcessAndConnections(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hub := runtime.NewHub()
	monitoring := observability.NewMonitoringManager()
	worker := NewHealthMonitoringWorker(log, hub, monitoring, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// When the worker runs until the context is done
	req.NoError(worker.Run(ctx))

	// Then a snapshot was published for every namespace
	stats := monitoring.Latest()
	req.Equal("ok", stats.Status)
	req.NotZero(stats.PID)
	req.NotZero(stats.RSSBytes)
	req.Equal(map[string]int{"dm": 0, "channels": 0, "friends": 0}, stats.Connections)
	req.False(stats.SampledAt.IsZero())
}
