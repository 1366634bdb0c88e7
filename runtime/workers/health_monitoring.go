package workers

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"team-chat/observability"
	"team-chat/runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker samples the server process and the live connection
// counts at a fixed interval. Results feed Prometheus and the /healthz snapshot.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	hub            *runtime.Hub
	monitoring     *observability.MonitoringManager
	metricInterval time.Duration
	pid            int32
}

func NewHealthMonitoringWorker(
	log *slog.Logger,
	hub *runtime.Hub,
	monitoring *observability.MonitoringManager,
	metricInterval time.Duration,
) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		hub:            hub,
		monitoring:     monitoring,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	w.sample(p)

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health sampling")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *HealthMonitoringWorker) sample(p *process.Process) {
	stats := observability.HealthStats{
		Status:      "ok",
		PID:         w.pid,
		Goroutines:  goruntime.NumGoroutine(),
		Connections: make(map[string]int),
		SampledAt:   time.Now().UTC(),
	}

	for namespace, count := range w.hub.Counts() {
		stats.Connections[namespace.String()] = count
		observability.Connections.WithLabelValues(namespace.String()).Set(float64(count))
	}

	if running, err := p.IsRunning(); err != nil {
		w.log.Debug("Error while finding process status", "err", err)
	} else if !running {
		stats.Status = "degraded"
	}
	if mem, err := p.MemoryInfo(); err != nil {
		w.log.Debug("Error while finding process ram usage", "err", err)
	} else {
		stats.RSSBytes = mem.RSS
		observability.ProcessRSS.Set(float64(mem.RSS))
	}
	if cpu, err := p.CPUPercent(); err != nil {
		w.log.Debug("Error while finding process cpu usage", "err", err)
	} else {
		stats.CPUPercent = cpu
		observability.ProcessCPU.Set(cpu)
	}

	w.monitoring.Update(stats)
}
