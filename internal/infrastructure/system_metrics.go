package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemStats is a point-in-time view of the process.
type SystemStats struct {
	GoRoutines    int64         `json:"goroutines"`
	MemoryUsage   int64         `json:"memory_usage_bytes"`
	MemorySystem  int64         `json:"memory_system_bytes"`
	GCCount       uint32        `json:"gc_count"`
	CPUCount      int           `json:"cpu_count"`
	ProcessUptime time.Duration `json:"uptime"`
	Timestamp     time.Time     `json:"timestamp"`
}

// ReadSystemStats samples the Go runtime.
func ReadSystemStats(startTime time.Time) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		MemoryUsage:   int64(memStats.Alloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		CPUCount:      runtime.NumCPU(),
		ProcessUptime: time.Since(startTime),
		Timestamp:     time.Now(),
	}
}

// SystemMetrics provides system resource monitoring
type SystemMetrics struct {
	goRoutines    metric.Int64Gauge
	memoryUsage   metric.Int64Gauge
	memorySystem  metric.Int64Gauge
	processUptime metric.Float64Gauge
}

// NewSystemMetrics creates the runtime gauges on meter.
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	var (
		sm  SystemMetrics
		err error
	)

	if sm.goRoutines, err = meter.Int64Gauge("system_goroutines",
		metric.WithDescription("Number of active goroutines")); err != nil {
		return nil, err
	}
	if sm.memoryUsage, err = meter.Int64Gauge("system_memory_usage_bytes",
		metric.WithDescription("Heap bytes in use"), metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if sm.memorySystem, err = meter.Int64Gauge("system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"), metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if sm.processUptime, err = meter.Float64Gauge("system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"), metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return &sm, nil
}

// Record publishes stats to the gauges.
func (sm *SystemMetrics) Record(ctx context.Context, stats SystemStats) {
	sm.goRoutines.Record(ctx, stats.GoRoutines)
	sm.memoryUsage.Record(ctx, stats.MemoryUsage)
	sm.memorySystem.Record(ctx, stats.MemorySystem)
	sm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())
}

// SystemMetricsCollector samples the runtime periodically.
type SystemMetricsCollector struct {
	metrics   *SystemMetrics
	startTime time.Time
	interval  time.Duration
}

// NewSystemMetricsCollector creates a collector. meter may be nil, in which
// case stats are sampled on demand only.
func NewSystemMetricsCollector(meter metric.Meter, interval time.Duration) (*SystemMetricsCollector, error) {
	smc := &SystemMetricsCollector{startTime: time.Now(), interval: interval}
	if meter != nil {
		metrics, err := NewSystemMetrics(meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create system metrics: %w", err)
		}
		smc.metrics = metrics
	}
	return smc, nil
}

// Run records the runtime gauges every interval until ctx is done.
func (smc *SystemMetricsCollector) Run(ctx context.Context) error {
	if smc.metrics == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(smc.interval)
	defer ticker.Stop()

	smc.metrics.Record(ctx, smc.Stats())
	for {
		select {
		case <-ticker.C:
			smc.metrics.Record(ctx, smc.Stats())
		case <-ctx.Done():
			return nil
		}
	}
}

// Stats returns the current system statistics.
func (smc *SystemMetricsCollector) Stats() SystemStats {
	return ReadSystemStats(smc.startTime)
}

// StartTime returns when the collector was created.
func (smc *SystemMetricsCollector) StartTime() time.Time {
	return smc.startTime
}
