package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// slowQueries counts statements that crossed the slow query threshold.
var slowQueries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_slow_queries_total",
		Help: "Number of database statements slower than the configured threshold",
	},
	[]string{"operation"},
)

// PoolStats is a point-in-time snapshot of connection pool counters.
type PoolStats struct {
	Acquired         int32
	Idle             int32
	Total            int32
	Max              int32
	AcquireCount     int64
	AcquireDuration  time.Duration
	CanceledAcquires int64
	EmptyAcquires    int64
	NewConns         int64
}

// StatsOf returns a snapshot function reading pool.Stat.
func StatsOf(pool *pgxpool.Pool) func() PoolStats {
	return func() PoolStats {
		s := pool.Stat()
		return PoolStats{
			Acquired:         s.AcquiredConns(),
			Idle:             s.IdleConns(),
			Total:            s.TotalConns(),
			Max:              s.MaxConns(),
			AcquireCount:     s.AcquireCount(),
			AcquireDuration:  s.AcquireDuration(),
			CanceledAcquires: s.CanceledAcquireCount(),
			EmptyAcquires:    s.EmptyAcquireCount(),
			NewConns:         s.NewConnsCount(),
		}
	}
}

type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(PoolStats) float64
}

// PoolStatsCollector implements prometheus.Collector for connection pool
// statistics. Values are read on every scrape.
type PoolStatsCollector struct {
	stats   func() PoolStats
	service string
	metrics []poolMetric
}

// NewPoolStatsCollector creates a collector exporting the snapshots returned
// by stats, labelled with service.
func NewPoolStatsCollector(stats func() PoolStats, service string) *PoolStatsCollector {
	labels := []string{"service"}
	gauge := func(name, help string, v func(PoolStats) float64) poolMetric {
		return poolMetric{prometheus.NewDesc(name, help, labels, nil), prometheus.GaugeValue, v}
	}
	counter := func(name, help string, v func(PoolStats) float64) poolMetric {
		return poolMetric{prometheus.NewDesc(name, help, labels, nil), prometheus.CounterValue, v}
	}

	return &PoolStatsCollector{
		stats:   stats,
		service: service,
		metrics: []poolMetric{
			gauge("db_pool_acquired_connections", "Number of currently acquired connections",
				func(s PoolStats) float64 { return float64(s.Acquired) }),
			gauge("db_pool_idle_connections", "Number of currently idle connections",
				func(s PoolStats) float64 { return float64(s.Idle) }),
			gauge("db_pool_total_connections", "Total number of connections in the pool",
				func(s PoolStats) float64 { return float64(s.Total) }),
			gauge("db_pool_max_connections", "Maximum number of connections allowed",
				func(s PoolStats) float64 { return float64(s.Max) }),
			counter("db_pool_acquire_count_total", "Total number of connection acquires",
				func(s PoolStats) float64 { return float64(s.AcquireCount) }),
			counter("db_pool_acquire_duration_seconds_total", "Total time spent acquiring connections in seconds",
				func(s PoolStats) float64 { return s.AcquireDuration.Seconds() }),
			counter("db_pool_canceled_acquire_count_total", "Total number of canceled connection acquires",
				func(s PoolStats) float64 { return float64(s.CanceledAcquires) }),
			counter("db_pool_empty_acquire_count_total", "Total number of acquires that had to wait for a connection",
				func(s PoolStats) float64 { return float64(s.EmptyAcquires) }),
			counter("db_pool_new_connections_total", "Total number of new connections created",
				func(s PoolStats) float64 { return float64(s.NewConns) }),
		},
	}
}

// Describe sends the descriptors of all metrics to the provided channel.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect reads current pool statistics and sends them as Prometheus metrics.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.stats()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(stat), c.service)
	}
}

// RegisterPoolMetrics creates and registers a pgxpool metrics collector with
// the default Prometheus registry.
func RegisterPoolMetrics(pool *pgxpool.Pool, service string) {
	prometheus.MustRegister(NewPoolStatsCollector(StatsOf(pool), service))
}
