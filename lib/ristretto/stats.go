package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ristrettoStats = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "ristretto_stats",
	Help: "Metrics for ristretto caches",
}, []string{"name", "metric"})

// NewCache creates a cache holding up to maxCost bytes of entries, with
// metrics on so that Report has something to report.
func NewCache(maxCost int64) (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		// ten counters per entry, assuming entries of about 100 bytes
		NumCounters: maxCost / 10,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
}

func Report(name string, c *ristretto.Cache) {
	ristrettoStats.WithLabelValues(name, "hits").Set(float64(c.Metrics.Hits()))
	ristrettoStats.WithLabelValues(name, "misses").Set(float64(c.Metrics.Misses()))
	ristrettoStats.WithLabelValues(name, "ratio").Set(c.Metrics.Ratio())

	ristrettoStats.WithLabelValues(name, "sets_dropped").Set(float64(c.Metrics.SetsDropped()))
	ristrettoStats.WithLabelValues(name, "sets_rejected").Set(float64(c.Metrics.SetsRejected()))

	ristrettoStats.WithLabelValues(name, "cost_added").Set(float64(c.Metrics.CostAdded()))
	ristrettoStats.WithLabelValues(name, "cost_evicted").Set(float64(c.Metrics.CostEvicted()))
	ristrettoStats.WithLabelValues(name, "size").Set(float64(c.Metrics.CostAdded() - c.Metrics.CostEvicted()))
}

// ReportPeriodically calls Report every period until ctx is done.
func ReportPeriodically(ctx context.Context, name string, c *ristretto.Cache, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			Report(name, c)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
