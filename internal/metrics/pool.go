package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/matcalc/internal/matrix"
)

// PoolCollector exports the statistics of a matrix pool. Values are read at
// scrape time.
type PoolCollector struct {
	pool        *matrix.Pool
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	allocated   *prometheus.Desc
	limit       *prometheus.Desc
	outstanding *prometheus.Desc
}

// NewPoolCollector returns a collector for pool.
func NewPoolCollector(pool *matrix.Pool) *PoolCollector {
	return &PoolCollector{
		pool:        pool,
		hits:        prometheus.NewDesc("matcalc_pool_hits_total", "Pool acquisitions served from a retained buffer.", nil, nil),
		misses:      prometheus.NewDesc("matcalc_pool_misses_total", "Pool acquisitions that allocated.", nil, nil),
		allocated:   prometheus.NewDesc("matcalc_pool_allocated_bytes", "Bytes allocated by the pool.", nil, nil),
		limit:       prometheus.NewDesc("matcalc_pool_limit_bytes", "Allocation budget of the pool, 0 when unlimited.", nil, nil),
		outstanding: prometheus.NewDesc("matcalc_pool_outstanding", "Buffers acquired and not yet released.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.allocated
	ch <- c.limit
	ch <- c.outstanding
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.GaugeValue, float64(s.AllocatedBytes))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(s.Limit))
	ch <- prometheus.MustNewConstMetric(c.outstanding, prometheus.GaugeValue, float64(s.TotalOutstanding()))
}
