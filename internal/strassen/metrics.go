package strassen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	multiplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcalc_multiplications_total",
			Help: "The total number of matrix multiplications processed",
		},
		[]string{"algorithm", "status"},
	)
	multiplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcalc_multiplication_duration_seconds",
			Help:    "The duration of matrix multiplications in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"algorithm"},
	)
	branchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcalc_strassen_branches_total",
			Help: "Strassen products by how they were dispatched",
		},
		[]string{"mode"},
	)
	poolRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcalc_pool_requests_total",
			Help: "Matrix pool acquisitions by outcome",
		},
		[]string{"result"},
	)
	peakDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matcalc_strassen_peak_depth",
		Help: "Peak number of recursive Strassen frames in flight during the last multiplication",
	})
)

const (
	modeSequential = "sequential"
	modeSpawned    = "spawned"
	modeInline     = "inline"
)
