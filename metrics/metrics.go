// Package metrics: the collector capability and its implementations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives solver and cache events. Implementations must be
// cheap: the solver calls these inside its outer loop.
type Collector interface {
	// SolveStarted marks the beginning of a steady solve.
	SolveStarted()

	// SolveFinished reports a completed solve: outer iteration count,
	// wall duration, and the error (nil on success).
	SolveFinished(iterations int, d time.Duration, err error)

	// CacheHit reports a transient-engine solution-cache hit.
	CacheHit()

	// CacheMiss reports a transient-engine solution-cache miss.
	CacheMiss()
}

type nop struct{}

func (nop) SolveStarted()                             {}
func (nop) SolveFinished(int, time.Duration, error)   {}
func (nop) CacheHit()                                 {}
func (nop) CacheMiss()                                {}

// Nop returns a collector that discards everything. The default for all
// solver and engine options.
func Nop() Collector { return nop{} }

// Prometheus is a Collector backed by prometheus counters and histograms.
type Prometheus struct {
	solves     *prometheus.CounterVec
	cacheEvts  *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
}

// NewPrometheus builds a collector and registers its metrics on reg.
// Panics (via MustRegister) on duplicate registration, matching the
// usual prometheus contract.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thermoflow_solves_total",
			Help: "Steady solves by outcome.",
		}, []string{"outcome"}),
		cacheEvts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thermoflow_cache_events_total",
			Help: "Transient solution-cache events by kind.",
		}, []string{"kind"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "thermoflow_solve_iterations",
			Help:    "Outer-loop iterations per steady solve.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "thermoflow_solve_duration_seconds",
			Help:    "Wall time per steady solve.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
	reg.MustRegister(p.solves, p.cacheEvts, p.iterations, p.duration)

	return p
}

// SolveStarted is a no-op; outcome counting happens at SolveFinished.
func (p *Prometheus) SolveStarted() {}

// SolveFinished records the outcome, iteration count and duration.
func (p *Prometheus) SolveFinished(iterations int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.solves.WithLabelValues(outcome).Inc()
	p.iterations.Observe(float64(iterations))
	p.duration.Observe(d.Seconds())
}

// CacheHit increments the hit counter.
func (p *Prometheus) CacheHit() { p.cacheEvts.WithLabelValues("hit").Inc() }

// CacheMiss increments the miss counter.
func (p *Prometheus) CacheMiss() { p.cacheEvts.WithLabelValues("miss").Inc() }
