package astar

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by an Engine.
//
// Metrics exposed (all namespaced with "astar_"):
//
//   - expansions_total (counter): nodes popped and expanded.
//   - candidates_total (counter): sampled controls by outcome
//     (rejected, dominated, enqueued, superseded).
//   - open_set_size (gauge): entries in the open set, stale ones included.
//   - discovered_cells (gauge): distinct discretization keys seen.
//   - plans_total (counter): finished plans by result
//     (converged, unreachable, cancelled).
//   - trajectory_waypoints (histogram): length of converged trajectories.
//
// A nil *Metrics records nothing.
type Metrics struct {
	expansions      prometheus.Counter
	candidates      *prometheus.CounterVec
	openSetSize     prometheus.Gauge
	discoveredCells prometheus.Gauge
	plans           *prometheus.CounterVec
	waypoints       prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them with registry.
// A nil registry selects prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		expansions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "expansions_total",
			Help:      "Search nodes popped from the open set and expanded",
		}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "candidates_total",
			Help:      "Sampled controls processed during expansion, by outcome",
		}, []string{"outcome"}),
		openSetSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "astar",
			Name:      "open_set_size",
			Help:      "Entries currently held in the open set, including superseded ones",
		}),
		discoveredCells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "astar",
			Name:      "discovered_cells",
			Help:      "Distinct discretization cells reached by the current search",
		}),
		plans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "plans_total",
			Help:      "Finished planning calls, by result",
		}, []string{"result"}),
		waypoints: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astar",
			Name:      "trajectory_waypoints",
			Help:      "Number of waypoints in converged trajectories",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

func (metrics *Metrics) observeExpansion() {
	if metrics == nil {
		return
	}
	metrics.expansions.Inc()
}

func (metrics *Metrics) observeCandidate(outcome candidateOutcome) {
	if metrics == nil {
		return
	}
	metrics.candidates.WithLabelValues(outcome.String()).Inc()
}

func (metrics *Metrics) observeSizes(openSetSize int, discoveredCells int) {
	if metrics == nil {
		return
	}
	metrics.openSetSize.Set(float64(openSetSize))
	metrics.discoveredCells.Set(float64(discoveredCells))
}

func (metrics *Metrics) observePlan(result string, waypoints int) {
	if metrics == nil {
		return
	}
	metrics.plans.WithLabelValues(result).Inc()
	if result == resultConverged {
		metrics.waypoints.Observe(float64(waypoints))
	}
}
