package eikonal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes propagation progress as prometheus collectors. A batch run
// typically registers them on a private registry and writes it out with
// prometheus.WriteToTextfile when the solve finishes.
type Metrics struct {
	Sweeps      prometheus.Counter
	LocalSolves prometheus.Counter
	Activations prometheus.Counter
	Settled     prometheus.Counter
	ActiveNodes prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Sweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofim_sweeps_total",
			Help: "Number of non-empty sweeps over the active list.",
		}),
		LocalSolves: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofim_local_solves_total",
			Help: "Number of local Hopf-Lax updates evaluated.",
		}),
		Activations: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofim_activations_total",
			Help: "Number of nodes added to the active list, including the initial seeds.",
		}),
		Settled: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofim_settled_total",
			Help: "Number of nodes removed from the active list on convergence.",
		}),
		ActiveNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gofim_active_nodes",
			Help: "Current size of the active list.",
		}),
	}
}

func (mt *Metrics) observeSweep(solves, settled, activated, active int) {
	if mt == nil {
		return
	}
	mt.Sweeps.Inc()
	mt.LocalSolves.Add(float64(solves))
	mt.Settled.Add(float64(settled))
	mt.Activations.Add(float64(activated))
	mt.ActiveNodes.Set(float64(active))
}

func (mt *Metrics) observeSeed(activated int) {
	if mt == nil {
		return
	}
	mt.Activations.Add(float64(activated))
	mt.ActiveNodes.Set(float64(activated))
}
