// Package metrics exposes Prometheus instruments for the ledger and the
// settlement scanner. All Recorder methods are nil-receiver safe so wiring
// can stay optional in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Recorder struct {
	wagersPlaced  prometheus.Counter
	wagersSettled *prometheus.CounterVec
	scanDuration  prometheus.Histogram
	scanErrors    prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		wagersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propledger_wagers_placed_total",
			Help: "Wagers successfully placed.",
		}),
		wagersSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_wagers_settled_total",
			Help: "Wagers settled, by outcome.",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "propledger_settlement_scan_seconds",
			Help:    "Duration of settlement scans.",
			Buckets: prometheus.DefBuckets,
		}),
		scanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propledger_settlement_scan_errors_total",
			Help: "Per-game errors recorded during settlement scans.",
		}),
	}

	reg.MustRegister(r.wagersPlaced, r.wagersSettled, r.scanDuration, r.scanErrors)

	return r
}

func (r *Recorder) WagerPlaced() {
	if r == nil {
		return
	}
	r.wagersPlaced.Inc()
}

func (r *Recorder) WagerSettled(outcome string) {
	if r == nil {
		return
	}
	r.wagersSettled.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ScanCompleted(d time.Duration, gameErrors int) {
	if r == nil {
		return
	}
	r.scanDuration.Observe(d.Seconds())
	r.scanErrors.Add(float64(gameErrors))
}
