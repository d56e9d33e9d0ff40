package bersim

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SweepMetrics holds the Prometheus collectors updated by a SweepDriver.
// A nil *SweepMetrics is valid and records nothing.
type SweepMetrics struct {
	trials        *prometheus.CounterVec   // Trials completed, by scheme
	trialDuration *prometheus.HistogramVec // Wall time per trial, by scheme
	ber           *prometheus.GaugeVec     // Latest BER, by scheme and step
	sweeps        *prometheus.CounterVec   // Sweeps finished, by scheme and result
}

// NewSweepMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	var factory = promauto.With(reg)

	return &SweepMetrics{
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bersim_trials_total",
			Help: "Number of modulate/channel/demodulate trials completed",
		}, []string{"scheme"}),
		trialDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bersim_trial_duration_seconds",
			Help:    "Time taken by a single trial",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"scheme"}),
		ber: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bersim_ber",
			Help: "Bit error rate of the most recent sweep at each Eb/No step",
		}, []string{"scheme", "step"}),
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bersim_sweeps_total",
			Help: "Number of sweeps finished",
		}, []string{"scheme", "result"}),
	}
}

func (m *SweepMetrics) trialFinished(scheme string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.trials.WithLabelValues(scheme).Inc()
	m.trialDuration.WithLabelValues(scheme).Observe(elapsed.Seconds())
}

func (m *SweepMetrics) stepFinished(scheme string, step int, ber float64) {
	if m == nil {
		return
	}

	m.ber.WithLabelValues(scheme, strconv.Itoa(step)).Set(ber)
}

func (m *SweepMetrics) sweepFinished(scheme string, ok bool) {
	if m == nil {
		return
	}

	var result = "ok"
	if !ok {
		result = "failed"
	}

	m.sweeps.WithLabelValues(scheme, result).Inc()
}
