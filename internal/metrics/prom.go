// Package metrics exposes form activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records location loads and prediction submissions in
// Prometheus collectors. It implements service.Recorder.
type PromRecorder struct {
	loads       *prometheus.CounterVec
	predictions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPromRecorder registers the form metrics on reg. If reg is nil the
// default registerer is used. Collectors that are already registered are
// reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "homeprice_location_loads_total",
		Help: "Location list fetches by outcome",
	}, []string{"outcome"})
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "homeprice_predictions_total",
		Help: "Prediction submissions by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homeprice_prediction_duration_seconds",
		Help:    "Time spent waiting for the prediction service",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	var err error
	if loads, err = register(reg, loads); err != nil {
		return nil, err
	}
	if predictions, err = register(reg, predictions); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &PromRecorder{loads: loads, predictions: predictions, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveLocationLoad counts one location list fetch
func (r *PromRecorder) ObserveLocationLoad(outcome string) {
	r.loads.WithLabelValues(outcome).Inc()
}

// ObservePrediction counts one submission. Submissions rejected before any
// request was sent are not timed.
func (r *PromRecorder) ObservePrediction(outcome string, took time.Duration) {
	r.predictions.WithLabelValues(outcome).Inc()
	if took > 0 {
		r.duration.WithLabelValues(outcome).Observe(took.Seconds())
	}
}
