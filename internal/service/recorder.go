package service

import "time"

// Outcomes reported to a Recorder
const (
	OutcomeSuccess           = "success"
	OutcomeValidationError   = "validation_error"
	OutcomeServiceError      = "service_error"
	OutcomeConnectivityError = "connectivity_error"
)

// Recorder receives form events for metrics
type Recorder interface {
	ObserveLocationLoad(outcome string)
	ObservePrediction(outcome string, took time.Duration)
}

// NopRecorder discards all events
type NopRecorder struct{}

func (NopRecorder) ObserveLocationLoad(string)               {}
func (NopRecorder) ObservePrediction(string, time.Duration) {}

// OutcomeOf maps an operation error to its recorded outcome
func OutcomeOf(err error) string {
	switch KindOf(err) {
	case KindNone:
		return OutcomeSuccess
	case KindValidation:
		return OutcomeValidationError
	case KindService:
		return OutcomeServiceError
	default:
		return OutcomeConnectivityError
	}
}
