package service

import (
	"errors"
	"fmt"
)

// User facing messages
const (
	MsgConnectivity     = "Failed to connect to server. Make sure the prediction service is running."
	MsgLocationsFailed  = "Failed to load locations"
	MsgPredictionFailed = "Prediction failed"
)

// ErrorKind classifies errors shown by the form
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindConnectivity ErrorKind = "connectivity"
	KindService      ErrorKind = "service"
	KindValidation   ErrorKind = "validation"
	KindUnknown      ErrorKind = "unknown"
)

// ErrSubmitInFlight is returned when a submission is attempted while another
// one is still waiting for the prediction service.
var ErrSubmitInFlight = errors.New("a prediction request is already in flight")

// ConnectivityError reports that the prediction service could not be reached
// or answered with something unreadable.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: cannot reach prediction service: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ServiceError reports a reachable service answering with a non-success status.
type ServiceError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	return fmt.Sprintf("%s: service returned status %q (HTTP %d): %s", e.Op, e.Status, e.StatusCode, msg)
}

// ValidationError reports invalid form input. No request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// KindOf classifies err for display.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var connErr *ConnectivityError
	var svcErr *ServiceError
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &svcErr):
		return KindService
	case errors.As(err, &connErr):
		return KindConnectivity
	default:
		return KindUnknown
	}
}

// UserMessage returns the text the form displays for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var connErr *ConnectivityError
	var svcErr *ServiceError
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &svcErr):
		if svcErr.Op == opLocations {
			return MsgLocationsFailed
		}
		if svcErr.Message != "" {
			return svcErr.Message
		}
		return MsgPredictionFailed
	case errors.As(err, &connErr):
		return MsgConnectivity
	default:
		return err.Error()
	}
}
