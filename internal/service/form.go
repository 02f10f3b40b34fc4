package service

import (
	"context"
	"sync"
	"time"

	"homeprice/internal/logger"
	"homeprice/internal/model"
)

// PredictionForm owns the view state of one prediction form: the location
// list, the field values, the loading flags and the displayed estimate or
// error. Its methods may be called from several goroutines; the lock is
// never held across a call to the prediction service.
type PredictionForm struct {
	estimator PriceEstimator
	validator *FieldValidator
	recorder  Recorder
	log       logger.Logger

	mu    sync.Mutex
	state model.FormState
}

// FormOption configures a PredictionForm
type FormOption func(*PredictionForm)

// WithFormLogger replaces the form's logger
func WithFormLogger(l logger.Logger) FormOption {
	return func(f *PredictionForm) {
		f.log = l
	}
}

// NewPredictionForm creates an empty form. Call Load to fetch the locations.
func NewPredictionForm(estimator PriceEstimator, recorder Recorder, opts ...FormOption) *PredictionForm {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	f := &PredictionForm{
		estimator: estimator,
		validator: NewFieldValidator(),
		recorder:  recorder,
		log:       logger.New("prediction-form"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load fetches the location list once and selects the first location. On
// failure the form has no locations and shows the error until Load is called
// again.
func (f *PredictionForm) Load(ctx context.Context) error {
	f.mu.Lock()
	f.state.LocationsLoading = true
	f.mu.Unlock()

	locations, err := f.estimator.LocationNames(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.LocationsLoading = false
	f.recorder.ObserveLocationLoad(OutcomeOf(err))
	if err != nil {
		f.log.Errorf("loading locations failed: %v", err)
		f.state.Locations = nil
		f.state.Fields.Location = ""
		f.setErrorLocked(err)
		return err
	}

	f.state.Locations = locations
	f.state.Fields.Location = firstOrEmpty(locations)
	f.state.Estimate = nil
	f.state.Error = ""
	f.state.ErrorKind = ""
	f.log.Infof("loaded %d locations", len(locations))
	return nil
}

// Submit validates input and, when valid, requests one estimate. Any
// previous estimate or error is cleared first. While a request is in flight
// further submissions return ErrSubmitInFlight and change nothing.
func (f *PredictionForm) Submit(ctx context.Context, input model.FormInput) (*model.PredictionResult, error) {
	f.mu.Lock()
	if f.state.Loading {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.state.Fields = input
	f.state.Estimate = nil
	f.state.Error = ""
	f.state.ErrorKind = ""

	req, err := f.validator.Validate(input, f.state.Locations)
	if err != nil {
		f.setErrorLocked(err)
		f.mu.Unlock()
		f.recorder.ObservePrediction(OutcomeValidationError, 0)
		return nil, err
	}
	f.state.Loading = true
	f.mu.Unlock()

	start := time.Now()
	result, err := f.estimator.EstimatePrice(ctx, req)
	took := time.Since(start)
	f.recorder.ObservePrediction(OutcomeOf(err), took)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Loading = false
	if err != nil {
		f.log.Warnf("prediction for %s failed after %s: %v", req.Location, took, err)
		f.state.Estimate = nil
		f.setErrorLocked(err)
		return nil, err
	}

	f.state.Estimate = &model.Estimate{PredictionResult: *result, Request: req}
	f.state.Error = ""
	f.state.ErrorKind = ""
	return result, nil
}

// Reset clears the numeric fields, the estimate and the error, and selects
// the first location again. A request in flight is not affected and its
// answer is still applied when it arrives.
func (f *PredictionForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Fields = model.FormInput{Location: firstOrEmpty(f.state.Locations)}
	f.state.Estimate = nil
	f.state.Error = ""
	f.state.ErrorKind = ""
}

// State returns a copy of the current view state
func (f *PredictionForm) State() model.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	if f.state.Locations != nil {
		s.Locations = append([]string(nil), f.state.Locations...)
	}
	if f.state.Estimate != nil {
		e := *f.state.Estimate
		s.Estimate = &e
	}
	return s
}

func (f *PredictionForm) setErrorLocked(err error) {
	f.state.Estimate = nil
	f.state.Error = UserMessage(err)
	f.state.ErrorKind = string(KindOf(err))
}

func firstOrEmpty(locations []string) string {
	if len(locations) == 0 {
		return ""
	}
	return locations[0]
}
