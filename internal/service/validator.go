package service

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"homeprice/internal/model"
)

// MaxRooms is the largest bedroom or bathroom count accepted
const MaxRooms = 20

// Validation messages
const (
	MsgFillAllFields   = "Please fill all fields"
	MsgInvalidNumbers  = "Please enter valid numbers"
	MsgNotPositive     = "All values must be positive numbers"
	MsgNotWhole        = "BHK and bathrooms must be whole numbers"
	MsgTooManyRooms    = "BHK and bathrooms must be at most 20"
	MsgUnknownLocation = "Please select a location from the list"
)

// FieldValidator turns raw form input into a prediction request
type FieldValidator struct{}

// NewFieldValidator creates a new field validator
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{}
}

// Validate checks input against the known locations. It has no side effects;
// on failure the returned error is a *ValidationError naming the first
// offending field.
func (v *FieldValidator) Validate(input model.FormInput, locations []string) (model.PredictionRequest, error) {
	location := strings.TrimSpace(input.Location)
	fields := []struct {
		name  string
		value string
	}{
		{"location", location},
		{"sqft", strings.TrimSpace(input.Sqft)},
		{"bhk", strings.TrimSpace(input.BHK)},
		{"bath", strings.TrimSpace(input.Bath)},
	}
	for _, f := range fields {
		if f.value == "" {
			return model.PredictionRequest{}, &ValidationError{Field: f.name, Message: MsgFillAllFields}
		}
	}

	if !slices.Contains(locations, location) {
		return model.PredictionRequest{}, &ValidationError{Field: "location", Message: MsgUnknownLocation}
	}

	values := make([]float64, 0, 3)
	for _, f := range fields[1:] {
		n, err := strconv.ParseFloat(f.value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return model.PredictionRequest{}, &ValidationError{Field: f.name, Message: MsgInvalidNumbers}
		}
		values = append(values, n)
	}
	sqft, bhk, bath := values[0], values[1], values[2]

	for i, n := range values {
		if n <= 0 {
			return model.PredictionRequest{}, &ValidationError{Field: fields[i+1].name, Message: MsgNotPositive}
		}
	}
	if bhk != math.Trunc(bhk) {
		return model.PredictionRequest{}, &ValidationError{Field: "bhk", Message: MsgNotWhole}
	}
	if bath != math.Trunc(bath) {
		return model.PredictionRequest{}, &ValidationError{Field: "bath", Message: MsgNotWhole}
	}
	if bhk > MaxRooms {
		return model.PredictionRequest{}, &ValidationError{Field: "bhk", Message: MsgTooManyRooms}
	}
	if bath > MaxRooms {
		return model.PredictionRequest{}, &ValidationError{Field: "bath", Message: MsgTooManyRooms}
	}

	return model.PredictionRequest{
		TotalSqft: sqft,
		Location:  location,
		BHK:       int(bhk),
		Bath:      int(bath),
	}, nil
}
