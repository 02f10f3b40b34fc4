package model

// FormInput holds the raw field values as typed by the user
type FormInput struct {
	Location string `json:"location" form:"location"`
	Sqft     string `json:"sqft" form:"sqft"`
	BHK      string `json:"bhk" form:"bhk"`
	Bath     string `json:"bath" form:"bath"`
}

// Estimate is a displayed prediction together with the request it answers
type Estimate struct {
	PredictionResult
	Request PredictionRequest `json:"request"`
}

// FormState is a snapshot of the prediction form's view state.
// At most one of Estimate and Error is set.
type FormState struct {
	Locations        []string  `json:"locations"`
	LocationsLoading bool      `json:"locations_loading"`
	Loading          bool      `json:"loading"`
	Fields           FormInput `json:"fields"`
	Estimate         *Estimate `json:"estimate,omitempty"`
	Error            string    `json:"error,omitempty"`
	ErrorKind        string    `json:"error_kind,omitempty"`
}

// Usable reports whether the form can be submitted
func (s FormState) Usable() bool {
	return !s.LocationsLoading && len(s.Locations) > 0
}
