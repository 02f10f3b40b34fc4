package handler

import (
	"strconv"

	"homeprice/internal/model"
	"homeprice/internal/service"
	"homeprice/internal/utils"
)

// locationOption is one entry of the location select
type locationOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// estimateView holds the formatted estimate shown in the result card
type estimateView struct {
	Lakhs         string `json:"lakhs"`
	Rupees        string `json:"rupees"`
	Locale        string `json:"locale"`
	LocationLabel string `json:"location_label"`
	Sqft          string `json:"sqft"`
	BHK           int    `json:"bhk"`
	Bath          int    `json:"bath"`
}

// pageView is the data of index.tmpl
type pageView struct {
	State    model.FormState
	Usable   bool
	Options  []locationOption
	Estimate *estimateView
	MaxRooms int
	Version  string
}

// formResponse is the body of every /api/v1/form response
type formResponse struct {
	State   model.FormState  `json:"state"`
	Options []locationOption `json:"options"`
	Display *estimateView    `json:"display,omitempty"`
}

func newEstimateView(e *model.Estimate, f *utils.PriceFormatter) *estimateView {
	if e == nil {
		return nil
	}
	return &estimateView{
		Lakhs:         f.Lakhs(e.EstimatedPrice),
		Rupees:        f.Rupees(e.EstimatedPrice),
		Locale:        f.Locale(),
		LocationLabel: utils.LocationLabel(e.Request.Location),
		Sqft:          strconv.FormatFloat(e.Request.TotalSqft, 'f', -1, 64),
		BHK:           e.Request.BHK,
		Bath:          e.Request.Bath,
	}
}

func newLocationOptions(state model.FormState) []locationOption {
	options := make([]locationOption, 0, len(state.Locations))
	for _, loc := range state.Locations {
		options = append(options, locationOption{
			Value:    loc,
			Label:    utils.LocationLabel(loc),
			Selected: loc == state.Fields.Location,
		})
	}
	return options
}

func newPageView(state model.FormState, f *utils.PriceFormatter, version string) pageView {
	return pageView{
		State:    state,
		Usable:   state.Usable(),
		Options:  newLocationOptions(state),
		Estimate: newEstimateView(state.Estimate, f),
		MaxRooms: service.MaxRooms,
		Version:  version,
	}
}

func newFormResponse(state model.FormState, f *utils.PriceFormatter) formResponse {
	return formResponse{
		State:   state,
		Options: newLocationOptions(state),
		Display: newEstimateView(state.Estimate, f),
	}
}
