package model

// StatusSuccess is the status the prediction service reports on success
const StatusSuccess = "success"

// PredictionRequest represents the body of POST /predict_home_price
type PredictionRequest struct {
	TotalSqft float64 `json:"total_sqft"`
	Location  string  `json:"location"`
	BHK       int     `json:"bhk"`
	Bath      int     `json:"bath"`
}

// PredictionResult represents an estimate returned by the prediction service
type PredictionResult struct {
	EstimatedPrice float64 `json:"estimated_price"` // lakhs of rupees
}

// LocationsResponse represents the response of GET /get_location_names
type LocationsResponse struct {
	Status         string   `json:"status"`
	TotalLocations int      `json:"total_locations,omitempty"`
	Locations      []string `json:"locations"`
	Message        string   `json:"message,omitempty"`
}

// PredictResponse represents the response of POST /predict_home_price
type PredictResponse struct {
	Status         string             `json:"status"`
	EstimatedPrice float64            `json:"estimated_price"`
	Currency       string             `json:"currency,omitempty"`
	Message        string             `json:"message,omitempty"`
	Input          *PredictionRequest `json:"input,omitempty"`
}

// ServiceInfo represents the response of the prediction service's GET /
type ServiceInfo struct {
	Message        string `json:"message"`
	Status         string `json:"status"`
	Version        string `json:"version"`
	TotalLocations int    `json:"total_locations"`
}
