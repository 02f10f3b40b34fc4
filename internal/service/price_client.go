package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"homeprice/internal/config"
	"homeprice/internal/logger"
	"homeprice/internal/model"
)

const (
	opLocations = "get_location_names"
	opPredict   = "predict_home_price"
	opInfo      = "info"
)

// PriceEstimator is the prediction service as seen by the form
type PriceEstimator interface {
	// LocationNames returns the known locations in service order
	LocationNames(ctx context.Context) ([]string, error)

	// EstimatePrice returns the estimated price in lakhs for req
	EstimatePrice(ctx context.Context, req model.PredictionRequest) (*model.PredictionResult, error)
}

// PriceClient talks JSON over HTTP to the prediction service
type PriceClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// Ensure PriceClient implements PriceEstimator
var _ PriceEstimator = (*PriceClient)(nil)

// NewPriceClient creates a client for the service at cfg.BaseURL. Calls are
// made once, without retries; cfg.Timeout of zero leaves them unbounded.
func NewPriceClient(cfg *config.APIConfig) *PriceClient {
	return &PriceClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger.New("price-client"),
	}
}

// BaseURL returns the origin of the prediction service
func (c *PriceClient) BaseURL() string {
	return c.baseURL
}

// LocationNames performs GET /get_location_names
func (c *PriceClient) LocationNames(ctx context.Context) ([]string, error) {
	var resp model.LocationsResponse
	code, err := c.do(ctx, opLocations, http.MethodGet, "/get_location_names", nil, &resp)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) || resp.Status != model.StatusSuccess {
		return nil, &ServiceError{Op: opLocations, StatusCode: code, Status: resp.Status, Message: resp.Message}
	}

	locations := resp.Locations
	if locations == nil {
		locations = []string{}
	}
	c.log.Debugf("fetched %d locations", len(locations))
	return locations, nil
}

// EstimatePrice performs POST /predict_home_price
func (c *PriceClient) EstimatePrice(ctx context.Context, req model.PredictionRequest) (*model.PredictionResult, error) {
	var resp model.PredictResponse
	code, err := c.do(ctx, opPredict, http.MethodPost, "/predict_home_price", req, &resp)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) || resp.Status != model.StatusSuccess {
		return nil, &ServiceError{Op: opPredict, StatusCode: code, Status: resp.Status, Message: resp.Message}
	}

	c.log.Debugf("estimated %.2f lakhs for %s (%.0f sqft, %d bhk, %d bath)",
		resp.EstimatedPrice, req.Location, req.TotalSqft, req.BHK, req.Bath)
	return &model.PredictionResult{EstimatedPrice: resp.EstimatedPrice}, nil
}

// Info performs GET / and returns the service's self description
func (c *PriceClient) Info(ctx context.Context) (*model.ServiceInfo, error) {
	var info model.ServiceInfo
	code, err := c.do(ctx, opInfo, http.MethodGet, "/", nil, &info)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) {
		return nil, &ServiceError{Op: opInfo, StatusCode: code, Status: info.Status, Message: info.Message}
	}
	return &info, nil
}

// do sends one request and decodes the JSON body into out. Transport
// failures, unreadable bodies and undecodable success bodies are returned as
// *ConnectivityError; the HTTP status is left for the caller to judge.
func (c *PriceClient) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warnf("%s %s failed: %v", method, path, err)
		return 0, &ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &ConnectivityError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		if isSuccess(resp.StatusCode) {
			return resp.StatusCode, &ConnectivityError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		// Error pages without a JSON body still count as a service answer.
		c.log.Warnf("%s %s returned HTTP %d with a non-JSON body", method, path, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
