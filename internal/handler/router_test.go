package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeprice/internal/config"
	"homeprice/internal/model"
	"homeprice/internal/service"
	"homeprice/internal/utils"
)

type upstream struct {
	*httptest.Server
	predictCalls atomic.Int32
}

func newUpstream(t *testing.T, locations []string, predict func(model.PredictionRequest) (int, model.PredictResponse)) *upstream {
	t.Helper()
	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/get_location_names", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.LocationsResponse{
			Status:         model.StatusSuccess,
			TotalLocations: len(locations),
			Locations:      locations,
		})
	})
	mux.HandleFunc("/predict_home_price", func(w http.ResponseWriter, r *http.Request) {
		u.predictCalls.Add(1)
		var req model.PredictionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		code, resp := predict(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.ServiceInfo{Status: "running", Version: "1.0", TotalLocations: len(locations)})
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func fixedPrice(price float64) func(model.PredictionRequest) (int, model.PredictResponse) {
	return func(req model.PredictionRequest) (int, model.PredictResponse) {
		return http.StatusOK, model.PredictResponse{Status: model.StatusSuccess, EstimatedPrice: price, Input: &req}
	}
}

func newTestServer(t *testing.T, baseURL string) (*httptest.Server, *service.SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := service.NewPriceClient(&config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
	sessions := service.NewSessionStore(func() *service.PredictionForm {
		return service.NewPredictionForm(client, nil)
	}, time.Minute)
	formatter := utils.NewPriceFormatter("en-IN")

	router, err := NewRouter(RouterOptions{
		Form:           NewFormHandler(sessions, client, formatter, "hpp_session", time.Minute, "test"),
		Health:         NewHealthHandler(client, sessions, BuildInfo{Version: "test"}),
		AllowedOrigins: "*",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, sessions
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func postJSON(t *testing.T, client *http.Client, target string, body any) (int, formResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(target, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestFormPages_PredictFlow(t *testing.T) {
	up := newUpstream(t, []string{"whitefield", "indiranagar"}, fixedPrice(85.4))
	srv, sessions := newTestServer(t, up.URL)
	browser := newBrowser(t)

	resp, err := browser.Get(srv.URL + "/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `value="whitefield" selected`)
	assert.Contains(t, page, "Indiranagar")
	assert.Equal(t, 1, sessions.Len())

	resp, err = browser.PostForm(srv.URL+"/predict", url.Values{
		"location": {"indiranagar"},
		"sqft":     {"1000"},
		"bhk":      {"2"},
		"bath":     {"2"},
	})
	require.NoError(t, err)
	page = readBody(t, resp)

	// The redirect lands back on the page with the estimate.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, page, "₹ 85.4")
	assert.Contains(t, page, utils.NewPriceFormatter("en-IN").Rupees(85.4))
	assert.NotContains(t, page, `class="error-message"`)
	assert.EqualValues(t, 1, up.predictCalls.Load())
	assert.Equal(t, 1, sessions.Len())

	resp, err = browser.PostForm(srv.URL+"/reset", url.Values{})
	require.NoError(t, err)
	page = readBody(t, resp)
	assert.NotContains(t, page, "₹ 85.4")
	assert.Contains(t, page, `value="whitefield" selected`)
}

func TestFormPages_ValidationNeverCallsService(t *testing.T) {
	up := newUpstream(t, []string{"whitefield"}, fixedPrice(10))
	srv, _ := newTestServer(t, up.URL)
	browser := newBrowser(t)

	resp, err := browser.PostForm(srv.URL+"/predict", url.Values{
		"location": {"whitefield"},
		"sqft":     {"-5"},
		"bhk":      {"2"},
		"bath":     {"2"},
	})
	require.NoError(t, err)
	page := readBody(t, resp)

	assert.Contains(t, page, service.MsgNotPositive)
	assert.Zero(t, up.predictCalls.Load())
}

func TestFormPages_UpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	srv, _ := newTestServer(t, downURL)
	browser := newBrowser(t)

	resp, err := browser.Get(srv.URL + "/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Contains(t, page, service.MsgConnectivity)
	assert.NotContains(t, page, `name="sqft"`)
}

func TestFormAPI(t *testing.T) {
	up := newUpstream(t, []string{"whitefield", "indiranagar"}, func(req model.PredictionRequest) (int, model.PredictResponse) {
		if req.TotalSqft > 100000 {
			return http.StatusOK, model.PredictResponse{Status: "error", Message: "out of range"}
		}
		return http.StatusOK, model.PredictResponse{Status: model.StatusSuccess, EstimatedPrice: 85.4}
	})
	srv, _ := newTestServer(t, up.URL)
	browser := newBrowser(t)

	resp, err := browser.Get(srv.URL + "/api/v1/locations")
	require.NoError(t, err)
	var locs model.LocationsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locs))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"whitefield", "indiranagar"}, locs.Locations)

	code, out := postJSON(t, browser, srv.URL+"/api/v1/form/predict",
		model.FormInput{Location: "whitefield", Sqft: "1000", BHK: "2", Bath: "2"})
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, out.State.Estimate)
	assert.Equal(t, 85.4, out.State.Estimate.EstimatedPrice)
	require.NotNil(t, out.Display)
	assert.Equal(t, "85.4", out.Display.Lakhs)
	assert.Equal(t, "Whitefield", out.Display.LocationLabel)

	code, out = postJSON(t, browser, srv.URL+"/api/v1/form/predict",
		model.FormInput{Location: "whitefield", Sqft: "500000", BHK: "2", Bath: "2"})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "out of range", out.State.Error)
	assert.Nil(t, out.State.Estimate)

	code, out = postJSON(t, browser, srv.URL+"/api/v1/form/predict",
		model.FormInput{Location: "whitefield", Sqft: "", BHK: "2", Bath: "2"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, service.MsgFillAllFields, out.State.Error)
	assert.Equal(t, string(service.KindValidation), out.State.ErrorKind)

	code, out = postJSON(t, browser, srv.URL+"/api/v1/form/reset", struct{}{})
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out.State.Error)
	assert.Equal(t, model.FormInput{Location: "whitefield"}, out.State.Fields)

	resp, err = browser.Post(srv.URL+"/api/v1/form/predict", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormAPI_LocationsWithoutSession(t *testing.T) {
	up := newUpstream(t, []string{"whitefield", "indiranagar"}, fixedPrice(1))
	srv, sessions := newTestServer(t, up.URL)

	resp, err := http.Get(srv.URL + "/api/v1/locations")
	require.NoError(t, err)
	var locs model.LocationsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locs))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, locs.TotalLocations)
	assert.Empty(t, resp.Header.Values("Set-Cookie"))
	assert.Zero(t, sessions.Len())
}

func TestFormAPI_LocationsUnavailable(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	srv, _ := newTestServer(t, downURL)
	browser := newBrowser(t)

	resp, err := browser.Get(srv.URL + "/api/v1/locations")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, service.MsgConnectivity)

	code, out := postJSON(t, browser, srv.URL+"/api/v1/form/reload", struct{}{})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, string(service.KindConnectivity), out.State.ErrorKind)
}

func TestHealth(t *testing.T) {
	up := newUpstream(t, []string{"whitefield"}, fixedPrice(1))
	srv, _ := newTestServer(t, up.URL)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Upstream struct {
			Status         string `json:"status"`
			TotalLocations int    `json:"total_locations"`
		} `json:"upstream"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, "reachable", body.Upstream.Status)
	assert.Equal(t, 1, body.Upstream.TotalLocations)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestLoggerKeepsValidRequestID(t *testing.T) {
	up := newUpstream(t, nil, fixedPrice(1))
	srv, _ := newTestServer(t, up.URL)

	const id = "7f1c2f0e-8d3a-4a55-9a8e-5b7f0b6e2c11"
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/version", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins(" http://a , http://b,"))
	assert.True(t, containsWildcard([]string{"http://a", "*"}))
	assert.False(t, containsWildcard([]string{"http://a"}))
}
