package handler

import (
	"errors"
	"net/http"

	"homeprice/internal/model"
	"homeprice/internal/service"

	"github.com/gin-gonic/gin"
)

// Locations handles GET /api/v1/locations. Callers with a session get the
// list their form holds; others are answered straight from the prediction
// service without starting a session.
func (h *FormHandler) Locations(c *gin.Context) {
	id, _ := c.Cookie(h.cookieName)
	if form, ok := h.sessions.Lookup(id); ok {
		state := form.State()
		if state.Locations == nil {
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": state.Error})
			return
		}
		c.JSON(http.StatusOK, newLocationsResponse(state.Locations))
		return
	}

	locations, err := h.estimator.LocationNames(c.Request.Context())
	if err != nil {
		h.log.Warnf("fetching locations failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": service.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, newLocationsResponse(locations))
}

func newLocationsResponse(locations []string) model.LocationsResponse {
	return model.LocationsResponse{
		Status:         model.StatusSuccess,
		TotalLocations: len(locations),
		Locations:      locations,
	}
}

// State handles GET /api/v1/form
func (h *FormHandler) State(c *gin.Context) {
	form, _ := h.form(c)
	c.JSON(http.StatusOK, newFormResponse(form.State(), h.formatter))
}

// SubmitJSON handles POST /api/v1/form/predict
func (h *FormHandler) SubmitJSON(c *gin.Context) {
	form, _ := h.form(c)
	var input model.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	_, err := form.Submit(c.Request.Context(), input)
	if errors.Is(err, service.ErrSubmitInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusFor(err), newFormResponse(form.State(), h.formatter))
}

// ResetJSON handles POST /api/v1/form/reset
func (h *FormHandler) ResetJSON(c *gin.Context) {
	form, _ := h.form(c)
	form.Reset()
	c.JSON(http.StatusOK, newFormResponse(form.State(), h.formatter))
}

// ReloadJSON handles POST /api/v1/form/reload
func (h *FormHandler) ReloadJSON(c *gin.Context) {
	form, loaded := h.form(c)
	if !loaded {
		_ = form.Load(c.Request.Context())
	}
	state := form.State()
	status := http.StatusOK
	if state.Locations == nil {
		status = http.StatusBadGateway
	}
	c.JSON(status, newFormResponse(state, h.formatter))
}

// statusFor maps a form error to the HTTP status of the JSON API
func statusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindNone:
		return http.StatusOK
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindService, service.KindConnectivity:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
