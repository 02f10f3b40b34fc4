package handler

import (
	"errors"
	"net/http"
	"time"

	"homeprice/internal/logger"
	"homeprice/internal/model"
	"homeprice/internal/service"
	"homeprice/internal/utils"

	"github.com/gin-gonic/gin"
)

// FormHandler serves the prediction form as HTML pages and as JSON
type FormHandler struct {
	sessions   *service.SessionStore
	estimator  service.PriceEstimator
	formatter  *utils.PriceFormatter
	cookieName string
	cookieTTL  time.Duration
	version    string
	log        logger.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(
	sessions *service.SessionStore,
	estimator service.PriceEstimator,
	formatter *utils.PriceFormatter,
	cookieName string,
	cookieTTL time.Duration,
	version string,
) *FormHandler {
	return &FormHandler{
		sessions:   sessions,
		estimator:  estimator,
		formatter:  formatter,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		version:    version,
		log:        logger.New("form-handler"),
	}
}

// form returns the caller's form, starting a session and loading the
// locations on first contact. loaded reports whether Load ran.
func (h *FormHandler) form(c *gin.Context) (form *service.PredictionForm, loaded bool) {
	id, _ := c.Cookie(h.cookieName)
	form, sessionID, created := h.sessions.Get(id)
	if sessionID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, sessionID, int(h.cookieTTL.Seconds()), "/", "", false, true)
	}
	if created {
		// The error is part of the form state and rendered from there.
		_ = form.Load(c.Request.Context())
	}
	return form, created
}

// Page handles GET /
func (h *FormHandler) Page(c *gin.Context) {
	form, _ := h.form(c)
	state := form.State()
	c.HTML(http.StatusOK, "index.tmpl", newPageView(state, h.formatter, h.version))
}

// Predict handles POST /predict
func (h *FormHandler) Predict(c *gin.Context) {
	form, _ := h.form(c)
	var input model.FormInput
	if err := c.ShouldBind(&input); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}
	if _, err := form.Submit(c.Request.Context(), input); errors.Is(err, service.ErrSubmitInFlight) {
		h.log.Debugf("ignored duplicate submission")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset handles POST /reset
func (h *FormHandler) Reset(c *gin.Context) {
	form, _ := h.form(c)
	form.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

// Reload handles POST /reload, the user initiated retry of the location list
func (h *FormHandler) Reload(c *gin.Context) {
	form, loaded := h.form(c)
	if !loaded {
		_ = form.Load(c.Request.Context())
	}
	c.Redirect(http.StatusSeeOther, "/")
}
