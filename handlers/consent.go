package handlers

import (
	"net/http"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/models"
	"techsupport_pro_go/services"
	"techsupport_pro_go/services/i18n"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// consentCookieMaxAge keeps a decision for one year
const consentCookieMaxAge = 365 * 24 * time.Hour

// ConsentHandler serves the cookie banner state
type ConsentHandler struct {
	consent *services.ConsentService
	log     *zap.Logger
}

// NewConsentHandler creates the consent handler
func NewConsentHandler(consent *services.ConsentService, log *zap.Logger) *ConsentHandler {
	return &ConsentHandler{consent: consent, log: log.Named("consent")}
}

type consentRequest struct {
	Status string `json:"status" form:"status"`
}

// Get returns the stored decision and whether the banner should be shown
func (h *ConsentHandler) Get(c echo.Context) error {
	status := models.ConsentUnset
	if cookie, err := c.Cookie(services.ConsentCookieName); err == nil {
		status = models.ParseConsentStatus(cookie.Value)
	}
	return c.JSON(http.StatusOK, models.NewConsentState(status))
}

// Post records the visitor's decision and persists it in the consent cookie
func (h *ConsentHandler) Post(c echo.Context) error {
	ctx := c.Request().Context()

	var req consentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.SubmissionResponse{
			Success: false,
			Message: i18n.T(ctx, "consent.error.invalid_status"),
		})
	}

	status := models.ConsentStatus(req.Status)
	if !status.IsDecision() {
		return c.JSON(http.StatusBadRequest, models.SubmissionResponse{
			Success: false,
			Message: i18n.T(ctx, "consent.error.invalid_status"),
		})
	}

	if err := h.consent.RecordDecision(ctx, status, clientIP(c), c.Request().UserAgent()); err != nil {
		h.log.Error("Failed to record consent", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.SubmissionResponse{
			Success: false,
			Message: i18n.T(ctx, "consent.error.storage"),
		})
	}

	secure := false
	if cfg, ok := c.Get("config").(*config.Config); ok {
		secure = cfg.IsProduction()
	}
	c.SetCookie(&http.Cookie{
		Name:     services.ConsentCookieName,
		Value:    string(status),
		Path:     "/",
		Expires:  time.Now().Add(consentCookieMaxAge),
		MaxAge:   int(consentCookieMaxAge.Seconds()),
		HttpOnly: false, // read by the banner script
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})

	return c.JSON(http.StatusOK, models.NewConsentState(status))
}
