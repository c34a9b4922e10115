package handlers

import (
	"net/http"

	"techsupport_pro_go/metrics"
	"techsupport_pro_go/models"
	"techsupport_pro_go/services"
	"techsupport_pro_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// ContactHandler serves POST /api/contact
type ContactHandler struct {
	contact *services.ContactService
}

// NewContactHandler creates the contact form handler
func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit runs one contact form submission and answers {success, message}
func (h *ContactHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	origin := c.Request().Header.Get(echo.HeaderOrigin)

	// Origin is checked before the body is read
	if err := h.contact.CheckOrigin(origin); err != nil {
		metrics.IncrementSubmission(string(services.FailureOriginMismatch))
		return submissionFailure(c, err)
	}

	// An undecodable body is an unclassified failure and answers 500
	var req models.SubmissionRequest
	if err := c.Bind(&req); err != nil {
		metrics.IncrementSubmission(string(services.FailureInternal))
		return submissionFailure(c, err)
	}

	_, err := h.contact.Submit(ctx, services.Submission{
		Request:  req,
		Origin:   origin,
		RemoteIP: clientIP(c),
	})
	if err != nil {
		return submissionFailure(c, err)
	}

	return c.JSON(http.StatusOK, models.SubmissionResponse{
		Success: true,
		Message: i18n.T(ctx, "contact.success"),
	})
}

// submissionFailure answers with the status and localized message of a pipeline failure
func submissionFailure(c echo.Context, err error) error {
	kind := services.FailureKindOf(err)
	return c.JSON(kind.Status(), models.SubmissionResponse{
		Success: false,
		Message: i18n.T(c.Request().Context(), kind.MessageKey()),
	})
}

// clientIP prefers the address Cloudflare reports for the visitor
func clientIP(c echo.Context) string {
	if ip := c.Request().Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return c.RealIP()
}
