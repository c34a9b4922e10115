package services

import (
	"strings"

	"techsupport_pro_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every element and attribute. Text survives HTML-escaped,
// so the output never contains a tag delimiter. Policies are safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user input. Applying it twice yields the same result.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// SanitizeSubmission strips markup from every text field of a request
func SanitizeSubmission(req models.SubmissionRequest) models.SanitizedSubmission {
	return models.SanitizedSubmission{
		Name:    SanitizeText(req.Name),
		Email:   SanitizeText(req.Email),
		Company: SanitizeText(req.Company),
		Message: SanitizeText(req.Message),
	}
}
