package models

// TurnstileField is the form field the Turnstile widget writes its token to
const TurnstileField = "cf-turnstile-response"

// SubmissionRequest is the JSON body posted by the contact form
type SubmissionRequest struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Company        string `json:"company" form:"company"`
	Message        string `json:"message" form:"message"`
	TurnstileToken string `json:"cf-turnstile-response" form:"cf-turnstile-response"`
}

// MissingRequiredFields reports whether name, email or message is empty.
// Whitespace counts as a value.
func (r SubmissionRequest) MissingRequiredFields() bool {
	return r.Name == "" || r.Email == "" || r.Message == ""
}

// SanitizedSubmission holds the markup-free values. It is the only form of a
// submission that is stored or sent onward.
type SanitizedSubmission struct {
	Name    string
	Email   string
	Company string
	Message string
}

// SubmissionResponse is the JSON body of every contact endpoint response
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
