// Package contactclient submits the contact form the way the site's browser
// script does: one JSON POST per user action, a busy flag while it is in
// flight and exactly one status message afterwards.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"techsupport_pro_go/models"
)

const (
	// Endpoint is the path the form posts to
	Endpoint = "/api/contact"

	LabelIdle = "Nachricht Senden"
	LabelBusy = "Sende..."

	MessageSuccess  = "Vielen Dank! Ihre Nachricht wurde erfolgreich gesendet."
	MessageFallback = "Ein Fehler ist aufgetreten. Bitte versuchen Sie es später erneut."
	MessageNetwork  = "Netzwerkfehler. Bitte überprüfen Sie Ihre Verbindung."
)

// ErrBusy is returned when a submission is already in flight for the form
var ErrBusy = errors.New("submission already in progress")

// StatusKind is the kind of message shown under the form
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is the message shown under the form
type Status struct {
	Kind StatusKind
	Text string
}

// Form is the client-side state of the contact form
type Form struct {
	// Fields holds every named input by name
	Fields map[string]string
	// TurnstileToken is written by the Turnstile widget
	TurnstileToken string

	Busy        bool
	SubmitLabel string
	Status      Status
}

// NewForm returns an empty, idle form
func NewForm() *Form {
	return &Form{
		Fields:      map[string]string{"name": "", "email": "", "company": "", "message": ""},
		SubmitLabel: LabelIdle,
	}
}

// Payload returns the flat JSON mapping sent to the server
func (f *Form) Payload() map[string]string {
	data := make(map[string]string, len(f.Fields)+1)
	for k, v := range f.Fields {
		data[k] = v
	}
	if f.TurnstileToken != "" {
		data[models.TurnstileField] = f.TurnstileToken
	}
	return data
}

// Reset empties every field
func (f *Form) Reset() {
	for k := range f.Fields {
		f.Fields[k] = ""
	}
	f.TurnstileToken = ""
}

// Outcome is the result of one submission
type Outcome struct {
	Success    bool
	Message    string
	StatusCode int   // 0 when no response arrived
	Err        error // transport or decode failure
}

// Client posts contact forms to a site
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the site at baseURL
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit sends the form once. The form is busy while the request is in flight
// and is returned to its idle label on every exit path.
func (c *Client) Submit(ctx context.Context, f *Form) Outcome {
	if f.Busy {
		return Outcome{Err: ErrBusy}
	}

	f.Status = Status{}
	label := f.SubmitLabel
	f.Busy = true
	f.SubmitLabel = LabelBusy
	defer func() {
		f.Busy = false
		f.SubmitLabel = label
	}()

	out := c.post(ctx, f.Payload())
	switch {
	case out.Err != nil:
		out.Message = MessageNetwork
		f.Status = Status{Kind: StatusError, Text: out.Message}
	case out.Success:
		out.Message = MessageSuccess
		f.Status = Status{Kind: StatusSuccess, Text: out.Message}
		f.Reset()
	default:
		if out.Message == "" {
			out.Message = MessageFallback
		}
		f.Status = Status{Kind: StatusError, Text: out.Message}
	}
	return out
}

func (c *Client) post(ctx context.Context, payload map[string]string) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Err: fmt.Errorf("failed to encode form: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+Endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Outcome{Err: fmt.Errorf("failed to post form: %w", err)}
	}
	defer resp.Body.Close()

	var result models.SubmissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Outcome{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return Outcome{
		Success:    ok && result.Success,
		Message:    result.Message,
		StatusCode: resp.StatusCode,
	}
}
