package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// ErrTurnstileInput is returned when the token or the secret key is missing
var ErrTurnstileInput = errors.New("missing token or secret key")

type TurnstileResponse struct {
	Success     bool      `json:"success"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// TurnstileVerifier checks widget tokens against Cloudflare's siteverify endpoint
type TurnstileVerifier struct {
	URL        string
	HTTPClient *http.Client
}

// NewTurnstileVerifier returns a verifier for the production endpoint
func NewTurnstileVerifier() *TurnstileVerifier {
	return &TurnstileVerifier{
		URL:        turnstileVerifyURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify posts the token to Cloudflare. An error means the call itself failed;
// a rejected challenge is reported through the response's Success field.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, secretKey, ip string) (*TurnstileResponse, error) {
	if token == "" || secretKey == "" {
		return nil, ErrTurnstileInput
	}

	form := url.Values{
		"secret":   {secretKey},
		"response": {token},
	}
	if ip != "" {
		form.Set("remoteip", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build turnstile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	var result TurnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode turnstile response: %w", err)
	}

	return &result, nil
}
