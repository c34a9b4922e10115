package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/metrics"
	"techsupport_pro_go/models"

	"go.uber.org/zap"
)

// FailureKind classifies why a contact submission ended without success
type FailureKind string

const (
	FailureOriginMismatch          FailureKind = "origin_mismatch"
	FailureBotVerificationConfig   FailureKind = "captcha_misconfigured"
	FailureBotVerificationRejected FailureKind = "captcha_failed"
	FailureValidation              FailureKind = "missing_fields"
	FailureStorage                 FailureKind = "storage_failed"
	FailureNotification            FailureKind = "notification_failed"
	FailureInternal                FailureKind = "internal_error"
)

// Status returns the HTTP status reported for the failure
func (k FailureKind) Status() int {
	switch k {
	case FailureOriginMismatch, FailureBotVerificationRejected:
		return http.StatusForbidden
	case FailureValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the i18n key of the user-facing message
func (k FailureKind) MessageKey() string {
	switch k {
	case FailureOriginMismatch:
		return "contact.error.forbidden_origin"
	case FailureBotVerificationConfig:
		return "contact.error.captcha_misconfigured"
	case FailureBotVerificationRejected:
		return "contact.error.captcha_failed"
	case FailureValidation:
		return "contact.error.missing_fields"
	case FailureStorage:
		return "contact.error.storage"
	case FailureNotification:
		return "contact.error.notification"
	default:
		return "contact.error.internal"
	}
}

// SubmissionError is the terminal failure of a contact submission
type SubmissionError struct {
	Kind FailureKind
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status for the failure
func (e *SubmissionError) Status() int {
	return e.Kind.Status()
}

// Is matches any SubmissionError of the same kind
func (e *SubmissionError) Is(target error) bool {
	t, ok := target.(*SubmissionError)
	return ok && t.Err == nil && t.Kind == e.Kind
}

func failure(kind FailureKind, err error) *SubmissionError {
	return &SubmissionError{Kind: kind, Err: err}
}

// FailureKindOf returns the kind of a submission error. Anything else is internal.
func FailureKindOf(err error) FailureKind {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Kind
	}
	return FailureInternal
}

// BotVerifier checks an anti-bot token
type BotVerifier interface {
	Verify(ctx context.Context, token, secretKey, ip string) (*TurnstileResponse, error)
}

// ContactSettings is the part of the configuration the pipeline reads
type ContactSettings struct {
	AllowedOrigin      string
	TurnstileSecretKey string
	NotifyTo           string
	NotifyLocale       string
}

// ContactSettingsFromConfig extracts the contact settings
func ContactSettingsFromConfig(cfg *config.Config) ContactSettings {
	return ContactSettings{
		AllowedOrigin:      cfg.AllowedOrigin,
		TurnstileSecretKey: cfg.TurnstileSecretKey,
		NotifyTo:           cfg.ContactNotifyTo,
		NotifyLocale:       cfg.NotifyLocale,
	}
}

// Submission is one inbound contact request
type Submission struct {
	Request  models.SubmissionRequest
	Origin   string
	RemoteIP string
}

// SubmissionResult describes a successful submission
type SubmissionResult struct {
	Lead     *models.Lead // nil when no lead store is configured
	Notified bool
}

// ContactService runs the contact form pipeline:
// origin, anti-bot, validation, sanitization, persistence, notification.
// A nil store or mailer skips that stage.
type ContactService struct {
	settings ContactSettings
	verifier BotVerifier
	store    LeadStore
	mailer   Mailer
	log      *zap.Logger
}

// NewContactService creates the pipeline
func NewContactService(settings ContactSettings, verifier BotVerifier, store LeadStore, mailer Mailer, log *zap.Logger) *ContactService {
	return &ContactService{
		settings: settings,
		verifier: verifier,
		store:    store,
		mailer:   mailer,
		log:      log.Named("contact"),
	}
}

// CheckOrigin rejects requests whose Origin header differs from the allowed origin.
// An empty allowed origin accepts everything.
func (s *ContactService) CheckOrigin(origin string) error {
	if s.settings.AllowedOrigin == "" || origin == s.settings.AllowedOrigin {
		return nil
	}
	s.log.Warn("Origin check failed", zap.String("stage", "origin"), zap.String("origin", origin))
	return failure(FailureOriginMismatch, fmt.Errorf("origin %q not allowed", origin))
}

// Submit runs the pipeline once. The returned error is always a *SubmissionError.
func (s *ContactService) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	result, err := s.submit(ctx, sub)
	if err != nil {
		metrics.IncrementSubmission(string(FailureKindOf(err)))
		return nil, err
	}
	metrics.IncrementSubmission("success")
	return result, nil
}

func (s *ContactService) submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	if err := s.CheckOrigin(sub.Origin); err != nil {
		return nil, err
	}

	if err := s.verifyBot(ctx, sub); err != nil {
		return nil, err
	}

	if sub.Request.MissingRequiredFields() {
		s.log.Warn("Validation failed", zap.String("stage", "validate"))
		return nil, failure(FailureValidation, errors.New("name, email and message are required"))
	}

	clean := SanitizeSubmission(sub.Request)
	result := &SubmissionResult{}

	if s.store != nil {
		lead := models.NewLead(clean)
		start := time.Now()
		err := s.store.InsertLead(ctx, lead)
		metrics.RecordExternalCall("store", err, time.Since(start))
		if err != nil {
			s.log.Error("Failed to store lead", zap.String("stage", "persist"), zap.Error(err))
			return nil, failure(FailureStorage, err)
		}
		result.Lead = lead
	} else {
		s.log.Warn("No lead store configured, submission not stored", zap.String("stage", "persist"))
	}

	if s.mailer != nil {
		email, err := BuildContactNotificationEmail(s.settings.NotifyTo, clean, s.settings.NotifyLocale)
		if err != nil {
			s.log.Error("Failed to build notification", zap.String("stage", "notify"), zap.Error(err))
			return nil, failure(FailureNotification, err)
		}
		if err := s.mailer.Send(ctx, email); err != nil {
			// The stored lead is kept
			s.log.Error("Failed to send notification", zap.String("stage", "notify"), zap.Error(err))
			return nil, failure(FailureNotification, err)
		}
		result.Notified = true
	} else {
		s.log.Warn("No mailer configured, notification skipped", zap.String("stage", "notify"))
	}

	if result.Lead != nil {
		s.log.Info("Contact submission accepted", zap.String("lead_id", result.Lead.ID), zap.Bool("notified", result.Notified))
	} else {
		s.log.Info("Contact submission accepted", zap.Bool("notified", result.Notified))
	}
	return result, nil
}

func (s *ContactService) verifyBot(ctx context.Context, sub Submission) error {
	token := sub.Request.TurnstileToken
	if token == "" || s.settings.TurnstileSecretKey == "" {
		s.log.Error("Turnstile verification not possible",
			zap.String("stage", "captcha"),
			zap.Bool("token_present", token != ""),
			zap.Bool("secret_present", s.settings.TurnstileSecretKey != ""),
		)
		return failure(FailureBotVerificationConfig, ErrTurnstileInput)
	}

	start := time.Now()
	resp, err := s.verifier.Verify(ctx, token, s.settings.TurnstileSecretKey, sub.RemoteIP)
	metrics.RecordExternalCall("turnstile", err, time.Since(start))
	if err != nil {
		s.log.Error("Turnstile verification error", zap.String("stage", "captcha"), zap.Error(err))
		return failure(FailureInternal, err)
	}
	if !resp.Success {
		s.log.Warn("Turnstile verification failed", zap.String("stage", "captcha"), zap.Strings("error_codes", resp.ErrorCodes))
		return failure(FailureBotVerificationRejected, fmt.Errorf("turnstile rejected token: %v", resp.ErrorCodes))
	}
	return nil
}
