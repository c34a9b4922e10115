package services

import (
	"context"
	"errors"
	"fmt"

	"techsupport_pro_go/metrics"
	"techsupport_pro_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CurrentPrivacyPolicyVersion is the current version of the privacy policy.
// Update this when the policy changes.
const CurrentPrivacyPolicyVersion = "1.0.0"

// ConsentCookieName is the cookie the banner decision is persisted in
const ConsentCookieName = "gdpr_consent_status"

// ErrInvalidConsentStatus is returned for anything but accepted or rejected
var ErrInvalidConsentStatus = errors.New("consent status must be accepted or rejected")

// ConsentService records cookie banner decisions. Without a database the decision
// only lives in the visitor's cookie.
type ConsentService struct {
	db           *gorm.DB
	ipHashSecret string
	log          *zap.Logger
}

// NewConsentService creates a consent service. db may be nil.
func NewConsentService(db *gorm.DB, ipHashSecret string, log *zap.Logger) *ConsentService {
	return &ConsentService{db: db, ipHashSecret: ipHashSecret, log: log.Named("consent")}
}

// RecordDecision appends an immutable consent log entry for one decision
func (s *ConsentService) RecordDecision(ctx context.Context, status models.ConsentStatus, ip, userAgent string) error {
	if !status.IsDecision() {
		return ErrInvalidConsentStatus
	}
	metrics.IncrementConsent(string(status))

	if s.db == nil {
		s.log.Debug("No database configured, consent decision not logged", zap.String("status", string(status)))
		return nil
	}

	entry := models.ConsentLog{
		Status:        status,
		PolicyVersion: CurrentPrivacyPolicyVersion,
		IPHash:        HashIP(ip, s.ipHashSecret),
		UserAgent:     userAgent,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to log consent: %w", err)
	}

	return nil
}
