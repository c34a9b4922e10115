package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsentLog is an immutable record of one cookie consent decision.
// Kept as evidence under GDPR/TTDSG, so rows are never updated or deleted.
type ConsentLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_consent_created_at" json:"created_at"`

	Status        ConsentStatus `gorm:"not null;index:idx_consent_status" json:"status"`
	PolicyVersion string        `gorm:"not null" json:"policy_version"`

	// Request metadata. The IP is stored as a keyed hash only.
	IPHash    string `gorm:"not null;index:idx_consent_ip_hash" json:"ip_hash"`
	UserAgent string `gorm:"type:text;not null" json:"user_agent"`
}

// BeforeCreate generates UUID
func (c *ConsentLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of consent logs (immutability)
func (c *ConsentLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of consent logs (immutability)
func (c *ConsentLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (ConsentLog) TableName() string {
	return "consent_logs"
}
