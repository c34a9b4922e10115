package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is the stored record of one contact form submission.
// Leads are created once and never updated or deleted by the app.
//
// Name, Email, Company and Message hold sanitizer output: markup is removed and
// the remaining text is HTML-escaped, so "O'Brien" is stored as "O&#39;Brien"
// and "Tom & Jerry" as "Tom &amp; Jerry". Readers that need plain text apply
// html.UnescapeString, as the lead export and the text email do.
type Lead struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index:idx_leads_created_at" json:"created_at"`

	Name    string  `gorm:"not null" json:"name"`
	Email   string  `gorm:"not null;index:idx_leads_email" json:"email"`
	Company *string `json:"company,omitempty"` // NULL when the field was left empty
	Message string  `gorm:"type:text;not null" json:"message"`
}

// NewLead builds the record stored for a sanitized submission
func NewLead(s SanitizedSubmission) *Lead {
	lead := &Lead{
		Name:    s.Name,
		Email:   s.Email,
		Message: s.Message,
	}
	if s.Company != "" {
		company := s.Company
		lead.Company = &company
	}
	return lead
}

// CompanyOrEmpty returns the company or an empty string when NULL
func (l *Lead) CompanyOrEmpty() string {
	if l.Company == nil {
		return ""
	}
	return *l.Company
}

// BeforeCreate hook to generate UUID
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Lead) TableName() string {
	return "leads"
}
