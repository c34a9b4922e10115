package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"techsupport_pro_go/models"

	"gorm.io/gorm"
)

// ErrLeadNotInserted is returned when the store accepted the insert but wrote no row
var ErrLeadNotInserted = errors.New("lead insert affected no rows")

// LeadStore persists contact leads
type LeadStore interface {
	InsertLead(ctx context.Context, lead *models.Lead) error
}

// GormLeadStore stores leads through gorm (local SQLite or Turso)
type GormLeadStore struct {
	db *gorm.DB
}

// NewGormLeadStore creates a lead store on an open connection
func NewGormLeadStore(db *gorm.DB) *GormLeadStore {
	return &GormLeadStore{db: db}
}

// InsertLead writes exactly one lead row
func (s *GormLeadStore) InsertLead(ctx context.Context, lead *models.Lead) error {
	result := s.db.WithContext(ctx).Create(lead)
	if result.Error != nil {
		return fmt.Errorf("failed to insert lead: %w", result.Error)
	}
	if result.RowsAffected != 1 {
		return ErrLeadNotInserted
	}
	return nil
}

// ListLeads returns the leads received at or after since, oldest first.
// A zero since returns every lead.
func (s *GormLeadStore) ListLeads(ctx context.Context, since time.Time) ([]models.Lead, error) {
	var leads []models.Lead
	query := s.db.WithContext(ctx).Order("created_at ASC")
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}
