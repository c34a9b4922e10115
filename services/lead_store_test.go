package services

import (
	"context"
	"html"
	"testing"
	"time"

	"techsupport_pro_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLeadTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// Every pooled connection would open its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Lead{}, &models.ConsentLog{}))
	return db
}

func TestGormLeadStore_InsertLead(t *testing.T) {
	db := setupLeadTestDB(t)
	store := NewGormLeadStore(db)

	lead := models.NewLead(models.SanitizedSubmission{Name: "Anna", Email: "anna@example.com", Message: "Hallo Welt"})
	require.NoError(t, store.InsertLead(context.Background(), lead))
	assert.NotEmpty(t, lead.ID)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, "Hallo Welt", stored.Message)
	assert.Nil(t, stored.Company)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestGormLeadStore_StoresEscapedText(t *testing.T) {
	db := setupLeadTestDB(t)
	store := NewGormLeadStore(db)

	lead := models.NewLead(SanitizeSubmission(models.SubmissionRequest{
		Name:    "O'Brien",
		Email:   "obrien@example.com",
		Company: "Tom & Jerry",
		Message: "<b>Drucker</b> geht nicht",
	}))
	require.NoError(t, store.InsertLead(context.Background(), lead))

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, "O&#39;Brien", stored.Name)
	assert.Equal(t, "Tom &amp; Jerry", stored.CompanyOrEmpty())
	assert.Equal(t, "Drucker geht nicht", stored.Message)

	assert.Equal(t, "O'Brien", html.UnescapeString(stored.Name))
	assert.Equal(t, "Tom & Jerry", html.UnescapeString(stored.CompanyOrEmpty()))
}

func TestGormLeadStore_InsertLead_Error(t *testing.T) {
	db := setupLeadTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Lead{}))

	store := NewGormLeadStore(db)
	err := store.InsertLead(context.Background(), models.NewLead(models.SanitizedSubmission{Name: "Anna", Email: "a@b.de", Message: "x"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert lead")
}

func TestGormLeadStore_ListLeads(t *testing.T) {
	db := setupLeadTestDB(t)
	store := NewGormLeadStore(db)
	ctx := context.Background()

	old := &models.Lead{Name: "Alt", Email: "alt@example.com", Message: "alt", CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := &models.Lead{Name: "Neu", Email: "neu@example.com", Message: "neu", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.InsertLead(ctx, old))
	require.NoError(t, store.InsertLead(ctx, recent))

	all, err := store.ListLeads(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alt", all[0].Name, "oldest first")

	since, err := store.ListLeads(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, "Neu", since[0].Name)
}
