package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techsupport_pro_go/models"
	"techsupport_pro_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annaBody = `{"name":"Anna","email":"anna@example.com","company":"","message":"Hallo <b>Welt</b>","cf-turnstile-response":"valid-token"}`

func TestContactHandler_EndToEnd(t *testing.T) {
	testDB := setupTestDB(t)
	turnstile := newTurnstileStub(t, true)
	resendAPI := newResendStub(t, http.StatusOK)

	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		store:         services.NewGormLeadStore(testDB),
		mailer:        resendAPI.mailer(t),
		turnstile:     turnstile,
	})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assertAllowOrigin(t, rec, testOrigin)

	var leads []models.Lead
	require.NoError(t, testDB.Find(&leads).Error)
	require.Len(t, leads, 1)
	assert.Equal(t, "Anna", leads[0].Name)
	assert.Equal(t, "Hallo Welt", leads[0].Message)
	assert.Nil(t, leads[0].Company)

	emails := resendAPI.Emails()
	require.Len(t, emails, 1)
	assert.Contains(t, emails[0]["html"], "Hallo Welt")
	assert.Contains(t, emails[0]["text"], "Hallo Welt")
	assert.NotContains(t, emails[0]["html"], "<b>Welt</b>")
	assert.Equal(t, "Neue Kontaktanfrage von Anna", emails[0]["subject"])
	assert.Equal(t, 1, turnstile.Calls())
}

func TestContactHandler_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"name":    `{"email":"anna@example.com","message":"Hallo","cf-turnstile-response":"t"}`,
		"email":   `{"name":"Anna","message":"Hallo","cf-turnstile-response":"t"}`,
		"message": `{"name":"Anna","email":"anna@example.com","message":"","cf-turnstile-response":"t"}`,
	}

	for field, body := range bodies {
		t.Run(field, func(t *testing.T) {
			testDB := setupTestDB(t)
			resendAPI := newResendStub(t, http.StatusOK)
			e := newTestApp(t, testAppOptions{
				allowedOrigin: testOrigin,
				secret:        "ts-secret",
				store:         services.NewGormLeadStore(testDB),
				mailer:        resendAPI.mailer(t),
				turnstile:     newTurnstileStub(t, true),
			})

			rec := postContact(e, testOrigin, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decodeResponse(t, rec).Success)
			assertAllowOrigin(t, rec, testOrigin)

			var count int64
			testDB.Model(&models.Lead{}).Count(&count)
			assert.Zero(t, count)
			assert.Empty(t, resendAPI.Emails())
		})
	}
}

func TestContactHandler_OriginMismatch(t *testing.T) {
	turnstile := newTurnstileStub(t, true)
	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		turnstile:     turnstile,
	})

	rec := postContact(e, "https://evil.example", annaBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
	assertAllowOrigin(t, rec, testOrigin)

	// Rejected before the body is parsed
	rec = postContact(e, "https://evil.example", `{not json`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Zero(t, turnstile.Calls())
}

func TestContactHandler_BotRejected(t *testing.T) {
	testDB := setupTestDB(t)
	resendAPI := newResendStub(t, http.StatusOK)
	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		store:         services.NewGormLeadStore(testDB),
		mailer:        resendAPI.mailer(t),
		turnstile:     newTurnstileStub(t, false),
	})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)

	var count int64
	testDB.Model(&models.Lead{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, resendAPI.Emails())
}

func TestContactHandler_BotMisconfigured(t *testing.T) {
	turnstile := newTurnstileStub(t, true)
	e := newTestApp(t, testAppOptions{allowedOrigin: testOrigin, secret: "", turnstile: turnstile})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
	assert.Zero(t, turnstile.Calls())
}

func TestContactHandler_BotUnreachable(t *testing.T) {
	turnstile := newTurnstileStub(t, true)
	turnstile.server.Close()
	e := newTestApp(t, testAppOptions{allowedOrigin: testOrigin, secret: "ts-secret", turnstile: turnstile})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Message, "connection refused", "internals are not exposed")
	assertAllowOrigin(t, rec, testOrigin)
}

func TestContactHandler_StorageFailure(t *testing.T) {
	testDB := setupTestDB(t)
	require.NoError(t, testDB.Migrator().DropTable(&models.Lead{}))
	resendAPI := newResendStub(t, http.StatusOK)

	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		store:         services.NewGormLeadStore(testDB),
		mailer:        resendAPI.mailer(t),
		turnstile:     newTurnstileStub(t, true),
	})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
	assert.Empty(t, resendAPI.Emails(), "no notification after a storage failure")
}

func TestContactHandler_NotificationFailureKeepsLead(t *testing.T) {
	testDB := setupTestDB(t)
	resendAPI := newResendStub(t, http.StatusInternalServerError)

	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		store:         services.NewGormLeadStore(testDB),
		mailer:        resendAPI.mailer(t),
		turnstile:     newTurnstileStub(t, true),
	})

	rec := postContact(e, testOrigin, annaBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
	assert.NotEmpty(t, resendAPI.Emails())

	var count int64
	testDB.Model(&models.Lead{}).Count(&count)
	assert.Equal(t, int64(1), count, "stored lead is kept")
}

func TestContactHandler_DegradedMode(t *testing.T) {
	e := newTestApp(t, testAppOptions{secret: "ts-secret", turnstile: newTurnstileStub(t, true)})

	rec := postContact(e, "https://anywhere.example", annaBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
	assertAllowOrigin(t, rec, "")
}

func TestContactHandler_InvalidBody(t *testing.T) {
	testDB := setupTestDB(t)
	turnstile := newTurnstileStub(t, true)
	e := newTestApp(t, testAppOptions{
		allowedOrigin: testOrigin,
		secret:        "ts-secret",
		store:         services.NewGormLeadStore(testDB),
		turnstile:     turnstile,
	})

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"Truncated JSON", `{"name":`, echo.MIMEApplicationJSON},
		{"Not JSON", `not json`, echo.MIMEApplicationJSON},
		{"Wrong field type", `{"name":123,"email":"anna@example.com","message":"Hallo","cf-turnstile-response":"t"}`, echo.MIMEApplicationJSON},
		{"Missing content type", annaBody, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			req.Header.Set(echo.HeaderOrigin, testOrigin)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, "Interner Serverfehler")
			assertAllowOrigin(t, rec, testOrigin)
		})
	}

	var count int64
	testDB.Model(&models.Lead{}).Count(&count)
	assert.Zero(t, count, "nothing is stored for an undecodable body")
	assert.Zero(t, turnstile.Calls())
}

func TestContactHandler_LocalizedMessages(t *testing.T) {
	e := newTestApp(t, testAppOptions{allowedOrigin: testOrigin, secret: "ts-secret", turnstile: newTurnstileStub(t, true)})
	body := `{"name":"","email":"","message":"","cf-turnstile-response":"t"}`

	rec := postContact(e, testOrigin, body)
	assert.Contains(t, decodeResponse(t, rec).Message, "Pflichtfelder", "German by default")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, testOrigin)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Contains(t, decodeResponse(t, rec).Message, "required")
}
