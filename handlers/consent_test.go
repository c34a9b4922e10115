package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techsupport_pro_go/config"
	"techsupport_pro_go/models"
	"techsupport_pro_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func consentCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == services.ConsentCookieName {
			return cookie
		}
	}
	return nil
}

func TestConsentHandler_Get(t *testing.T) {
	h := NewConsentHandler(services.NewConsentService(nil, "secret", zap.NewNop()), zap.NewNop())

	cases := []struct {
		cookie     string
		status     models.ConsentStatus
		showBanner bool
	}{
		{"", models.ConsentUnset, true},
		{"accepted", models.ConsentAccepted, false},
		{"rejected", models.ConsentRejected, false},
		{"garbage", models.ConsentUnset, true},
	}

	for _, tc := range cases {
		_, c, rec := setupEcho(http.MethodGet, "/api/consent", nil)
		if tc.cookie != "" {
			c.Request().AddCookie(&http.Cookie{Name: services.ConsentCookieName, Value: tc.cookie})
		}

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var state models.ConsentState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, tc.status, state.Status, "cookie %q", tc.cookie)
		assert.Equal(t, tc.showBanner, state.ShowBanner, "cookie %q", tc.cookie)
	}
}

func TestConsentHandler_Post(t *testing.T) {
	testDB := setupTestDB(t)
	h := NewConsentHandler(services.NewConsentService(testDB, "secret", zap.NewNop()), zap.NewNop())

	_, c, rec := setupEcho(http.MethodPost, "/api/consent", strings.NewReader(`{"status":"accepted"}`))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Request().Header.Set("User-Agent", "Mozilla/5.0")

	require.NoError(t, h.Post(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var state models.ConsentState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, models.ConsentAccepted, state.Status)
	assert.False(t, state.ShowBanner)

	cookie := consentCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "accepted", cookie.Value)
	assert.False(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 365*24*60*60, cookie.MaxAge)

	var logs []models.ConsentLog
	require.NoError(t, testDB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ConsentAccepted, logs[0].Status)
	assert.Equal(t, "Mozilla/5.0", logs[0].UserAgent)
	assert.Equal(t, services.CurrentPrivacyPolicyVersion, logs[0].PolicyVersion)
}

func TestConsentHandler_Post_SecureInProduction(t *testing.T) {
	h := NewConsentHandler(services.NewConsentService(nil, "secret", zap.NewNop()), zap.NewNop())

	_, c, rec := setupEcho(http.MethodPost, "/api/consent", strings.NewReader(`{"status":"rejected"}`))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Set("config", &config.Config{Environment: "production"})

	require.NoError(t, h.Post(c))
	cookie := consentCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "rejected", cookie.Value)
	assert.True(t, cookie.Secure)
}

func TestConsentHandler_Post_Invalid(t *testing.T) {
	h := NewConsentHandler(services.NewConsentService(nil, "secret", zap.NewNop()), zap.NewNop())

	for _, body := range []string{`{"status":"unset"}`, `{"status":"maybe"}`, `{}`, `{"status":`} {
		_, c, rec := setupEcho(http.MethodPost, "/api/consent", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		require.NoError(t, h.Post(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Nil(t, consentCookie(rec), "no cookie for %s", body)
	}
}

func TestConsentHandler_Post_StorageError(t *testing.T) {
	testDB := setupTestDB(t)
	require.NoError(t, testDB.Migrator().DropTable(&models.ConsentLog{}))
	h := NewConsentHandler(services.NewConsentService(testDB, "secret", zap.NewNop()), zap.NewNop())

	_, c, rec := setupEcho(http.MethodPost, "/api/consent", strings.NewReader(`{"status":"accepted"}`))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	require.NoError(t, h.Post(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, consentCookie(rec))
}
