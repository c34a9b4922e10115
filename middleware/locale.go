package middleware

import (
	"net/http"
	"strings"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// SupportedLocales are the languages the site answers in
var SupportedLocales = []string{"de", "en"}

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. cfg.DefaultLocale
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	defaultLocale := cfg.DefaultLocale
	if !isSupportedLocale(defaultLocale) {
		defaultLocale = SupportedLocales[0]
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := ""
			if q := c.QueryParam("lang"); q != "" {
				lang = q
				if !isSupportedLocale(lang) {
					lang = defaultLocale
				}
				SetLanguageCookie(c, lang, cfg.IsProduction())
			} else if cookie, err := c.Cookie("lang"); err == nil && isSupportedLocale(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"), defaultLocale)
			}

			c.Set("locale", lang)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// fromAcceptLanguage returns the first supported primary tag of an
// Accept-Language header, in header order
func fromAcceptLanguage(header, fallback string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if isSupportedLocale(primary) {
			return primary
		}
	}
	return fallback
}

func isSupportedLocale(lang string) bool {
	for _, l := range SupportedLocales {
		if l == lang {
			return true
		}
	}
	return false
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     "lang",
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour), // 1 year
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok {
		return lang
	}
	return SupportedLocales[0]
}
