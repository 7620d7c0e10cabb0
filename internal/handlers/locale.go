package handlers

import (
	"net/http"
	"strings"

	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/requestctx"
)

const localeCookieName = "lang"

// LocaleMiddleware resolves the active locale for every request and stores it
// on the context: an explicit ?lang parameter wins, then the lang cookie,
// then Accept-Language negotiation, then the bundle's fallback. The page
// logic below never computes a locale itself; it always takes this one.
func LocaleMiddleware(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			explicit := strings.TrimSpace(r.URL.Query().Get("lang"))
			if explicit == "" {
				if cookie, err := r.Cookie(localeCookieName); err == nil {
					explicit = strings.TrimSpace(cookie.Value)
				}
			}

			locale := bundle.Resolve(explicit, r.Header.Get("Accept-Language"))

			// Persist an explicit valid choice so subsequent pages keep it.
			if query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); query != "" && query == locale {
				http.SetCookie(w, &http.Cookie{
					Name:     localeCookieName,
					Value:    locale,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Add("Vary", "Accept-Language")
			ctx := requestctx.WithLocale(r.Context(), locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func activeLocale(r *http.Request, bundle *i18n.Bundle) string {
	if locale, ok := requestctx.Locale(r.Context()); ok {
		return locale
	}
	return bundle.Fallback()
}
