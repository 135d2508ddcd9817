package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// SessionCookieName is the cookie that identifies a visitor's storage.
const SessionCookieName = "sf_session"

// SessionConfig controls the session cookie.
type SessionConfig struct {
	TTL    time.Duration
	Secure bool
}

// Session is middleware that reads the visitor's session cookie, issuing a
// new one when it is absent or malformed, and stores the session ID in the
// request context. Every response refreshes the cookie expiry.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookieName); err == nil && session.Valid(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = session.NewID()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := session.WithID(r.Context(), id)
			ctx = logger.WithSessionID(ctx, id)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("session_id", id))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteError(w, r, apperrors.UnsupportedMediaType("Content-Type must be application/json"), slog.Default())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
