package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"shopfront/internal/model"
	"shopfront/internal/session"
)

// SessionCookie is the cookie carrying the anonymous session token.
const SessionCookie = "session_id"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the anonymous session attached to the
// request, if one could be established.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(model.Session)
	return sess, ok
}

// ContextWithSession attaches an anonymous session to the context.
func ContextWithSession(ctx context.Context, sess model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// WithSession ensures every request carries an anonymous session: an
// existing cookie is validated, a missing or expired one is replaced
// by a freshly created session. If the session provider is down the
// request proceeds without a session and cart handlers degrade to an
// inert, empty cart.
func WithSession(provider session.Provider, ttl time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			sess, created, err := provider.EnsureSession(r.Context(), token)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Msg("could not establish session, continuing without one")
				next.ServeHTTP(w, r)
				return
			}

			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID.String(),
					Path:     "/",
					Expires:  time.Now().Add(ttl),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS adds CORS headers for the storefront UI. Credentials are
// allowed because the session rides on a cookie.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
