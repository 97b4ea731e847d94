package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"golang.org/x/time/rate"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
)

// DefaultFormRequestSize caps the body of form posts
const DefaultFormRequestSize = 64 * 1024

// SecurityHeaders adds the standard browser hardening headers to every response
func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Cache-Control", "no-store")

			if environment == "prod" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests above the given rate with a 429.
// A single limiter is shared by all clients.
func RateLimit(requestsPerSecond int, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				if err := templates.ErrorAlert("Too many requests. Please try again in a few moments.").Render(r.Context(), w); err != nil {
					logger.ContextRequestLogger(r.Context()).Error("Failed to render ErrorAlert", slog.String("error", err.Error()))
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit limits the size of request bodies and adds the limit as a header for client awareness
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				http.Error(w, fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytes), http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// CSRF protects form posts with gorilla/csrf.
// Outside prod the UI is served over plain http, the request is marked as such so the origin
// check does not insist on https.
func CSRF(authKey []byte, environment string) func(http.Handler) http.Handler {
	isProd := environment == "prod"

	protect := csrf.Protect(authKey,
		csrf.Secure(isProd),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProd {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	logger.ContextRequestLogger(r.Context()).Warn("CSRF check failed",
		slog.String("component", "ui.CSRF"),
		slog.String("reason", reason),
	)
	w.WriteHeader(http.StatusForbidden)
	if err := templates.ErrorAlert("Your form has expired. Please reload the page and try again.").Render(r.Context(), w); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("Failed to render ErrorAlert", slog.String("error", err.Error()))
	}
}
