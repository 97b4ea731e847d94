package auth

import (
	"log/slog"
	"net/http"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
)

// RequireAuth is middleware that checks the session cookie.
//
// A valid session is placed on the request context, where the API client picks up its token.
// Missing and invalid sessions are redirected to the login page. An expired session has its
// cookie cleared first; the API has no refresh flow so the user must log in again.
func (a *AuthService) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())
		tokenStatus, s := a.CheckTokenStatus(r)

		switch tokenStatus {
		case TokenValid:
			reqLogger.Debug("Authentication check successful",
				slog.String("component", "ui.RequireAuth"),
			)
			ctx := session.ContextWithSession(r.Context(), s)
			if logger.HasLogAttrs(ctx) {
				ctx = logger.ContextWithLogAttrs(ctx, slog.String("account_id", s.Account.ID.String()))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		case TokenExpired:
			reqLogger.Debug("Session expired - redirecting to login",
				slog.String("component", "ui.RequireAuth"),
			)
			a.ClearSessionCookie(w)
			redirectToLogin(w, r)
		default:
			reqLogger.Debug("Authentication failed - redirecting to login",
				slog.String("component", "ui.RequireAuth"),
				slog.String("status", tokenStatus.String()),
			)
			redirectToLogin(w, r)
		}
	})
}

// RequireAdminRole is middleware that only lets admin accounts through.
// It must run after RequireAuth.
func (a *AuthService) RequireAdminRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		s, ok := session.FromContext(r.Context())
		if !ok {
			reqLogger.Error("No session on context",
				slog.String("component", "ui.RequireAdminRole"),
			)
			redirectToAccessDenied(w, r)
			return
		}

		if !s.Role().IsAdmin() {
			reqLogger.Debug("Access denied - account attempted to access admin feature",
				slog.String("component", "ui.RequireAdminRole"),
				slog.String("account_id", s.Account.ID.String()),
				slog.String("role", string(s.Role())),
			)
			redirectToAccessDenied(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedirectTo sends the browser to path for both HTMX and direct requests
func RedirectTo(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	RedirectTo(w, r, "/login")
}

func redirectToAccessDenied(w http.ResponseWriter, r *http.Request) {
	RedirectTo(w, r, "/access-denied")
}
