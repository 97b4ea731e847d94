package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

// HandleHome handles the root path and redirects to the area dashboard if authenticated, login if not
func (h *HandlerService) HandleHome(w http.ResponseWriter, r *http.Request) {
	status, s := h.AuthService.CheckTokenStatus(r)

	switch status {
	case auth.TokenValid:
		http.Redirect(w, r, auth.AreaPath(s.Role())+"/", http.StatusSeeOther)
	default:
		auth.RedirectTo(w, r, "/login")
	}
}

// HandleLogin renders the login page, users that are already logged in go to their dashboard
func (h *HandlerService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if status, s := h.AuthService.CheckTokenStatus(r); status == auth.TokenValid {
		http.Redirect(w, r, auth.AreaPath(s.Role())+"/", http.StatusSeeOther)
		return
	}

	render(w, r, templates.LoginPage(csrf.Token(r), "", ""), "login page")
}

// HandleLoginPost authenticates the user and stores the session cookie.
//
// The token returned by the API is used straight away to fetch the account details (/auth/me),
// the role decides which area the user lands in.
func (h *HandlerService) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	renderLoginError := func(msg string) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render(w, r, templates.LoginPage(csrf.Token(r), email, msg), "login page")
	}

	if email == "" || password == "" {
		renderLoginError("Please enter your email and password.")
		return
	}

	tokenDetails, err := h.ApiClient.Auth.Login(r.Context(), types.LoginRequest{Email: email, Password: password})
	if err != nil {
		reqLogger.Error("Authentication failed", slog.String("error", err.Error()))
		if sessionRejected(err) {
			renderLoginError("Incorrect email or password.")
			return
		}
		renderLoginError(userMessage(err))
		return
	}

	s := &session.Session{
		AccessToken: tokenDetails.AccessToken,
		TokenType:   tokenDetails.TokenType,
	}

	me, err := h.ApiClient.Auth.Me(session.ContextWithSession(r.Context(), s))
	if err != nil {
		reqLogger.Error("Failed to fetch account details after login", slog.String("error", err.Error()))
		renderLoginError(userMessage(err))
		return
	}

	s.Account = session.Account{
		ID:       me.ID,
		Email:    me.Email,
		Username: me.Username,
		Role:     me.Role,
	}

	if err := h.AuthService.SetSessionCookie(w, s); err != nil {
		reqLogger.Error("Failed to set session cookie", slog.String("error", err.Error()))
		renderLoginError(genericErrorMessage)
		return
	}

	// Login successful - add account log attribute to context so it is included in the final request log
	if logger.HasLogAttrs(r.Context()) {
		r = r.WithContext(logger.ContextWithLogAttrs(r.Context(), slog.String("account_id", me.ID.String())))
	}

	auth.RedirectTo(w, r, auth.AreaPath(me.Role)+"/")
}

func (h *HandlerService) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.ClearSessionCookie(w)
	auth.RedirectTo(w, r, "/login")
}

// HandleAccessDenied renders the access denied page
func (h *HandlerService) HandleAccessDenied(w http.ResponseWriter, r *http.Request) {
	homePath := "/"
	if status, s := h.AuthService.CheckTokenStatus(r); status == auth.TokenValid {
		homePath = auth.AreaPath(s.Role()) + "/"
	}

	w.WriteHeader(http.StatusForbidden)
	render(w, r, templates.AccessDeniedPage(h.nav(r), homePath), "access denied page")
}

// HandleLiveness reports that the process is up
func (h *HandlerService) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
