package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/client"
	"github.com/childcare-management/childcare-ui/internal/ui/forms"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

type HandlerService struct {
	AuthService *auth.AuthService
	ApiClient   *client.Client
	Environment string
}

const genericErrorMessage = "An error occurred. Please try again."

// flash messages shown on a listing after a redirect, keyed by the ?msg= value
var flashMessages = map[string]string{
	"child-created":    forms.MsgChildCreated,
	"child-updated":    forms.MsgChildUpdated,
	"record-created":   forms.MsgRecordCreated,
	"record-updated":   forms.MsgRecordUpdated,
	"deleted":          "Record deleted.",
	"password-set":     "Password updated.",
	"user-deleted":     "User deleted.",
	"password-changed": "Your password has been changed.",
}

func flashMessage(r *http.Request) string {
	return flashMessages[r.URL.Query().Get("msg")]
}

// withFlash appends the ?msg= key to a redirect target
func withFlash(path, key string) string {
	return path + "?msg=" + key
}

// userMessage returns the message to show for err
func userMessage(err error) string {
	var ce *client.ClientError
	if errors.As(err, &ce) {
		return ce.UserError()
	}
	return genericErrorMessage
}

// sessionRejected reports whether the API refused the session token
func sessionRejected(err error) bool {
	var ce *client.ClientError
	return errors.As(err, &ce) && ce.StatusCode == http.StatusUnauthorized
}

// handleAPIError logs a failed API call. When the API rejected the token the session cookie is
// cleared, the user is sent to the login page and true is returned.
func (h *HandlerService) handleAPIError(w http.ResponseWriter, r *http.Request, err error, msg string) bool {
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error(msg, slog.String("error", err.Error()))

	if sessionRejected(err) {
		h.AuthService.ClearSessionCookie(w)
		auth.RedirectTo(w, r, "/login")
		return true
	}
	return false
}

// render writes a component and logs render failures
func render(w http.ResponseWriter, r *http.Request, component templ.Component, name string) {
	if err := component.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render "+name, slog.String("error", err.Error()))
	}
}

// currentSession returns the session placed on the context by RequireAuth
func currentSession(r *http.Request) *session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}

// areaPath returns the area (/admin or /staff) of the requested page
func areaPath(r *http.Request) string {
	if strings.HasPrefix(r.URL.Path, auth.AdminArea+"/") || r.URL.Path == auth.AdminArea {
		return auth.AdminArea
	}
	return auth.StaffArea
}

// areaLinks returns the navigation entries of an area
func areaLinks(area string) []templates.Link {
	links := []templates.Link{
		{Title: "Dashboard", Href: area + "/"},
		{Title: "Children", Href: area + "/children"},
	}
	for _, res := range recordResources {
		links = append(links, templates.Link{Title: res.Title, Href: area + "/" + res.Slug})
	}
	if area == auth.AdminArea {
		links = append(links, templates.Link{Title: "Users", Href: "/admin/users"})
	}
	return links
}

// nav builds the navigation bar for the logged in user
func (h *HandlerService) nav(r *http.Request) templates.Nav {
	s := currentSession(r)
	if s == nil {
		return templates.Nav{}
	}

	account := s.Account.Username
	if account == "" {
		account = s.Account.Email
	}
	if account == "" {
		account = "Account " + s.Account.ID.String()
	}

	area := auth.AreaPath(s.Role())
	if strings.HasPrefix(r.URL.Path, auth.AdminArea) || strings.HasPrefix(r.URL.Path, auth.StaffArea) {
		area = areaPath(r)
	}

	return templates.Nav{
		Account:   account,
		Links:     areaLinks(area),
		CSRFToken: csrf.Token(r),
	}
}

// accountRole returns the role of the logged in user, "" when there is no session
func accountRole(r *http.Request) types.Role {
	return currentSession(r).Role()
}
