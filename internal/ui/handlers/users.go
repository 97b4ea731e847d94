package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

const usersPath = "/admin/users"

// minPasswordLength matches the shortest password the UI will send to the API
const minPasswordLength = 8

const msgWrongPassword = "Your current password is incorrect."

// renderUsersPage lists the accounts with the supplied alerts. Access is validated by RequireAdminRole.
// status is written once the accounts are loaded so a rejected session can still redirect.
func (h *HandlerService) renderUsersPage(w http.ResponseWriter, r *http.Request, status int, errorMsg, successMsg string) {
	users, err := h.ApiClient.Auth.ListUsers(r.Context())
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to list users") {
			return
		}
		if errorMsg == "" {
			errorMsg = userMessage(err)
		}
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	render(w, r, templates.UsersPage(h.nav(r), users, errorMsg, successMsg), "users page")
}

func (h *HandlerService) HandleUsers(w http.ResponseWriter, r *http.Request) {
	h.renderUsersPage(w, r, http.StatusOK, "", flashMessage(r))
}

// HandleAvailableStaff returns the fragment listing staff accounts without a staff record
func (h *HandlerService) HandleAvailableStaff(w http.ResponseWriter, r *http.Request) {
	users, err := h.ApiClient.Auth.AvailableStaffUsers(r.Context())
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to list available staff users") {
			return
		}
		render(w, r, templates.ErrorAlert(userMessage(err)), "error alert")
		return
	}

	render(w, r, templates.AvailableStaffList(users), "available staff list")
}

// HandleAdminSetPassword sets the password of another account
func (h *HandlerService) HandleAdminSetPassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	newPassword := r.FormValue("new_password")

	if len(newPassword) < minPasswordLength {
		h.renderUsersPage(w, r, http.StatusUnprocessableEntity, "Passwords must be at least 8 characters.", "")
		return
	}

	_, err := h.ApiClient.Auth.AdminChangePassword(r.Context(), userID, types.AdminChangePasswordRequest{NewPassword: newPassword})
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to set user password") {
			return
		}
		h.renderUsersPage(w, r, http.StatusOK, userMessage(err), "")
		return
	}

	logger.ContextRequestLogger(r.Context()).Info("Password set by admin", slog.String("user_id", userID))
	auth.RedirectTo(w, r, withFlash(usersPath, "password-set"))
}

// HandleUserDelete deletes an account. Admins cannot delete their own account.
func (h *HandlerService) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if s := currentSession(r); s != nil && s.Account.ID.String() == userID {
		h.renderUsersPage(w, r, http.StatusUnprocessableEntity, "You cannot delete your own account.", "")
		return
	}

	if _, err := h.ApiClient.Auth.DeleteUser(r.Context(), userID); err != nil {
		if h.handleAPIError(w, r, err, "Failed to delete user") {
			return
		}
		h.renderUsersPage(w, r, http.StatusOK, userMessage(err), "")
		return
	}

	auth.RedirectTo(w, r, withFlash(usersPath, "user-deleted"))
}

// HandleChangePassword renders the change password form of the logged in account
func (h *HandlerService) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.ChangePasswordPage(h.nav(r), csrf.Token(r), "", flashMessage(r)), "change password page")
}

// HandleChangePasswordPost changes the password of the logged in account
func (h *HandlerService) HandleChangePasswordPost(w http.ResponseWriter, r *http.Request) {
	oldPassword := r.FormValue("old_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	renderError := func(status int, msg string) {
		w.WriteHeader(status)
		render(w, r, templates.ChangePasswordPage(h.nav(r), csrf.Token(r), msg, ""), "change password page")
	}

	switch {
	case oldPassword == "" || newPassword == "" || confirmPassword == "":
		renderError(http.StatusUnprocessableEntity, "Please fill in all fields.")
		return
	case newPassword != confirmPassword:
		renderError(http.StatusUnprocessableEntity, "Passwords do not match.")
		return
	case len(newPassword) < minPasswordLength:
		renderError(http.StatusUnprocessableEntity, "Passwords must be at least 8 characters.")
		return
	}

	_, err := h.ApiClient.Auth.ChangePassword(r.Context(), types.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		// the API answers a wrong current password with 401, which must not end the session
		if sessionRejected(err) {
			logger.ContextRequestLogger(r.Context()).Warn("Current password rejected", slog.String("error", err.Error()))
			renderError(http.StatusUnprocessableEntity, msgWrongPassword)
			return
		}
		if h.handleAPIError(w, r, err, "Failed to change password") {
			return
		}
		renderError(http.StatusOK, userMessage(err))
		return
	}

	auth.RedirectTo(w, r, withFlash("/account/password", "password-changed"))
}
