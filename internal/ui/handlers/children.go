package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/forms"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
)

// HandleDashboard renders the landing page of the requested area
func (h *HandlerService) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	area := areaPath(r)

	heading := "Staff dashboard"
	if area == auth.AdminArea {
		heading = "Admin dashboard"
	}

	// the dashboard link itself is not shown as a card
	links := areaLinks(area)[1:]

	render(w, r, templates.DashboardPage(h.nav(r), heading, links), "dashboard")
}

func childrenPath(r *http.Request) string {
	return areaPath(r) + "/children"
}

// HandleChildrenList renders the children of the current area
func (h *HandlerService) HandleChildrenList(w http.ResponseWriter, r *http.Request) {
	var errorMsg string

	children, err := h.ApiClient.Children.List(r.Context())
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to list children") {
			return
		}
		errorMsg = userMessage(err)
	}

	render(w, r, templates.ChildrenListPage(h.nav(r), childrenPath(r), children, errorMsg, flashMessage(r)), "children list")
}

// HandleChildNew renders an empty child form
func (h *HandlerService) HandleChildNew(w http.ResponseWriter, r *http.Request) {
	form := forms.NewChildForm(h.ApiClient.Children, "")
	render(w, r, templates.ChildFormPage(h.nav(r), childrenPath(r), form), "child form")
}

// HandleChildEdit renders the form of an existing child.
// When the child cannot be fetched the form is shown with empty fields and an error alert.
func (h *HandlerService) HandleChildEdit(w http.ResponseWriter, r *http.Request) {
	form := forms.NewChildForm(h.ApiClient.Children, chi.URLParam(r, "id"))

	if err := form.Load(r.Context()); err != nil {
		if h.handleAPIError(w, r, err, "Failed to fetch child") {
			return
		}
	}

	render(w, r, templates.ChildFormPage(h.nav(r), childrenPath(r), form), "child form")
}

// HandleChildSave handles the post of the add and edit forms.
// The child is updated when the route carries an id, created otherwise.
func (h *HandlerService) HandleChildSave(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	form := forms.NewChildForm(h.ApiClient.Children, chi.URLParam(r, "id"))

	if err := r.ParseForm(); err != nil {
		reqLogger.Error("Failed to parse child form", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, templates.ErrorAlert("Invalid form submission."), "error alert")
		return
	}
	form.SetValues(r.PostForm)

	redirect, err := form.Submit(r.Context(), accountRole(r))
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to save child") {
			return
		}
		// the API reason (e.g. a validation failure) is shown after the generic message
		if detail := userMessage(err); detail != genericErrorMessage {
			form.Alert.Message += " " + detail
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		render(w, r, templates.ChildFormPage(h.nav(r), childrenPath(r), form), "child form")
		return
	}

	flash := "child-created"
	if form.IsEdit() {
		flash = "child-updated"
	}
	auth.RedirectTo(w, r, withFlash(redirect, flash))
}

// HandleChildDelete deletes a child and returns to the listing
func (h *HandlerService) HandleChildDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.ApiClient.Children.Delete(r.Context(), id); err != nil {
		if h.handleAPIError(w, r, err, "Failed to delete child") {
			return
		}
		children, listErr := h.ApiClient.Children.List(r.Context())
		if listErr != nil {
			logger.ContextRequestLogger(r.Context()).Error("Failed to list children", slog.String("error", listErr.Error()))
		}
		render(w, r, templates.ChildrenListPage(h.nav(r), childrenPath(r), children, userMessage(err), ""), "children list")
		return
	}

	auth.RedirectTo(w, r, withFlash(childrenPath(r), "deleted"))
}
