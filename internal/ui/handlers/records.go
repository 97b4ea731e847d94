package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/client"
	"github.com/childcare-management/childcare-ui/internal/ui/forms"
	"github.com/childcare-management/childcare-ui/internal/ui/templates"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

// recordResource is a collection the UI edits without interpreting its records.
// Fields are the inputs of an empty form, edit forms add any other key the record carries.
type recordResource struct {
	Slug   string
	Title  string
	Fields []forms.RecordField
	api    func(*client.Client) *client.Resource[types.Record]
}

var recordResources = []recordResource{
	{
		Slug:  "staff",
		Title: "Staff",
		Fields: []forms.RecordField{
			{Name: "name", Label: "Name", InputType: "text", Required: true},
			{Name: "email", Label: "Email", InputType: "email"},
			{Name: "phone", Label: "Phone", InputType: "tel"},
			{Name: "position", Label: "Position", InputType: "text"},
		},
		api: func(c *client.Client) *client.Resource[types.Record] { return c.Staff },
	},
	{
		Slug:  "attendance",
		Title: "Attendance",
		Fields: []forms.RecordField{
			{Name: "child_id", Label: "Child ID", InputType: "number", Required: true},
			{Name: "date", Label: "Date", InputType: "date", Required: true},
			{Name: "check_in", Label: "Check in", InputType: "time"},
			{Name: "check_out", Label: "Check out", InputType: "time"},
		},
		api: func(c *client.Client) *client.Resource[types.Record] { return c.Attendance },
	},
	{
		Slug:  "health-records",
		Title: "Health Records",
		Fields: []forms.RecordField{
			{Name: "child_id", Label: "Child ID", InputType: "number", Required: true},
			{Name: "date", Label: "Date", InputType: "date"},
			{Name: "description", Label: "Description", InputType: "textarea", Required: true},
		},
		api: func(c *client.Client) *client.Resource[types.Record] { return c.HealthRecords },
	},
	{
		Slug:  "activities",
		Title: "Activities",
		Fields: []forms.RecordField{
			{Name: "name", Label: "Name", InputType: "text", Required: true},
			{Name: "date", Label: "Date", InputType: "date"},
			{Name: "description", Label: "Description", InputType: "textarea"},
		},
		api: func(c *client.Client) *client.Resource[types.Record] { return c.Activities },
	},
	{
		Slug:  "billing",
		Title: "Billing",
		Fields: []forms.RecordField{
			{Name: "child_id", Label: "Child ID", InputType: "number", Required: true},
			{Name: "amount", Label: "Amount", InputType: "number", Required: true},
			{Name: "due_date", Label: "Due date", InputType: "date"},
			{Name: "status", Label: "Status", InputType: "text"},
		},
		api: func(c *client.Client) *client.Resource[types.Record] { return c.Billing },
	},
}

func lookupRecordResource(slug string) (recordResource, bool) {
	for _, res := range recordResources {
		if res.Slug == slug {
			return res, true
		}
	}
	return recordResource{}, false
}

// resolveRecordResource reads the {resource} route parameter, unknown resources get a 404
func (h *HandlerService) resolveRecordResource(w http.ResponseWriter, r *http.Request) (recordResource, string, bool) {
	res, ok := lookupRecordResource(chi.URLParam(r, "resource"))
	if !ok {
		http.NotFound(w, r)
		return recordResource{}, "", false
	}
	return res, areaPath(r) + "/" + res.Slug, true
}

// HandleRecordsList renders the listing of one of the generic resources
func (h *HandlerService) HandleRecordsList(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	var errorMsg string
	records, err := res.api(h.ApiClient).List(r.Context())
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to list "+res.Slug) {
			return
		}
		errorMsg = userMessage(err)
	}

	render(w, r, templates.RecordsListPage(h.nav(r), res.Title, basePath, records, errorMsg, flashMessage(r)), res.Slug+" list")
}

// HandleRecordDetail renders a single record as JSON
func (h *HandlerService) HandleRecordDetail(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	record, err := res.api(h.ApiClient).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to fetch "+res.Slug+" record") {
			return
		}
		w.WriteHeader(statusFor(err))
		render(w, r, templates.RecordsListPage(h.nav(r), res.Title, basePath, nil, userMessage(err), ""), res.Slug+" list")
		return
	}

	render(w, r, templates.RecordDetailPage(h.nav(r), res.Title, basePath, record), res.Slug+" detail")
}

func (h *HandlerService) newRecordForm(res recordResource, id string) *forms.RecordForm {
	return forms.NewRecordForm(res.api(h.ApiClient), res.Slug, res.Fields, id)
}

// HandleRecordNew renders an empty record form
func (h *HandlerService) HandleRecordNew(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	form := h.newRecordForm(res, "")
	render(w, r, templates.RecordFormPage(h.nav(r), res.Title, basePath, form), res.Slug+" form")
}

// HandleRecordEdit renders the form of an existing record.
// When the record cannot be fetched the form is shown with empty fields and an error alert.
func (h *HandlerService) HandleRecordEdit(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	form := h.newRecordForm(res, chi.URLParam(r, "id"))
	if err := form.Load(r.Context()); err != nil {
		if h.handleAPIError(w, r, err, "Failed to fetch "+res.Slug+" record") {
			return
		}
	}

	render(w, r, templates.RecordFormPage(h.nav(r), res.Title, basePath, form), res.Slug+" form")
}

// HandleRecordSave handles the post of the add and edit record forms.
// The record is updated when the route carries an id, created otherwise.
func (h *HandlerService) HandleRecordSave(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("Failed to parse "+res.Slug+" form", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, templates.ErrorAlert("Invalid form submission."), "error alert")
		return
	}

	form := h.newRecordForm(res, chi.URLParam(r, "id"))
	form.SetValues(r.PostForm)

	redirect, err := form.Submit(r.Context(), accountRole(r))
	if err != nil {
		if h.handleAPIError(w, r, err, "Failed to save "+res.Slug+" record") {
			return
		}
		if detail := userMessage(err); detail != genericErrorMessage {
			form.Alert.Message += " " + detail
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		render(w, r, templates.RecordFormPage(h.nav(r), res.Title, basePath, form), res.Slug+" form")
		return
	}

	flash := "record-created"
	if form.IsEdit() {
		flash = "record-updated"
	}
	auth.RedirectTo(w, r, withFlash(redirect, flash))
}

// HandleRecordDelete deletes a record and returns to the listing
func (h *HandlerService) HandleRecordDelete(w http.ResponseWriter, r *http.Request) {
	res, basePath, ok := h.resolveRecordResource(w, r)
	if !ok {
		return
	}

	api := res.api(h.ApiClient)
	if _, err := api.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if h.handleAPIError(w, r, err, "Failed to delete "+res.Slug+" record") {
			return
		}
		records, listErr := api.List(r.Context())
		if listErr != nil {
			logger.ContextRequestLogger(r.Context()).Error("Failed to list "+res.Slug, slog.String("error", listErr.Error()))
		}
		render(w, r, templates.RecordsListPage(h.nav(r), res.Title, basePath, records, userMessage(err), ""), res.Slug+" list")
		return
	}

	auth.RedirectTo(w, r, withFlash(basePath, "deleted"))
}

// statusFor maps an API failure to the status of the rendered page
func statusFor(err error) int {
	var ce *client.ClientError
	if errors.As(err, &ce) && ce.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
