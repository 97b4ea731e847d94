// Package templates renders the HTML pages and fragments of the UI.
//
// The markup lives in the .templ files, run `templ generate` after editing them.
package templates

import (
	"github.com/childcare-management/childcare-ui/internal/ui/forms"
)

//go:generate go tool templ generate

// Link is a navigation entry
type Link struct {
	Title string
	Href  string
}

// Nav describes the navigation bar of a logged in user. The zero value renders no navigation.
type Nav struct {
	Account   string
	Links     []Link
	CSRFToken string
}

func requiredLabel(label string, required bool) string {
	if required {
		return label + " *"
	}
	return label
}

type childField struct {
	name        string
	label       string
	inputType   string
	placeholder string
	required    bool
	textarea    bool
}

var childFields = []childField{
	{name: "name", label: "Child's Name", inputType: "text", placeholder: "Enter child's full name", required: true},
	{name: "dob", label: "Date of Birth", inputType: "date", required: true},
	{name: "gender", label: "Gender", required: true},
	{name: "parent_name", label: "Parent/Guardian Name", inputType: "text", placeholder: "Enter parent or guardian name", required: true},
	{name: "parent_contact", label: "Contact Number", inputType: "tel", placeholder: "Enter contact number", required: true},
	{name: "address", label: "Address", placeholder: "Enter home address", textarea: true},
	{name: "allergies", label: "Allergies", placeholder: "List any known allergies or leave blank if none", textarea: true},
	{name: "medical_info", label: "Medical Information", placeholder: "Any medical conditions, medications, or special care instructions", textarea: true},
}

func childFormTitle(form *forms.ChildForm) string {
	if form.IsEdit() {
		return "Edit Child"
	}
	return "Add New Child"
}

func childFormAction(basePath string, form *forms.ChildForm) string {
	if form.IsEdit() {
		return basePath + "/" + form.ID + "/edit"
	}
	return basePath + "/new"
}

func childSubmitLabel(form *forms.ChildForm) string {
	switch {
	case form.Loading:
		return "Saving..."
	case form.IsEdit():
		return "Update Child"
	}
	return "Add Child"
}

func recordFormTitle(title string, form *forms.RecordForm) string {
	if form.IsEdit() {
		return "Edit " + title + " " + form.ID
	}
	return "Add " + title
}

func recordFormAction(basePath string, form *forms.RecordForm) string {
	if form.IsEdit() {
		return basePath + "/" + form.ID + "/edit"
	}
	return basePath + "/new"
}

func recordSubmitLabel(form *forms.RecordForm) string {
	switch {
	case form.Loading:
		return "Saving..."
	case form.IsEdit():
		return "Update"
	}
	return "Create"
}
