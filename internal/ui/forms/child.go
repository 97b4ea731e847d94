// Package forms holds the state of the editable forms rendered by the UI handlers.
//
// A form is created per request: the handler loads it (edit pages), applies the posted values
// and submits it. The form talks to the API through a small store interface so it can be
// exercised without a server.
package forms

import (
	"context"
	"net/url"

	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

const (
	MsgChildFetchFailed = "Failed to fetch child data."
	MsgChildUpdated     = "Child updated successfully."
	MsgChildCreated     = "Child created successfully."
	MsgChildSaveFailed  = "Failed to save child."
)

// ChildStore is the part of the children API used by the form.
// *client.Resource[types.Child] satisfies it.
type ChildStore interface {
	Get(ctx context.Context, id string) (types.Child, error)
	Create(ctx context.Context, data types.Child) (types.Child, error)
	Update(ctx context.Context, id string, data types.Child) (types.Child, error)
}

type AlertKind int

const (
	AlertNone AlertKind = iota
	AlertSuccess
	AlertError
)

// Alert is the message shown to the user after a form action
type Alert struct {
	Kind    AlertKind
	Message string
}

// ChildFieldNames are the form input names in display order
var ChildFieldNames = []string{
	"name",
	"dob",
	"gender",
	"parent_name",
	"parent_contact",
	"address",
	"allergies",
	"medical_info",
}

// ChildForm is the add/edit form of a child.
// ID is empty when adding a child; Fields never carries an id.
type ChildForm struct {
	ID      string
	Loading bool
	Fields  types.Child
	Alert   Alert

	store ChildStore
}

func NewChildForm(store ChildStore, id string) *ChildForm {
	return &ChildForm{
		ID:    id,
		store: store,
	}
}

// IsEdit reports whether the form edits an existing child
func (f *ChildForm) IsEdit() bool {
	return f.ID != ""
}

// Load fetches the child being edited. It does nothing when the form has no id.
//
// On failure the fields keep their defaults, the error alert is set and the error is returned
// for logging.
func (f *ChildForm) Load(ctx context.Context) error {
	if !f.IsEdit() {
		return nil
	}

	f.Loading = true
	defer func() { f.Loading = false }()

	child, err := f.store.Get(ctx, f.ID)
	if err != nil {
		f.Alert = Alert{Kind: AlertError, Message: MsgChildFetchFailed}
		return err
	}

	child.ID = ""
	f.Fields = child
	return nil
}

// Set updates the field with the given form name. It returns false for unknown names.
func (f *ChildForm) Set(name, value string) bool {
	switch name {
	case "name":
		f.Fields.Name = value
	case "dob":
		f.Fields.DOB = value
	case "gender":
		f.Fields.Gender = types.Gender(value)
	case "parent_name":
		f.Fields.ParentName = value
	case "parent_contact":
		f.Fields.ParentContact = value
	case "address":
		f.Fields.Address = value
	case "allergies":
		f.Fields.Allergies = value
	case "medical_info":
		f.Fields.MedicalInfo = value
	default:
		return false
	}
	return true
}

// Value returns the current value of the field with the given form name
func (f *ChildForm) Value(name string) string {
	switch name {
	case "name":
		return f.Fields.Name
	case "dob":
		return f.Fields.DOB
	case "gender":
		return string(f.Fields.Gender)
	case "parent_name":
		return f.Fields.ParentName
	case "parent_contact":
		return f.Fields.ParentContact
	case "address":
		return f.Fields.Address
	case "allergies":
		return f.Fields.Allergies
	case "medical_info":
		return f.Fields.MedicalInfo
	}
	return ""
}

// SetValues applies the posted form values, fields that were not posted are left unchanged
func (f *ChildForm) SetValues(values url.Values) {
	for _, name := range ChildFieldNames {
		if _, ok := values[name]; ok {
			f.Set(name, values.Get(name))
		}
	}
}

// Submit creates the child, or updates it when the form has an id.
//
// On success the success alert is set and the children listing of role is returned as the
// redirect target. On failure the error alert is set, no redirect is returned and the form
// stays as it is so the user can retry.
func (f *ChildForm) Submit(ctx context.Context, role types.Role) (string, error) {
	f.Loading = true
	defer func() { f.Loading = false }()

	payload := f.Fields
	payload.ID = ""

	var err error
	if f.IsEdit() {
		_, err = f.store.Update(ctx, f.ID, payload)
	} else {
		_, err = f.store.Create(ctx, payload)
	}
	if err != nil {
		f.Alert = Alert{Kind: AlertError, Message: MsgChildSaveFailed}
		return "", err
	}

	if f.IsEdit() {
		f.Alert = Alert{Kind: AlertSuccess, Message: MsgChildUpdated}
	} else {
		f.Alert = Alert{Kind: AlertSuccess, Message: MsgChildCreated}
	}

	return auth.ListingPath(role, "children"), nil
}
