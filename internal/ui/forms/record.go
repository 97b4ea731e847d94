package forms

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"

	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

const (
	MsgRecordFetchFailed = "Failed to fetch record."
	MsgRecordUpdated     = "Record updated successfully."
	MsgRecordCreated     = "Record created successfully."
	MsgRecordSaveFailed  = "Failed to save record."
)

// RecordStore is the part of a generic resource API used by the form.
// *client.Resource[types.Record] satisfies it.
type RecordStore interface {
	Get(ctx context.Context, id string) (types.Record, error)
	Create(ctx context.Context, data types.Record) (types.Record, error)
	Update(ctx context.Context, id string, data types.Record) (types.Record, error)
}

// RecordField is one input of a record form
type RecordField struct {
	Name      string
	Label     string
	InputType string // html input type, "textarea" renders a text area
	Required  bool
}

// Step returns the step attribute of the input. Time inputs submit seconds.
func (f RecordField) Step() string {
	switch f.InputType {
	case "time":
		return "1"
	case "number":
		return "any"
	}
	return ""
}

// fieldName matches the keys accepted from a posted form
var fieldName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RecordForm is the add/edit form of a staff, attendance, health record, activity or billing entry.
//
// Fields starts with the inputs configured for the resource. Keys found in a loaded record or in
// a posted form that are not configured are added as text inputs, so no value is lost on edit.
type RecordForm struct {
	Resource string
	ID       string
	Loading  bool
	Fields   []RecordField
	Values   map[string]string
	Alert    Alert

	store RecordStore
}

func NewRecordForm(store RecordStore, resource string, fields []RecordField, id string) *RecordForm {
	return &RecordForm{
		Resource: resource,
		ID:       id,
		Fields:   append([]RecordField(nil), fields...),
		Values:   make(map[string]string),
		store:    store,
	}
}

// IsEdit reports whether the form edits an existing record
func (f *RecordForm) IsEdit() bool {
	return f.ID != ""
}

func (f *RecordForm) hasField(name string) bool {
	for _, field := range f.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

func (f *RecordForm) addField(name string) {
	if f.hasField(name) {
		return
	}
	f.Fields = append(f.Fields, RecordField{Name: name, Label: name, InputType: "text"})
}

// Load fetches the record being edited. It does nothing when the form has no id.
// On failure the fields keep their defaults, the error alert is set and the error is returned.
func (f *RecordForm) Load(ctx context.Context) error {
	if !f.IsEdit() {
		return nil
	}

	f.Loading = true
	defer func() { f.Loading = false }()

	record, err := f.store.Get(ctx, f.ID)
	if err != nil {
		f.Alert = Alert{Kind: AlertError, Message: MsgRecordFetchFailed}
		return err
	}

	for _, key := range record.Keys() {
		if key == "id" {
			continue
		}
		f.addField(key)
		f.Values[key] = record.Display(key)
	}
	return nil
}

// Value returns the current value of the named field
func (f *RecordForm) Value(name string) string {
	return f.Values[name]
}

// SetValues applies the posted form values. Posted keys that are not lower case field names
// (the csrf token, "id") are ignored.
func (f *RecordForm) SetValues(values url.Values) {
	for name := range values {
		if name == "id" || !fieldName.MatchString(name) {
			continue
		}
		f.addField(name)
		f.Values[name] = values.Get(name)
	}
}

// Payload builds the record sent to the API. Empty inputs are sent as null and number inputs
// as JSON numbers when they parse.
func (f *RecordForm) Payload() types.Record {
	payload := make(types.Record, len(f.Fields))
	for _, field := range f.Fields {
		v, ok := f.Values[field.Name]
		switch {
		case !ok || v == "":
			payload[field.Name] = nil
		case field.InputType == "number":
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				payload[field.Name] = json.Number(v)
			} else {
				payload[field.Name] = v
			}
		default:
			payload[field.Name] = v
		}
	}
	return payload
}

// Submit creates the record, or updates it when the form has an id, and returns the listing of
// the resource for role as the redirect target. On failure the error alert is set and no
// redirect is returned.
func (f *RecordForm) Submit(ctx context.Context, role types.Role) (string, error) {
	f.Loading = true
	defer func() { f.Loading = false }()

	var err error
	if f.IsEdit() {
		_, err = f.store.Update(ctx, f.ID, f.Payload())
	} else {
		_, err = f.store.Create(ctx, f.Payload())
	}
	if err != nil {
		f.Alert = Alert{Kind: AlertError, Message: MsgRecordSaveFailed}
		return "", err
	}

	if f.IsEdit() {
		f.Alert = Alert{Kind: AlertSuccess, Message: MsgRecordUpdated}
	} else {
		f.Alert = Alert{Kind: AlertSuccess, Message: MsgRecordCreated}
	}

	return auth.ListingPath(role, f.Resource), nil
}
