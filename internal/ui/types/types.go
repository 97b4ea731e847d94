package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// =============================================================================
// IDENTIFIERS & ROLES
// =============================================================================
// These types are shared to avoid circular imports between auth, client, forms and handlers

// ID is a server assigned identifier. The API returns integer ids but string ids are accepted too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Role is the user role reported by the auth API
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccessTokenDetails represents the response from the login endpoint
type AccessTokenDetails struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is an account as returned by the auth endpoints
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
}

// DisplayName returns the best available human readable name for the account
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// ChangePasswordRequest is the body of PUT /auth/change-password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AdminChangePasswordRequest is the body of PUT /auth/admin/change-password/{id}
type AdminChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// =============================================================================
// CHILDREN
// =============================================================================

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the values offered by the gender dropdown
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Child is a child record. The id is assigned by the server and never sent back in a payload.
type Child struct {
	ID            ID     `json:"id,omitempty"`
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	Gender        Gender `json:"gender"`
	ParentName    string `json:"parent_name"`
	ParentContact string `json:"parent_contact"`
	Address       string `json:"address"`
	Allergies     string `json:"allergies"`
	MedicalInfo   string `json:"medical_info"`
}

// UnmarshalJSON fills every field from its JSON value whatever the value's type.
// Missing and null values become "", numbers keep their literal form.
func (c *Child) UnmarshalJSON(data []byte) error {
	var rec Record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return err
	}

	*c = Child{
		ID:            ID(rec.Display("id")),
		Name:          rec.Display("name"),
		DOB:           rec.Display("dob"),
		Gender:        Gender(rec.Display("gender")),
		ParentName:    rec.Display("parent_name"),
		ParentContact: rec.Display("parent_contact"),
		Address:       rec.Display("address"),
		Allergies:     rec.Display("allergies"),
		MedicalInfo:   rec.Display("medical_info"),
	}
	return nil
}

// =============================================================================
// OPAQUE RECORDS
// =============================================================================

// Record is an untyped JSON object used for resources the UI does not interpret
// (staff, attendance, health records, activities, billing entries).
type Record map[string]any

// ID returns the record id as a string, or "" if the record has none
func (r Record) ID() string {
	v, ok := r["id"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Keys returns the record keys in a stable order with "id" first
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := r["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}
	return keys
}

// Display formats a single value for a table cell
func (r Record) Display(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// RecordColumns returns the union of keys across records, "id" first then alphabetical
func RecordColumns(records []Record) []string {
	seen := make(map[string]bool)
	hasID := false
	var cols []string
	for _, r := range records {
		for k := range r {
			if k == "id" {
				hasID = true
				continue
			}
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	if hasID {
		cols = append([]string{"id"}, cols...)
	}
	return cols
}

// ErrorResponse is the error body returned by the API (FastAPI style)
type ErrorResponse struct {
	Detail  json.RawMessage `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
}
