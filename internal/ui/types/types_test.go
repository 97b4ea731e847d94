package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"integer", `{"id": 12}`, "12", false},
		{"string", `{"id": "a1b2"}`, "a1b2", false},
		{"null", `{"id": null}`, "", false},
		{"absent", `{}`, "", false},
		{"object", `{"id": {"x": 1}}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			err := json.Unmarshal([]byte(tt.input), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && v.ID != tt.want {
				t.Errorf("ID = %q, want %q", v.ID, tt.want)
			}
		})
	}
}

func TestChildDecodeMissingFields(t *testing.T) {
	var c Child
	if err := json.Unmarshal([]byte(`{"id": 3, "name": "Ada", "allergies": null}`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.ID != "3" || c.Name != "Ada" {
		t.Errorf("unexpected child %+v", c)
	}
	if c.Allergies != "" || c.DOB != "" || c.Gender != "" {
		t.Errorf("missing fields should decode to empty strings, got %+v", c)
	}
}

func TestChildDecodeUnexpectedTypes(t *testing.T) {
	input := `{"id": 3, "name": "Ada", "parent_contact": 5551234, "allergies": false, "address": 12.5}`

	var c Child
	if err := json.Unmarshal([]byte(input), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := Child{ID: "3", Name: "Ada", ParentContact: "5551234", Allergies: "false", Address: "12.5"}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}

	if err := json.Unmarshal([]byte(`["not", "a", "child"]`), &c); err == nil {
		t.Error("expected an error for a JSON array")
	}
}

func TestChildPayloadOmitsEmptyID(t *testing.T) {
	b, err := json.Marshal(Child{Name: "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["id"]; ok {
		t.Errorf("payload should not carry an id: %s", b)
	}
	if _, ok := m["medical_info"]; !ok {
		t.Errorf("payload should carry every child field: %s", b)
	}
}

func TestRecordHelpers(t *testing.T) {
	records := []Record{
		{"id": json.Number("7"), "name": "Sam", "role": "practitioner"},
		{"id": json.Number("8"), "email": "x@example.com", "tags": []any{"a", "b"}},
	}

	if got := records[0].ID(); got != "7" {
		t.Errorf("ID() = %q, want 7", got)
	}
	if got := (Record{}).ID(); got != "" {
		t.Errorf("ID() of empty record = %q, want empty", got)
	}

	wantCols := []string{"id", "email", "name", "role", "tags"}
	if got := RecordColumns(records); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("RecordColumns() = %v, want %v", got, wantCols)
	}

	if got := records[1].Display("tags"); got != `["a","b"]` {
		t.Errorf("Display(tags) = %q", got)
	}
	if got := records[0].Display("missing"); got != "" {
		t.Errorf("Display(missing) = %q, want empty", got)
	}

	wantKeys := []string{"id", "name", "role"}
	if got := records[0].Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("Keys() = %v, want %v", got, wantKeys)
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{FullName: "Jo Bloggs", Username: "jo", Email: "jo@example.com"}, "Jo Bloggs"},
		{User{Username: "jo", Email: "jo@example.com"}, "jo"},
		{User{Email: "jo@example.com"}, "jo@example.com"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
