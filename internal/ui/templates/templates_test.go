package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/childcare-management/childcare-ui/internal/ui/forms"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestAlertsEscapeMessages(t *testing.T) {
	tests := []struct {
		name      string
		component templ.Component
		want      []string
		notWant   []string
	}{
		{
			name:      "error alert",
			component: ErrorAlert(`<script>alert("x")</script>`),
			want:      []string{`alert-error`, `&lt;script&gt;`},
			notWant:   []string{`<script>`},
		},
		{
			name:      "success alert",
			component: SuccessAlert("Child created successfully."),
			want:      []string{`alert-success`, `Child created successfully.`},
		},
		{
			name:      "no alerts",
			component: Alerts("", ""),
			notWant:   []string{`alert`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.component)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q does not contain %q", out, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output %q should not contain %q", out, nw)
				}
			}
		})
	}
}

func TestLayoutNavigation(t *testing.T) {
	anonymous := render(t, LoginPage("tok", "a@example.com", ""))
	if strings.Contains(anonymous, `action="/logout"`) {
		t.Error("login page should not show the logout form")
	}
	if !strings.Contains(anonymous, `name="gorilla.csrf.Token" value="tok"`) {
		t.Error("login form is missing the csrf field")
	}
	if !strings.Contains(anonymous, `value="a@example.com"`) {
		t.Error("login form did not echo the email")
	}

	nav := Nav{Account: "Jo", Links: []Link{{Title: "Children", Href: "/staff/children"}}, CSRFToken: "tok"}
	out := render(t, DashboardPage(nav, "Staff dashboard", nav.Links))
	for _, want := range []string{`action="/logout"`, `href="/staff/children"`, `Jo`} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard does not contain %q", want)
		}
	}
}

func TestChildFormPage(t *testing.T) {
	nav := Nav{Account: "Jo", CSRFToken: "tok"}

	t.Run("add", func(t *testing.T) {
		form := forms.NewChildForm(nil, "")
		out := render(t, ChildFormPage(nav, "/staff/children", form))

		for _, want := range []string{
			`Add New Child`,
			`action="/staff/children/new"`,
			`<option value="">Select Gender</option>`,
			`name="parent_contact"`,
			`Add Child`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q", want)
			}
		}
	})

	t.Run("edit keeps values and selects gender", func(t *testing.T) {
		form := forms.NewChildForm(nil, "12")
		form.Fields = types.Child{Name: `Ada "Ace"`, Gender: types.GenderFemale, Allergies: "nuts"}
		form.Alert = forms.Alert{Kind: forms.AlertError, Message: forms.MsgChildSaveFailed}

		out := render(t, ChildFormPage(nav, "/admin/children", form))

		for _, want := range []string{
			`Edit Child`,
			`action="/admin/children/12/edit"`,
			`value="Ada &#34;Ace&#34;"`,
			`<option value="Female" selected>`,
			`>nuts</textarea>`,
			forms.MsgChildSaveFailed,
			`Update Child`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q", want)
			}
		}
	})

	t.Run("loading disables submit", func(t *testing.T) {
		form := forms.NewChildForm(nil, "")
		form.Loading = true
		out := render(t, ChildFormPage(nav, "/staff/children", form))
		if !strings.Contains(out, ` disabled>Saving...</button>`) {
			t.Error("submit button should be disabled while loading")
		}
	})
}

func TestRecordsListPage(t *testing.T) {
	records := []types.Record{
		{"id": 1, "status": "present"},
		{"id": 2, "notes": "<b>late</b>"},
	}
	out := render(t, RecordsListPage(Nav{}, "Attendance", "/admin/attendance", records, "", "Record deleted."))

	for _, want := range []string{
		`<th>id</th><th>notes</th><th>status</th>`,
		`href="/admin/attendance/1"`,
		`href="/admin/attendance/1/edit"`,
		`href="/admin/attendance/new"`,
		`action="/admin/attendance/2/delete"`,
		`&lt;b&gt;late&lt;/b&gt;`,
		`Record deleted.`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}

	empty := render(t, RecordsListPage(Nav{}, "Billing", "/admin/billing", nil, "", ""))
	if !strings.Contains(empty, "No Billing found.") {
		t.Error("empty listing message missing")
	}
}

func TestJSONView(t *testing.T) {
	out := render(t, JSONView(types.Record{"id": 3, "name": "<x>"}))

	if !strings.Contains(out, "<pre") {
		t.Errorf("expected highlighted output in a pre block, got %q", out)
	}
	if strings.Contains(out, "<x>") {
		t.Error("record values must be escaped")
	}
}

func TestUsersPage(t *testing.T) {
	users := []types.User{{ID: "5", Email: "jo@example.com", FullName: "Jo Bloggs", Role: types.RoleStaff}}
	out := render(t, UsersPage(Nav{Account: "admin", CSRFToken: "tok"}, users, "", ""))

	for _, want := range []string{
		`Jo Bloggs`,
		`action="/admin/users/5/password"`,
		`action="/admin/users/5/delete"`,
		`hx-get="/admin/users/available-staff"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}

	fragment := render(t, AvailableStaffList(nil))
	if !strings.Contains(fragment, "Every staff account") {
		t.Errorf("unexpected fragment %q", fragment)
	}
}

func TestRecordFormPage(t *testing.T) {
	nav := Nav{Account: "Jo", CSRFToken: "tok"}
	fields := []forms.RecordField{
		{Name: "child_id", Label: "Child ID", InputType: "number", Required: true},
		{Name: "check_in", Label: "Check in", InputType: "time"},
		{Name: "notes", Label: "Notes", InputType: "textarea"},
	}

	t.Run("add", func(t *testing.T) {
		form := forms.NewRecordForm(nil, "attendance", fields, "")
		out := render(t, RecordFormPage(nav, "Attendance", "/staff/attendance", form))

		for _, want := range []string{
			`Add Attendance`,
			`action="/staff/attendance/new"`,
			`<label for="child_id">Child ID *</label>`,
			`name="child_id" value="" step="any" required>`,
			`name="check_in" value="" step="1">`,
			`name="gorilla.csrf.Token" value="tok"`,
			`>Create</button>`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q", want)
			}
		}
	})

	t.Run("edit echoes values", func(t *testing.T) {
		form := forms.NewRecordForm(nil, "attendance", fields, "4")
		form.Values = map[string]string{"check_in": "08:30", "notes": `<b>nap</b>`}
		form.Alert = forms.Alert{Kind: forms.AlertError, Message: forms.MsgRecordSaveFailed}

		out := render(t, RecordFormPage(nav, "Attendance", "/admin/attendance", form))

		for _, want := range []string{
			`Edit Attendance 4`,
			`action="/admin/attendance/4/edit"`,
			`name="check_in" value="08:30" step="1">`,
			`>&lt;b&gt;nap&lt;/b&gt;</textarea>`,
			forms.MsgRecordSaveFailed,
			`>Update</button>`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q", want)
			}
		}
	})
}
