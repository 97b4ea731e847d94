package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/childcare-management/childcare-ui/internal/ui/session"
	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization []string
	ContentType   string
	RequestID     string
	Body          []byte
}

// fakeAPI records every request and replies with the configured status and body
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Values("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		RequestID:     r.Header.Get("X-Request-Id"),
		Body:          body,
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (f *fakeAPI) setBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = body
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request reached the fake API")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeAPI, tokens TokenSource) (*Client, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	return NewClient(server.URL, tokens, logger), &logs
}

func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name       string
		tokens     TokenSource
		wantHeader []string
	}{
		{
			name:       "static token",
			tokens:     session.StaticToken("abc123"),
			wantHeader: []string{"Bearer abc123"},
		},
		{
			name:       "empty static token omits the header",
			tokens:     session.StaticToken(""),
			wantHeader: nil,
		},
		{
			name:       "no token source omits the header",
			tokens:     nil,
			wantHeader: nil,
		},
		{
			name:       "context token source without a session omits the header",
			tokens:     session.ContextTokens{},
			wantHeader: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{body: `[]`}
			c, _ := newTestClient(t, api, tt.tokens)

			if _, err := c.Children.List(context.Background()); err != nil {
				t.Fatalf("List() error = %v", err)
			}

			got := api.last(t).Authorization
			if len(got) != len(tt.wantHeader) {
				t.Fatalf("Authorization header = %q, want %q", got, tt.wantHeader)
			}
			for i := range got {
				if got[i] != tt.wantHeader[i] {
					t.Errorf("Authorization header = %q, want %q", got, tt.wantHeader)
				}
			}
		})
	}
}

func TestContextTokenSource(t *testing.T) {
	api := &fakeAPI{body: `{"id": 1, "role": "admin"}`}
	c, _ := newTestClient(t, api, session.ContextTokens{})

	ctx := session.ContextWithSession(context.Background(), &session.Session{AccessToken: "from-session"})
	if _, err := c.Auth.Me(ctx); err != nil {
		t.Fatalf("Me() error = %v", err)
	}

	req := api.last(t)
	if len(req.Authorization) != 1 || req.Authorization[0] != "Bearer from-session" {
		t.Errorf("Authorization header = %q", req.Authorization)
	}
	if req.ContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", req.ContentType)
	}
	if req.RequestID == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestResourceRoutes(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c, _ := newTestClient(t, api, session.StaticToken("t"))
	ctx := context.Background()

	resources := []struct {
		name string
		path string
		res  *Resource[types.Record]
	}{
		{"staff", "/staff", c.Staff},
		{"attendance", "/attendance", c.Attendance},
		{"health records", "/health-records", c.HealthRecords},
		{"activities", "/activities", c.Activities},
		{"billing", "/billing", c.Billing},
	}

	for _, r := range resources {
		t.Run(r.name, func(t *testing.T) {
			calls := []struct {
				call       func() error
				wantMethod string
				wantPath   string
			}{
				{func() error { api.setBody(`[]`); _, err := r.res.List(ctx); return err }, http.MethodGet, r.path + "/"},
				{func() error { api.setBody(`{}`); _, err := r.res.Get(ctx, "5"); return err }, http.MethodGet, r.path + "/5"},
				{func() error { _, err := r.res.Create(ctx, types.Record{"a": "b"}); return err }, http.MethodPost, r.path + "/"},
				{func() error { _, err := r.res.Update(ctx, "5", types.Record{"a": "b"}); return err }, http.MethodPut, r.path + "/5"},
				{func() error { _, err := r.res.Delete(ctx, "5"); return err }, http.MethodDelete, r.path + "/5"},
			}
			for _, call := range calls {
				if err := call.call(); err != nil {
					t.Fatalf("%s %s error = %v", call.wantMethod, call.wantPath, err)
				}
				req := api.last(t)
				if req.Method != call.wantMethod || req.Path != call.wantPath {
					t.Errorf("got %s %s, want %s %s", req.Method, req.Path, call.wantMethod, call.wantPath)
				}
			}
		})
	}
}

func TestChildrenResource(t *testing.T) {
	api := &fakeAPI{body: `{"id": 9, "name": "Ada", "dob": "2021-02-03", "gender": "Female"}`}
	c, _ := newTestClient(t, api, session.StaticToken("t"))

	child, err := c.Children.Get(context.Background(), "9")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if child.ID != "9" || child.Name != "Ada" || child.Gender != types.GenderFemale {
		t.Errorf("unexpected child %+v", child)
	}

	_, err = c.Children.Update(context.Background(), "9", types.Child{Name: "Ada L", Gender: types.GenderFemale})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	req := api.last(t)
	if req.Method != http.MethodPut || req.Path != "/children/9" {
		t.Errorf("got %s %s", req.Method, req.Path)
	}
	var sent map[string]any
	if err := json.Unmarshal(req.Body, &sent); err != nil {
		t.Fatalf("could not decode payload: %v", err)
	}
	if sent["name"] != "Ada L" {
		t.Errorf("payload name = %v", sent["name"])
	}
	if _, ok := sent["id"]; ok {
		t.Errorf("payload should not include the id: %s", req.Body)
	}
}

func TestAttendancePayloadIsNormalized(t *testing.T) {
	api := &fakeAPI{body: `{"id": 1}`}
	c, _ := newTestClient(t, api, session.StaticToken("t"))
	ctx := context.Background()

	input := types.Record{"child_id": 3, "date": "2024-05-01T00:00:00Z", "check_in": "08:30:00", "check_out": ""}
	want := map[string]any{"child_id": float64(3), "date": "2024-05-01", "check_in": "08:30", "check_out": nil}

	for _, send := range []func() error{
		func() error { _, err := c.Attendance.Create(ctx, input); return err },
		func() error { _, err := c.Attendance.Update(ctx, "1", input); return err },
	} {
		if err := send(); err != nil {
			t.Fatalf("send error = %v", err)
		}
		var sent map[string]any
		if err := json.Unmarshal(api.last(t).Body, &sent); err != nil {
			t.Fatalf("could not decode payload: %v", err)
		}
		for k, v := range want {
			if sent[k] != v {
				t.Errorf("payload[%q] = %#v, want %#v", k, sent[k], v)
			}
		}
	}
}

func TestAuthEndpoints(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestClient(t, api, session.StaticToken("t"))
	ctx := context.Background()

	tests := []struct {
		name       string
		body       string
		call       func() error
		wantMethod string
		wantPath   string
	}{
		{"login", `{"access_token": "x", "token_type": "bearer"}`, func() error {
			_, err := c.Auth.Login(ctx, types.LoginRequest{Email: "a@example.com", Password: "pw"})
			return err
		}, http.MethodPost, "/auth/login"},
		{"register", `{"id": 1}`, func() error {
			_, err := c.Auth.Register(ctx, types.Record{"email": "a@example.com"})
			return err
		}, http.MethodPost, "/auth/register"},
		{"me", `{"id": 1, "role": "staff"}`, func() error {
			_, err := c.Auth.Me(ctx)
			return err
		}, http.MethodGet, "/auth/me"},
		{"change password", `{}`, func() error {
			_, err := c.Auth.ChangePassword(ctx, types.ChangePasswordRequest{OldPassword: "a", NewPassword: "b"})
			return err
		}, http.MethodPut, "/auth/change-password"},
		{"admin change password", `{}`, func() error {
			_, err := c.Auth.AdminChangePassword(ctx, "12", types.AdminChangePasswordRequest{NewPassword: "b"})
			return err
		}, http.MethodPut, "/auth/admin/change-password/12"},
		{"available staff users", `[]`, func() error {
			_, err := c.Auth.AvailableStaffUsers(ctx)
			return err
		}, http.MethodGet, "/auth/available-staff-users"},
		{"list users", `[]`, func() error {
			_, err := c.Auth.ListUsers(ctx)
			return err
		}, http.MethodGet, "/auth/"},
		{"get user", `{"id": 12}`, func() error {
			_, err := c.Auth.GetUser(ctx, "12")
			return err
		}, http.MethodGet, "/auth/12"},
		{"update user", `{}`, func() error {
			_, err := c.Auth.UpdateUser(ctx, "12", types.Record{"role": "admin"})
			return err
		}, http.MethodPut, "/auth/update/12"},
		{"delete user", ``, func() error {
			_, err := c.Auth.DeleteUser(ctx, "12")
			return err
		}, http.MethodDelete, "/auth/12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.setBody(tt.body)
			if err := tt.call(); err != nil {
				t.Fatalf("error = %v", err)
			}
			req := api.last(t)
			if req.Method != tt.wantMethod || req.Path != tt.wantPath {
				t.Errorf("got %s %s, want %s %s", req.Method, req.Path, tt.wantMethod, tt.wantPath)
			}
		})
	}
}

func TestLoginWithoutToken(t *testing.T) {
	api := &fakeAPI{body: `{"token_type": "bearer"}`}
	c, _ := newTestClient(t, api, nil)

	_, err := c.Auth.Login(context.Background(), types.LoginRequest{Email: "a@example.com", Password: "pw"})
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClientError, got %v", err)
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		wantStatus     int
		wantUserMsg    string
		wantLogContain string
	}{
		{
			name:           "not found with detail",
			status:         http.StatusNotFound,
			body:           `{"detail": "Child not found"}`,
			wantStatus:     http.StatusNotFound,
			wantUserMsg:    "The requested record was not found.",
			wantLogContain: "Child not found",
		},
		{
			name:           "validation error",
			status:         http.StatusUnprocessableEntity,
			body:           `{"detail": [{"loc": ["body", "dob"], "msg": "invalid date format", "type": "value_error"}]}`,
			wantStatus:     http.StatusUnprocessableEntity,
			wantUserMsg:    "dob: invalid date format",
			wantLogContain: "dob: invalid date format",
		},
		{
			name:           "unauthorized",
			status:         http.StatusUnauthorized,
			body:           `{"detail": "Not authenticated"}`,
			wantStatus:     http.StatusUnauthorized,
			wantUserMsg:    "Your session is not valid. Please log in again.",
			wantLogContain: "status 401",
		},
		{
			name:           "server error without body",
			status:         http.StatusInternalServerError,
			body:           ``,
			wantStatus:     http.StatusInternalServerError,
			wantUserMsg:    "The service is temporarily unavailable. Please try again later.",
			wantLogContain: "status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: tt.status, body: tt.body}
			c, logs := newTestClient(t, api, session.StaticToken("t"))

			_, err := c.Children.Get(context.Background(), "1")

			var ce *ClientError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ClientError, got %v", err)
			}
			if ce.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", ce.StatusCode, tt.wantStatus)
			}
			if ce.UserError() != tt.wantUserMsg {
				t.Errorf("UserError() = %q, want %q", ce.UserError(), tt.wantUserMsg)
			}
			if !strings.Contains(ce.Error(), tt.wantLogContain) {
				t.Errorf("Error() = %q, want it to contain %q", ce.Error(), tt.wantLogContain)
			}
			if !strings.Contains(logs.String(), "API error") {
				t.Errorf("failure was not logged: %q", logs.String())
			}
			if tt.body != "" && !strings.Contains(logs.String(), "payload") {
				t.Errorf("server payload was not logged: %q", logs.String())
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	var logs bytes.Buffer
	c := NewClient(url, nil, slog.New(slog.NewJSONHandler(&logs, nil)))

	_, err := c.Staff.List(context.Background())

	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClientError, got %v", err)
	}
	if ce.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a transport error", ce.StatusCode)
	}
	if !strings.Contains(logs.String(), "network error") {
		t.Errorf("transport error message was not logged: %q", logs.String())
	}
}

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"empty", ``, ""},
		{"not json", `<html>bad gateway</html>`, ""},
		{"string detail", `{"detail": "Incorrect email or password"}`, "Incorrect email or password"},
		{"list detail", `{"detail": [{"loc": ["body", "name"], "msg": "field required"}, {"loc": [], "msg": "bad"}]}`, "name: field required; bad"},
		{"message field", `{"message": "oops"}`, "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetailMessage([]byte(tt.payload)); got != tt.want {
				t.Errorf("DetailMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	api := &fakeAPI{body: `[]`}
	server := httptest.NewServer(api)
	defer server.Close()

	c := NewClient(server.URL+"/", nil, nil)
	if _, err := c.Billing.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := api.last(t).Path; got != "/billing/" {
		t.Errorf("path = %q, want /billing/", got)
	}
}
