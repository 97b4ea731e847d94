package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func runList(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"list"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	var (
		mu               sync.Mutex
		gotAuth, gotPath string
	)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		mu.Unlock()
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Ada Lovelace"}]`)
	}))
	defer api.Close()

	tests := []struct {
		resource string
		wantPath string
	}{
		{"children", "/children/"},
		{"staff", "/staff/"},
		{"attendance", "/attendance/"},
		{"health-records", "/health-records/"},
		{"activities", "/activities/"},
		{"billing", "/billing/"},
		{"users", "/auth/"},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			out, err := runList(t, tt.resource, "--api-url", api.URL, "--token", "cli-token")
			if err != nil {
				t.Fatalf("list %s error = %v", tt.resource, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if gotPath != tt.wantPath {
				t.Errorf("API path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotAuth != "Bearer cli-token" {
				t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer cli-token")
			}

			var items []map[string]any
			if err := json.Unmarshal([]byte(out), &items); err != nil {
				t.Fatalf("output is not a JSON array: %v\n%s", err, out)
			}
			if len(items) != 1 {
				t.Errorf("got %d items, want 1", len(items))
			}
		})
	}
}

func TestListCommandTokenFromEnvironment(t *testing.T) {
	var (
		mu      sync.Mutex
		gotAuth string
	)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		_, _ = io.WriteString(w, `[]`)
	}))
	defer api.Close()

	t.Setenv("CHILDCARE_API_TOKEN", "env-token")
	t.Setenv("API_BASE_URL", api.URL)

	if _, err := runList(t, "children"); err != nil {
		t.Fatalf("list children error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer env-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer env-token")
	}
}

func TestListCommandErrors(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail": "Not authenticated"}`)
	}))
	defer api.Close()

	t.Run("unknown resource", func(t *testing.T) {
		_, err := runList(t, "invoices", "--api-url", api.URL)
		if err == nil || !strings.Contains(err.Error(), "unknown resource") {
			t.Errorf("error = %v, want unknown resource", err)
		}
	})

	t.Run("api error", func(t *testing.T) {
		_, err := runList(t, "children", "--api-url", api.URL)
		if err == nil {
			t.Fatal("expected an error for a 401 response")
		}
	})

	t.Run("missing resource argument", func(t *testing.T) {
		if _, err := runList(t); err == nil {
			t.Error("expected an error when no resource is given")
		}
	})
}
