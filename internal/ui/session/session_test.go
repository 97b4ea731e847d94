package session

import (
	"context"
	"testing"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

func TestToken(t *testing.T) {
	var nilSession *Session
	if _, ok := nilSession.Token(); ok {
		t.Error("nil session should not have a token")
	}

	if _, ok := (&Session{}).Token(); ok {
		t.Error("empty access token should not be reported as present")
	}

	token, ok := (&Session{AccessToken: "abc"}).Token()
	if !ok || token != "abc" {
		t.Errorf("Token() = %q, %v, want abc, true", token, ok)
	}
}

func TestContextTokens(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantToken string
		wantOK    bool
	}{
		{
			name:   "no session on context",
			ctx:    context.Background(),
			wantOK: false,
		},
		{
			name:   "nil session on context",
			ctx:    ContextWithSession(context.Background(), nil),
			wantOK: false,
		},
		{
			name: "session with token",
			ctx: ContextWithSession(context.Background(), &Session{
				AccessToken: "tok",
				Account:     Account{ID: "1", Role: types.RoleAdmin},
			}),
			wantToken: "tok",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ContextTokens{}.AccessToken(tt.ctx)
			if ok != tt.wantOK || token != tt.wantToken {
				t.Errorf("AccessToken() = %q, %v, want %q, %v", token, ok, tt.wantToken, tt.wantOK)
			}
		})
	}
}

func TestStaticToken(t *testing.T) {
	if _, ok := StaticToken("").AccessToken(context.Background()); ok {
		t.Error("empty static token should be absent")
	}
	if token, ok := StaticToken("xyz").AccessToken(context.Background()); !ok || token != "xyz" {
		t.Errorf("AccessToken() = %q, %v", token, ok)
	}
}

func TestRole(t *testing.T) {
	var nilSession *Session
	if nilSession.Role() != "" {
		t.Error("nil session should have no role")
	}
	s := &Session{Account: Account{Role: types.RoleStaff}}
	if s.Role() != types.RoleStaff {
		t.Errorf("Role() = %q", s.Role())
	}
}
