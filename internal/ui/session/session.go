// Package session holds the credential of the logged in user.
//
// The session is created at login, stored in a cookie by the auth package and placed on the
// request context by the RequireAuth middleware. The API client never reads cookies itself:
// it is given a token source when it is constructed (see ContextTokens and StaticToken).
package session

import (
	"context"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

// Account is the subset of the /auth/me response kept in the session
type Account struct {
	ID       types.ID   `json:"id"`
	Email    string     `json:"email,omitempty"`
	Username string     `json:"username,omitempty"`
	Role     types.Role `json:"role"`
}

// Session is the client side credential of a logged in user
type Session struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type,omitempty"`
	Account     Account `json:"account"`
}

// Token returns the bearer token, ok is false when there is no usable token
func (s *Session) Token() (string, bool) {
	if s == nil || s.AccessToken == "" {
		return "", false
	}
	return s.AccessToken, true
}

// Role returns the account role, or "" for a nil session
func (s *Session) Role() types.Role {
	if s == nil {
		return ""
	}
	return s.Account.Role
}

type contextKey struct {
	name string
}

var sessionKey = contextKey{"session"}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// ContextTokens supplies the token of the session stored on the request context
type ContextTokens struct{}

func (ContextTokens) AccessToken(ctx context.Context) (string, bool) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return s.Token()
}

// StaticToken supplies the same token to every request. An empty token means unauthenticated.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, bool) {
	return string(t), t != ""
}
