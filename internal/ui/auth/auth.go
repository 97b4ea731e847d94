package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/childcare-management/childcare-ui/internal/ui/config"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
)

// AuthService manages the session cookie of the UI
type AuthService struct {
	environment   string
	sessionMaxAge time.Duration
}

func NewAuthService(environment string, sessionMaxAge time.Duration) *AuthService {
	return &AuthService{
		environment:   environment,
		sessionMaxAge: sessionMaxAge,
	}
}

// AccessTokenStatus represents the status of the access token held in a UI session
type AccessTokenStatus int

const (
	TokenMissing AccessTokenStatus = iota
	TokenInvalid
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenInvalid", "TokenExpired", "TokenValid"}

func (t AccessTokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// isJWT reports whether token has the three dot separated segments of a JWT
func isJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// tokenExpiry returns the exp claim of a JWT. ok is false for opaque tokens and tokens without exp.
func tokenExpiry(token string) (exp time.Time, ok bool, err error) {
	if !isJWT(token) {
		return time.Time{}, false, nil
	}

	// the API signs the token, the UI only needs to read the expiry
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// CheckSessionStatus checks the access token held in s.
//
// Opaque (non JWT) tokens cannot be inspected and are treated as valid; the API rejects them
// with a 401 once they stop being accepted.
func (a *AuthService) CheckSessionStatus(s *session.Session) AccessTokenStatus {
	if s == nil {
		return TokenMissing
	}

	if s.AccessToken == "" {
		return TokenInvalid
	}

	exp, ok, err := tokenExpiry(s.AccessToken)
	if err != nil {
		return TokenInvalid
	}

	if ok && !exp.After(time.Now()) {
		return TokenExpired
	}

	return TokenValid
}

// SessionFromRequest decodes the session cookie.
// http.ErrNoCookie is returned when the browser did not send one.
func (a *AuthService) SessionFromRequest(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(config.SessionCookieName)
	if err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session cookie: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(decoded, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session cookie: %w", err)
	}

	return &s, nil
}

// CheckTokenStatus reads the session cookie and checks its access token.
// The decoded session is returned with the status (nil when the cookie is missing or unreadable).
func (a *AuthService) CheckTokenStatus(r *http.Request) (AccessTokenStatus, *session.Session) {
	s, err := a.SessionFromRequest(r)
	if err != nil {
		if err == http.ErrNoCookie {
			return TokenMissing, nil
		}
		return TokenInvalid, nil
	}
	return a.CheckSessionStatus(s), s
}

// cookieMaxAge is the configured session lifetime, shortened to the token expiry when the token carries one
func (a *AuthService) cookieMaxAge(token string) int {
	maxAge := a.sessionMaxAge
	if exp, ok, err := tokenExpiry(token); err == nil && ok {
		if untilExp := time.Until(exp); untilExp < maxAge {
			maxAge = untilExp
		}
	}
	if maxAge < time.Second {
		return -1
	}
	return int(maxAge.Seconds())
}

// SetSessionCookie stores the session in the browser.
//
// The cookie holds base64 encoded JSON so that any UI instance can serve the next request.
func (a *AuthService) SetSessionCookie(w http.ResponseWriter, s *session.Session) error {
	isProd := a.environment == "prod"

	sessionJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    base64.StdEncoding.EncodeToString(sessionJSON),
		Path:     "/",
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   a.cookieMaxAge(s.AccessToken),
	})

	return nil
}

func (a *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.environment == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}
