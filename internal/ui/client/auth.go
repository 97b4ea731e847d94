package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

var errMissingToken = errors.New("access token missing from login response")

// AuthAPI wraps the /auth endpoints
type AuthAPI struct {
	client *Client
}

// Login exchanges credentials for an access token
func (a *AuthAPI) Login(ctx context.Context, req types.LoginRequest) (*types.AccessTokenDetails, error) {
	var details types.AccessTokenDetails
	if err := a.client.do(ctx, http.MethodPost, "/auth/login", req, &details); err != nil {
		return nil, err
	}
	if details.AccessToken == "" {
		return nil, a.client.handleError(ctx, http.MethodPost, "/auth/login",
			NewClientInternalError(errMissingToken, "reading login response"))
	}
	return &details, nil
}

// Register creates a new user account
func (a *AuthAPI) Register(ctx context.Context, data types.Record) (types.Record, error) {
	var created types.Record
	err := a.client.do(ctx, http.MethodPost, "/auth/register", data, &created)
	return created, err
}

// Me returns the account that owns the current token
func (a *AuthAPI) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := a.client.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the password of the current account
func (a *AuthAPI) ChangePassword(ctx context.Context, req types.ChangePasswordRequest) (types.Record, error) {
	var res types.Record
	err := a.client.do(ctx, http.MethodPut, "/auth/change-password", req, &res)
	return res, err
}

// AdminChangePassword sets the password of another account (admin only)
func (a *AuthAPI) AdminChangePassword(ctx context.Context, userID string, req types.AdminChangePasswordRequest) (types.Record, error) {
	var res types.Record
	err := a.client.do(ctx, http.MethodPut, "/auth/admin/change-password/"+url.PathEscape(userID), req, &res)
	return res, err
}

// AvailableStaffUsers lists staff accounts not yet linked to a staff record
func (a *AuthAPI) AvailableStaffUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := a.client.do(ctx, http.MethodGet, "/auth/available-staff-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers lists every account
func (a *AuthAPI) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := a.client.do(ctx, http.MethodGet, "/auth/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *AuthAPI) GetUser(ctx context.Context, userID string) (*types.User, error) {
	var user types.User
	if err := a.client.do(ctx, http.MethodGet, "/auth/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthAPI) UpdateUser(ctx context.Context, userID string, data types.Record) (types.Record, error) {
	var res types.Record
	err := a.client.do(ctx, http.MethodPut, "/auth/update/"+url.PathEscape(userID), data, &res)
	return res, err
}

func (a *AuthAPI) DeleteUser(ctx context.Context, userID string) (json.RawMessage, error) {
	var body json.RawMessage
	if err := a.client.do(ctx, http.MethodDelete, "/auth/"+url.PathEscape(userID), nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}
