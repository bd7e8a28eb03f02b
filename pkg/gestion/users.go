package gestion

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns all registered accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	payload, err := c.do(ctx, http.MethodGet, "/usuarios", nil, "list_users")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeUser)
}

// GetUser fetches one account by id.
func (c *Client) GetUser(ctx context.Context, userID int64) (User, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/usuarios/%d", userID), nil, "get_user")
	if err != nil {
		return User{}, err
	}
	return normalizeUser(payload)
}

// CreateUser registers a new account. The Password field must already be
// the Argon2id hash, never the cleartext secret.
func (c *Client) CreateUser(ctx context.Context, params SaveUserParams) (User, error) {
	payload, err := c.do(ctx, http.MethodPost, "/usuarios", params, "create_user")
	if err != nil {
		return User{}, err
	}
	return normalizeUser(payload)
}

// UpdateUser replaces an existing account record.
func (c *Client) UpdateUser(ctx context.Context, userID int64, params SaveUserParams) error {
	params.UserID = userID
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d", userID), params, "update_user")
	return err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/usuarios/%d", userID), nil, "delete_user")
	return err
}
