package client

import (
	"context"
	"net/http"

	"github.com/ghaggin/erp-console/internal/model"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error) {
	var res model.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me fetches the profile of the operator owning the current token.
func (c *Client) Me(ctx context.Context) (*model.UserProfile, error) {
	var res model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
