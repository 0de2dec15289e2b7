package client

import (
	"context"
	"net/url"
	"strconv"
)

// Account is the authenticated principal as returned by /me.
type Account struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// Login submits credentials to the token endpoint and returns the
// issued bearer token. The endpoint expects a form-encoded body with
// OAuth2-style field names.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	form.Set("remember_me", strconv.FormatBool(rememberMe))

	resp, err := c.postForm(ctx, "/token", form.Encode())
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

// Register creates a new account. Password policy checks happen in the
// caller before this request; the server remains authoritative and may
// still reject.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.postJSON(ctx, "/register", body)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// Me returns the account for the current bearer token.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	resp, err := c.get(ctx, "/me")
	if err != nil {
		return nil, err
	}

	var account Account
	if err := parseResponse(resp, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
