package client

import (
	"context"
	"net/http"
)

// Me returns the admin owning the current session cookie.
func (c *Client) Me(ctx context.Context) (*Admin, error) {
	admin, err := call[Admin](ctx, c, c.http.R(), http.MethodGet, "/api/admin/me")
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Login exchanges credentials for a session cookie, which the client keeps for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Admin, error) {
	req := c.http.R().SetBody(map[string]string{"email": email, "password": password})
	admin, err := call[Admin](ctx, c, req, http.MethodPost, "/api/admin/login")
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[message](ctx, c, c.http.R(), http.MethodPost, "/api/admin/logout")
	return err
}

// ForgotPassword requests a reset link and returns the server's acknowledgement, which is the
// same whether or not the email is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := c.http.R().SetBody(map[string]string{"email": email})
	msg, err := call[message](ctx, c, req, http.MethodPost, "/api/admin/forgot")
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	req := c.http.R().SetBody(map[string]string{"token": token, "password": password})
	msg, err := call[message](ctx, c, req, http.MethodPost, "/api/admin/reset")
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	health, err := call[Health](ctx, c, c.http.R(), http.MethodGet, "/health")
	if err != nil {
		return nil, err
	}
	return &health, nil
}
