package lostfound

import (
	"context"
	"errors"
	"net/url"

	"github.com/erazemk/najdeno/internal/model"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the new-account form fields.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login exchanges credentials for the user's identity. A rejected login
// surfaces as AuthError carrying the service's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (*model.User, error) {
	var user model.User
	if err := c.postJSON(ctx, "/auth/login", creds, &user); err != nil {
		return nil, asAuthError(err, "login failed")
	}
	return &user, nil
}

// Register creates a new account; the response shape matches Login.
func (c *Client) Register(ctx context.Context, reg Registration) (*model.User, error) {
	var user model.User
	if err := c.postJSON(ctx, "/auth/register", reg, &user); err != nil {
		return nil, asAuthError(err, "registration failed")
	}
	return &user, nil
}

// GetUser fetches a user's public profile, used to show an item's claimants
// to its owner.
func (c *Client) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/auth", url.Values{"userId": {userID}}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// asAuthError converts a rejected auth request into AuthError, keeping the
// service's message verbatim when it sent one. Network failures pass
// through unchanged.
func asAuthError(err error, fallback string) error {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Status != 0 {
		msg := reqErr.Message
		if msg == "" {
			msg = fallback
		}
		return &AuthError{Message: msg}
	}
	return err
}
