package api

import (
	"context"
	"net/http"

	"github.com/yudhapr/pasarloak/internal/model"
)

// ----- DTOs -----

type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the POST /auth/login body: the bearer token plus the
// full profile row, so the client never has to follow up with a
// separate profile fetch after logging in.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Register creates the account. It does not yield a token; callers log
// in with the same credentials afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, req, nil)
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
