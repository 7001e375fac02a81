package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yudhapr/pasarloak/internal/model"
)

// Profile fetches the authenticated user's own record, used to hydrate
// a restored token-only session at startup.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out dataEnvelope[model.User]
	if err := c.do(ctx, http.MethodGet, "/users/profile/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetUser fetches a public user record, e.g. a seller shown on a
// product page.
func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var out dataEnvelope[model.User]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateUser submits profile edits and returns the server's canonical
// record. Callers replace their copy wholesale with the result.
func (c *Client) UpdateUser(ctx context.Context, id int64, fields model.ProfileUpdate) (*model.User, error) {
	var out dataEnvelope[model.User]
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, fields, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// BecomeSeller unlocks the seller role for the user. Irreversible from
// the client's side.
func (c *Client) BecomeSeller(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/become-seller", id), nil, nil, nil)
}
