// Package store is the device-local key-value persistence behind the
// session and favorites caches. Values are eventually-consistent
// mirrors of server state: every write overwrites the whole value,
// nothing is ever merged. Two backends exist: a JSON file (default)
// and Redis for kiosk-style deployments that share a box-local server.
package store

import (
	"context"
	"errors"
)

// Well-known keys. Everything the storefront persists on the device
// lives under one of these.
const (
	KeyToken           = "token"
	KeyUser            = "user"
	KeyFavorites       = "favorites"
	KeyProviderSession = "provider_session"
)

// ErrNotFound is returned when a key has no value. Callers treat it as
// "no cached copy" and fall back to the network.
var ErrNotFound = errors.New("store: key not found")

// Store is the typed get/set/clear contract. Implementations must be
// safe for concurrent use.
type Store interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
