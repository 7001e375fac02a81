package mockapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issueToken signs an HS256 access token for a user. Claims follow the
// real backend: subject, expiration and issued-at.
func issueToken(secret string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
