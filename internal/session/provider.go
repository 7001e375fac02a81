package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yudhapr/pasarloak/internal/store"
)

// Provider is the external auth/session collaborator, independent of
// the marketplace REST backend. It owns session restore at startup and
// remote sign-out.
type Provider interface {
	// RestoreToken returns a previously persisted access token, or ""
	// when no session exists.
	RestoreToken(ctx context.Context) (string, error)
	// SignOut invalidates the provider-side session. Callers treat
	// failures as best-effort.
	SignOut(ctx context.Context, accessToken string) error
}

// NoopProvider is used when no external provider is configured. There
// is then no session to restore and nothing remote to sign out of.
type NoopProvider struct{}

func (NoopProvider) RestoreToken(context.Context) (string, error) { return "", nil }
func (NoopProvider) SignOut(context.Context, string) error        { return nil }

// StoredTokenProvider restores the backend-issued bearer token that a
// previous login persisted locally. It stands in when no external auth
// service is deployed: there is no remote session to invalidate, so
// sign-out only has the manager's local cleanup.
type StoredTokenProvider struct {
	Store store.Store
}

func (p StoredTokenProvider) RestoreToken(ctx context.Context) (string, error) {
	token, err := p.Store.GetString(ctx, store.KeyToken)
	if err != nil {
		if err == store.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("read stored token: %w", err)
	}
	return token, nil
}

func (p StoredTokenProvider) SignOut(context.Context, string) error { return nil }

// providerSession is the persisted provider state under the
// provider_session store key.
type providerSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ExternalProvider speaks a GoTrue-style auth API. The persisted
// session carries an access/refresh token pair; restore hands back the
// access token while it is still valid and otherwise rotates the pair
// through the refresh endpoint.
type ExternalProvider struct {
	baseURL string
	anonKey string
	store   store.Store
	httpc   *http.Client
	// now is swapped in tests to pin expiry checks.
	now func() time.Time
}

func NewExternalProvider(baseURL, anonKey string, st store.Store) *ExternalProvider {
	return &ExternalProvider{
		baseURL: baseURL,
		anonKey: anonKey,
		store:   st,
		httpc:   &http.Client{},
		now:     time.Now,
	}
}

func (p *ExternalProvider) RestoreToken(ctx context.Context) (string, error) {
	var sess providerSession
	if err := p.store.GetJSON(ctx, store.KeyProviderSession, &sess); err != nil {
		if err == store.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("read provider session: %w", err)
	}
	if sess.AccessToken != "" && !p.expired(sess) {
		return sess.AccessToken, nil
	}
	if sess.RefreshToken == "" {
		return "", nil
	}
	rotated, err := p.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := p.store.SetJSON(ctx, store.KeyProviderSession, rotated); err != nil {
		return "", fmt.Errorf("persist provider session: %w", err)
	}
	return rotated.AccessToken, nil
}

// expired checks the access token's exp claim without verifying the
// signature; the client does not hold the provider's signing secret.
// Tokens the parser cannot read fall back to the stored expires_at.
func (p *ExternalProvider) expired(sess providerSession) bool {
	now := p.now()
	tok, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, jwt.MapClaims{})
	if err == nil {
		if exp, cerr := tok.Claims.GetExpirationTime(); cerr == nil && exp != nil {
			return now.After(exp.Time.Add(-30 * time.Second))
		}
	}
	if sess.ExpiresAt == 0 {
		return false
	}
	return now.Unix() >= sess.ExpiresAt-30
}

func (p *ExternalProvider) refresh(ctx context.Context, refreshToken string) (providerSession, error) {
	body, _ := json.Marshal(map[string]string{"refresh_token": refreshToken})
	url := p.baseURL + "/auth/v1/token?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return providerSession{}, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)

	res, err := p.httpc.Do(req)
	if err != nil {
		return providerSession{}, fmt.Errorf("refresh session: %w", err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return providerSession{}, fmt.Errorf("refresh session: status %d", res.StatusCode)
	}

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return providerSession{}, fmt.Errorf("decode refresh response: %w", err)
	}
	sess := providerSession{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    out.ExpiresAt,
	}
	if sess.ExpiresAt == 0 && out.ExpiresIn > 0 {
		sess.ExpiresAt = p.now().Unix() + out.ExpiresIn
	}
	return sess, nil
}

func (p *ExternalProvider) SignOut(ctx context.Context, accessToken string) error {
	// Drop the persisted pair first so a failed remote call cannot
	// resurrect the session on next startup.
	if err := p.store.Delete(ctx, store.KeyProviderSession); err != nil {
		return fmt.Errorf("clear provider session: %w", err)
	}
	if accessToken == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	res, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("remote sign-out: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	if res.StatusCode >= 300 {
		return fmt.Errorf("remote sign-out: status %d", res.StatusCode)
	}
	return nil
}
