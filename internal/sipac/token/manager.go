// Package token manages the bearer credentials for the SIPAC data API:
// client-credentials and refresh-token grants, in-memory caching with an
// expiry buffer, and single-flight renewal so concurrent callers never
// start duplicate token requests.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"

	"sipacmirror/internal/config"
)

// ErrAcquisition is returned when neither grant yields a token. The
// status/body detail of the failed grants goes to the log, not to the
// caller.
var ErrAcquisition = errors.New("token acquisition failed")

type grantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Manager owns the credential state for one remote API. Tokens live in
// process memory only and are replaced wholesale on renewal.
type Manager struct {
	cfg    config.SIPAC
	client *http.Client
	log    *slog.Logger
	group  singleflight.Group
	now    func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func NewManager(cfg config.SIPAC, log *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		log:    log.With("component", "token_manager"),
		now:    time.Now,
	}
}

// EnsureValidToken returns a bearer token that is valid for at least the
// configured expiry slack. When the cached token is still fresh no I/O
// happens; otherwise the first caller starts a renewal and every
// concurrent caller awaits that same renewal's outcome.
func (m *Manager) EnsureValidToken(ctx context.Context) (string, error) {
	if tok, ok := m.current(); ok {
		return tok, nil
	}

	v, err, _ := m.group.Do("renew", func() (interface{}, error) {
		return m.renew(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *Manager) current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken == "" {
		return "", false
	}
	if m.expiresAt.Sub(m.now()) <= m.cfg.TokenExpirySlack {
		return "", false
	}
	return m.accessToken, true
}

func (m *Manager) renew(ctx context.Context) (string, error) {
	// A concurrent caller may have finished a renewal between the
	// freshness check and this singleflight slot.
	if tok, ok := m.current(); ok {
		return tok, nil
	}

	m.mu.Lock()
	refresh := m.refreshToken
	m.mu.Unlock()

	if refresh != "" {
		grant, err := m.requestGrant(ctx, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {refresh},
		})
		if err == nil {
			m.store(grant)
			return grant.AccessToken, nil
		}
		m.log.Warn("refresh grant failed, falling back to client credentials", "error", err)
		m.clear()
	}

	grant, err := m.requestGrant(ctx, url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {m.cfg.Scope},
	})
	if err != nil {
		m.clear()
		return "", fmt.Errorf("%w: %v", ErrAcquisition, err)
	}

	m.store(grant)
	return grant.AccessToken, nil
}

func (m *Manager) requestGrant(ctx context.Context, form url.Values) (*grantResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(m.cfg.ClientID, m.cfg.ClientSecret)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.log.Error("token endpoint returned error",
			"grant_type", form.Get("grant_type"),
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var grant grantResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, errors.New("token response without access_token")
	}

	return &grant, nil
}

func (m *Manager) store(grant *grantResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accessToken = grant.AccessToken
	if grant.RefreshToken != "" {
		m.refreshToken = grant.RefreshToken
	}
	m.expiresAt = m.now().Add(time.Duration(grant.ExpiresIn) * time.Second)
}

func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accessToken = ""
	m.refreshToken = ""
	m.expiresAt = time.Time{}
}
