package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"salesadmin/internal/auth"
)

// refreshBuffer is how long before the access token's stated expiry the
// proactive refresh fires.
const refreshBuffer = 60 * time.Second

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// Identity is what the client learns about the user by decoding the access
// token locally — no server round-trip.
type Identity struct {
	Username  string
	Email     string
	UserID    int
	ExpiresAt time.Time
}

// Client speaks the back office's token protocol: it attaches the access
// token to every outgoing request, refreshes the pair shortly before
// expiry, and on a 401 retries the request exactly once after an on-demand
// refresh. A failed refresh tears the session down and signals logout.
type Client struct {
	baseURL string
	hc      *http.Client
	store   TokenStore
	lg      *zap.SugaredLogger

	mu    sync.Mutex // guards timer
	timer *time.Timer

	refreshMu sync.Mutex // serializes refresh attempts

	logoutC chan struct{}
}

// New builds a Client against baseURL. A nil store gets a fresh
// MemoryStore; pass a shared store to model multiple tabs on one session.
func New(baseURL string, store TokenStore, lg *zap.SugaredLogger) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		store:   store,
		lg:      lg,
		logoutC: make(chan struct{}, 1),
	}
}

type sessionResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// Login exchanges credentials for a token pair, stores it, decodes the
// identity claims locally and schedules the proactive refresh.
func (c *Client) Login(ctx context.Context, username, password string) (Identity, error) {
	var out sessionResponse
	err := c.postJSON(ctx, "/auth/login", map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		if errors.Is(err, errUnauthorized) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	return c.adopt(out)
}

// Identity decodes the currently stored access token. ErrNoSession when
// there is none.
func (c *Client) Identity() (Identity, error) {
	access, _ := c.store.Load()
	if access == "" {
		return Identity{}, ErrNoSession
	}
	return decodeIdentity(access)
}

// Do sends the request with the current access token attached. On a 401 it
// clears the stale pair, obtains a new one with the refresh token and
// retries the original request once — never more. If the refresh itself
// fails the session is torn down and the logout signal fires.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	access, _ := c.store.Load()
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	resp, err := c.hc.Do(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	resp.Body.Close()

	if err := c.refresh(req.Context(), access); err != nil {
		c.Logout()
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	access, _ = c.store.Load()
	retry.Header.Set("Authorization", "Bearer "+access)
	resp, err = c.hc.Do(retry)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		// still rejected after a fresh token: give up, no second retry
		c.Logout()
	}
	return resp, err
}

// Logout cancels the pending refresh timer, clears the stored pair and
// broadcasts the logout signal.
func (c *Client) Logout() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.store.Clear()
	select {
	case c.logoutC <- struct{}{}:
	default:
	}
}

// LogoutC signals when the session was torn down (explicit logout or a
// failed refresh).
func (c *Client) LogoutC() <-chan struct{} { return c.logoutC }

// refresh rotates the token pair, serialized so concurrent proactive and
// reactive refreshes collapse into a single rotation: if another attempt
// already replaced staleAccess while we waited for the lock, there is
// nothing left to do.
func (c *Client) refresh(ctx context.Context, staleAccess string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	access, refresh := c.store.Load()
	if access != "" && access != staleAccess {
		return nil
	}
	if refresh == "" {
		return ErrNoSession
	}

	var out sessionResponse
	err := c.postJSON(ctx, "/auth/refresh", map[string]string{"refreshToken": refresh}, &out)
	if err != nil {
		c.store.Clear()
		if errors.Is(err, errUnauthorized) {
			return ErrSessionExpired
		}
		return err
	}
	_, err = c.adopt(out)
	return err
}

// adopt stores a fresh pair, decodes the identity and reschedules the
// proactive refresh for 60 seconds before the new expiry.
func (c *Client) adopt(s sessionResponse) (Identity, error) {
	c.store.Store(s.Token, s.RefreshToken)
	id, err := decodeIdentity(s.Token)
	if err != nil {
		return Identity{}, err
	}
	c.schedule(s.Token, id.ExpiresAt)
	return id, nil
}

func (c *Client) schedule(access string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	d := time.Until(expiresAt) - refreshBuffer
	if d < 0 {
		d = 0
	}
	c.timer = time.AfterFunc(d, func() {
		if err := c.refresh(context.Background(), access); err != nil {
			c.lg.Warnw("scheduled token refresh failed", "error", err)
			c.Logout()
		}
	})
}

var errUnauthorized = errors.New("unauthorized")

// postJSON talks to the public auth endpoints directly, bypassing Do so
// auth traffic can never trigger the retry logic.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeIdentity reads the claims without verifying the signature — the
// client has no key and only needs the display identity and expiry.
func decodeIdentity(access string) (Identity, error) {
	claims := &auth.AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return Identity{}, err
	}
	id := Identity{Username: claims.Subject, Email: claims.Email, UserID: claims.UserID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
