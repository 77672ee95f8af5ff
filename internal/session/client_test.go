package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesadmin/internal/auth"
	"salesadmin/internal/models"
)

// fakeAPI mimics the auth endpoints plus one protected resource. It accepts
// only the most recently issued access token, so invalidateAccess simulates
// server-side expiry without waiting for real clocks.
type fakeAPI struct {
	t      *testing.T
	issuer *auth.Issuer

	mu           sync.Mutex
	access       string
	refresh      string
	seq          int
	refreshCalls int
	dataCalls    int
	rejectData   bool
}

func newFakeAPI(t *testing.T, ttl time.Duration) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{t: t, issuer: auth.NewIssuer("test-secret", "salesadmin", "salesadmin-ui", ttl)}
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) issuePair() sessionResponse {
	access, err := f.issuer.Issue(models.User{ID: 7, Username: "ana", Email: "ana@example.com"})
	require.NoError(f.t, err)
	f.seq++
	f.access = access
	f.refresh = fmt.Sprintf("refresh-%d", f.seq)
	return sessionResponse{Token: access, RefreshToken: f.refresh, Username: "ana", Email: "ana@example.com"}
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/auth/login":
		var req map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		if req["username"] != "ana" || req["password"] != "s3cret" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(f.issuePair())

	case "/auth/refresh":
		f.refreshCalls++
		var req map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		if f.refresh == "" || req["refreshToken"] != f.refresh {
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(f.issuePair())

	case "/data":
		f.dataCalls++
		if f.rejectData || r.Header.Get("Authorization") != "Bearer "+f.access || f.access == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Write(body)

	default:
		http.NotFound(w, r)
	}
}

// invalidateAccess makes the current access token stale while leaving the
// refresh token usable, the shape of an ordinary token expiry.
func (f *fakeAPI) invalidateAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = ""
}

func (f *fakeAPI) revokeRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = ""
	f.refresh = ""
}

func (f *fakeAPI) counts() (refreshes, datas int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls, f.dataCalls
}

func TestLogin(t *testing.T) {
	t.Run("decodes identity from the token locally", func(t *testing.T) {
		_, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)

		id, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "ana", id.Username)
		assert.Equal(t, "ana@example.com", id.Email)
		assert.Equal(t, 7, id.UserID)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), id.ExpiresAt, 5*time.Second)

		got, err := c.Identity()
		require.NoError(t, err)
		assert.Equal(t, id.Username, got.Username)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)

		_, err := c.Login(context.Background(), "ana", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = c.Identity()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestDo(t *testing.T) {
	t.Run("attaches the bearer token", func(t *testing.T) {
		f, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)
		_, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		refreshes, datas := f.counts()
		assert.Zero(t, refreshes)
		assert.Equal(t, 1, datas)
	})

	t.Run("refreshes once on 401 and replays the body", func(t *testing.T) {
		f, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)
		_, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		f.invalidateAccess()

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/data", bytes.NewReader([]byte("payload")))
		resp, err := c.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		echoed, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(echoed), "retry must carry the original body")

		refreshes, datas := f.counts()
		assert.Equal(t, 1, refreshes)
		assert.Equal(t, 2, datas, "one failed attempt, one retry")
	})

	t.Run("gives up after one retry and signals logout", func(t *testing.T) {
		f, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)
		_, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		f.mu.Lock()
		f.rejectData = true
		f.mu.Unlock()

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "the second 401 is surfaced, not retried")

		refreshes, datas := f.counts()
		assert.Equal(t, 1, refreshes)
		assert.Equal(t, 2, datas, "exactly two attempts, never a third")

		select {
		case <-c.LogoutC():
		default:
			t.Fatal("expected a logout signal")
		}
		_, err = c.Identity()
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("failed refresh tears the session down", func(t *testing.T) {
		f, srv := newFakeAPI(t, 15*time.Minute)
		c := New(srv.URL, nil, nil)
		_, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		f.revokeRefresh()

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		_, err = c.Do(req)
		require.ErrorIs(t, err, ErrSessionExpired)

		select {
		case <-c.LogoutC():
		default:
			t.Fatal("expected a logout signal")
		}
		_, err = c.Identity()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestProactiveRefresh(t *testing.T) {
	t.Run("fires shortly before expiry", func(t *testing.T) {
		// ttl barely beyond the buffer puts the scheduled refresh ~200ms out
		f, srv := newFakeAPI(t, refreshBuffer+200*time.Millisecond)
		c := New(srv.URL, nil, nil)
		first, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			refreshes, _ := f.counts()
			return refreshes >= 1
		}, 3*time.Second, 20*time.Millisecond, "scheduled refresh never fired")

		// the rotated token carries a later expiry
		require.Eventually(t, func() bool {
			id, err := c.Identity()
			return err == nil && id.ExpiresAt.After(first.ExpiresAt)
		}, time.Second, 20*time.Millisecond)
	})

	t.Run("logout cancels the pending refresh", func(t *testing.T) {
		f, srv := newFakeAPI(t, refreshBuffer+200*time.Millisecond)
		c := New(srv.URL, nil, nil)
		_, err := c.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		c.Logout()
		time.Sleep(500 * time.Millisecond)

		refreshes, _ := f.counts()
		assert.Zero(t, refreshes, "cancelled timer must not refresh")
		_, err = c.Identity()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestSharedStore(t *testing.T) {
	t.Run("second client rides the first one's session", func(t *testing.T) {
		f, srv := newFakeAPI(t, 15*time.Minute)
		store := NewMemoryStore()
		a := New(srv.URL, store, nil)
		b := New(srv.URL, store, nil)

		_, err := a.Login(context.Background(), "ana", "s3cret")
		require.NoError(t, err)

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		resp, err := b.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// a's reactive refresh rotates the pair; b picks the new tokens up
		// from the shared store without a refresh of its own
		f.invalidateAccess()
		req, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		resp, err = a.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		req, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/data", nil)
		resp, err = b.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		refreshes, _ := f.counts()
		assert.Equal(t, 1, refreshes, "only one rotation for both clients")
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	a, r := s.Load()
	assert.Empty(t, a)
	assert.Empty(t, r)

	s.Store("acc", "ref")
	a, r = s.Load()
	assert.Equal(t, "acc", a)
	assert.Equal(t, "ref", r)

	s.Clear()
	a, r = s.Load()
	assert.Empty(t, a)
	assert.Empty(t, r)
}
