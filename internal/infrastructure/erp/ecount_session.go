package erp

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// sessionInfo is an issued ECount session token with its absolute expiry.
// Owned exclusively by the session manager; replaced, never mutated.
type sessionInfo struct {
	id        string
	expiresAt time.Time
}

// loginFunc performs one network login and returns the issued session
type loginFunc func(ctx context.Context) (*sessionInfo, error)

// sessionManager owns the ECount authentication lifecycle: it caches the
// current session, renews it proactively before expiry, and deduplicates
// concurrent login attempts so that N racing callers produce exactly one
// network login.
type sessionManager struct {
	login   loginFunc
	skew    time.Duration
	timeout time.Duration

	mu      sync.Mutex
	current *sessionInfo
	flight  singleflight.Group
}

func newSessionManager(login loginFunc, skew, timeout time.Duration) *sessionManager {
	return &sessionManager{
		login:   login,
		skew:    skew,
		timeout: timeout,
	}
}

// ensure returns a session that is still valid for at least the skew margin,
// logging in when necessary. Concurrent callers racing past an expired cache
// all await the same in-flight login. The login runs on its own
// timeout-bounded context: one caller's cancellation must not abort a login
// other callers are waiting on.
func (m *sessionManager) ensure(ctx context.Context) (*sessionInfo, error) {
	if session := m.cached(); session != nil {
		return session, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := m.flight.Do("login", func() (any, error) {
		// A waiter queued behind a completed login finds the fresh cache here
		if session := m.cached(); session != nil {
			return session, nil
		}

		loginCtx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		session, err := m.login(loginCtx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.current = session
		m.mu.Unlock()
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sessionInfo), nil
}

// cached returns the current session if it is still valid past the skew
// margin, nil otherwise
func (m *sessionManager) cached() *sessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	if !time.Now().Before(m.current.expiresAt.Add(-m.skew)) {
		return nil
	}
	return m.current
}

// invalidate clears the cached session unconditionally; called when the
// remote rejects a request at the session layer
func (m *sessionManager) invalidate() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// parseExpireTime parses the remote's compact 14-digit UTC timestamp
// (YYYYMMDDHHMMSS). Returns the zero time when absent or unparsable; the
// caller falls back to the default validity window.
func parseExpireTime(value string) time.Time {
	if len(value) != 14 {
		return time.Time{}
	}
	t, err := time.ParseInLocation("20060102150405", value, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
