package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// renewLeeway is how close to expiry a token may get before it is renewed.
	renewLeeway = 30 * time.Second

	ErrNoSession = errors.New("not logged in")
)

// TokenSource obtains a fresh bearer token from the auth provider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Session holds the current bearer token and its decoded claim set.
// It is created at app start, renews the token transparently before each
// gateway call and is torn down at logout.
type Session struct {
	mu     sync.Mutex
	source TokenSource
	token  string
	claims *Claims
}

func New(source TokenSource) *Session {
	return &Session{source: source}
}

// Token returns a currently-valid bearer token, renewing it through the
// TokenSource when absent or expired. Claims are re-decoded on every renewal;
// a token whose payload cannot be decoded is still returned (the backend may
// accept it) but grants no capabilities. Since an opaque token carries no
// readable expiry it is cached as-is until Refresh or Logout, never
// re-fetched per call.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && (s.claims == nil || !s.claims.Expired(NowFunc(), renewLeeway)) {
		return s.token, nil
	}
	if s.source == nil {
		if s.token != "" {
			return s.token, nil // expired static token; let the backend decide
		}
		return "", ErrNoSession
	}

	token, err := s.source.Token(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.claims, _ = DecodeClaims(token) // malformed claims -> nil; fails closed
	return s.token, nil
}

// Refresh forces token acquisition; used at login to surface auth errors early.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.claims = nil
	s.mu.Unlock()
	_, err := s.Token(ctx)
	return err
}

// Claims returns the decoded claim set of the current token, or nil when
// no token is held or its payload could not be decoded.
func (s *Session) Claims() *Claims {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" || s.source != nil
}

// HasCapability reports whether the current claim set grants `tag`.
// Absent or malformed claims always answer false.
func (s *Session) HasCapability(tag string) bool {
	return CapabilitiesOf(s).Has(tag)
}

// Logout discards the token and claim set.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = nil
	s.token = ""
	s.claims = nil
}
