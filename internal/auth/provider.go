// Package auth adapts the authentication collaborator to a session-scoped
// identity provider. The current user is nullable; every mutating feature
// checks it before touching the store. Auth-state changes are delivered
// through explicit subscription handles with a single teardown path, never
// through module-scope listener state.
package auth

import (
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated identity. Only the uid is carried; display
// attribution in the hub is anonymous by design.
type User struct {
	UID string
}

// Provider holds the session's identity and notifies subscribers on every
// sign-in and sign-out. Safe for concurrent use.
type Provider struct {
	secret []byte

	mu      sync.Mutex
	current *User
	subs    map[int]chan *User
	nextSub int
}

// NewProvider creates a provider verifying session tokens with the given
// HMAC secret.
func NewProvider(secret []byte) *Provider {
	return &Provider{
		secret: secret,
		subs:   make(map[int]chan *User),
	}
}

// SignIn verifies a signed session token and installs its identity as the
// current user. The token's subject claim carries the uid.
func (p *Provider) SignIn(token string) (*User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify session token: %w", err)
	}

	uid, err := parsed.Claims.GetSubject()
	if err != nil || uid == "" {
		return nil, fmt.Errorf("session token has no subject")
	}

	user := &User{UID: uid}
	p.mu.Lock()
	p.current = user
	p.notifyLocked()
	p.mu.Unlock()
	return user, nil
}

// SignOut clears the current identity and notifies subscribers.
func (p *Provider) SignOut() {
	p.mu.Lock()
	p.current = nil
	p.notifyLocked()
	p.mu.Unlock()
}

// CurrentUser returns the signed-in user, or nil when signed out.
func (p *Provider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// StateSubscription is an auth-state change handle. The current state is
// delivered immediately on subscribe, then on every change. Callers must
// Close() on teardown.
type StateSubscription struct {
	states <-chan *User
	cancel func()
	once   sync.Once
}

// States returns the channel of identity states; nil means signed out.
func (s *StateSubscription) States() <-chan *User {
	return s.states
}

// Close releases the subscription. Safe to call multiple times.
func (s *StateSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe registers an auth-state listener. The current state is pushed
// immediately, matching the collaborator's on-auth-state-changed semantics.
func (p *Provider) Subscribe() *StateSubscription {
	ch := make(chan *User, 4)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- p.current
	p.mu.Unlock()

	return &StateSubscription{
		states: ch,
		cancel: func() {
			p.mu.Lock()
			if sub, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(sub)
			}
			p.mu.Unlock()
		},
	}
}

// notifyLocked pushes the current state to all subscribers. Slow subscribers
// miss intermediate states rather than blocking sign-in.
func (p *Provider) notifyLocked() {
	for _, ch := range p.subs {
		select {
		case ch <- p.current:
		default:
		}
	}
}
