package session

import (
	"context"
	"log"
	"sync"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
)

// Listener is notified synchronously after each session change.
type Listener func()

// State holds the current session on top of a Provider. It starts in the
// loading state until Resolve settles the initial session; afterwards
// SignIn, SignUp and SignOut are the only writers. Anything rendering
// identity-dependent state subscribes and re-reads on notification.
type State struct {
	provider auth.Provider

	mu      sync.Mutex
	current *auth.Session
	loading bool

	subs    map[int]Listener
	nextSub int
}

func NewState(provider auth.Provider) *State {
	return &State{
		provider: provider,
		loading:  true,
		subs:     make(map[int]Listener),
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Callers release it on every exit path of their lifetime.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Current returns the signed-in session, or nil when signed out.
func (s *State) Current() *auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether the initial session resolution is still pending.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Resolve settles the initial session from a persisted token. An empty or
// invalid token resolves to signed out; either way loading ends.
func (s *State) Resolve(ctx context.Context, idToken string) {
	var current *auth.Session
	if idToken != "" {
		if sess, err := s.provider.VerifyToken(ctx, idToken); err == nil {
			current = sess
		}
	}

	s.mu.Lock()
	s.current = current
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// SignIn authenticates and installs the new session. On failure the previous
// session state is untouched and the error carries the message to surface.
func (s *State) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return sess, nil
}

// SignUp registers a new account. When the provider signs the user straight
// in, the session is installed like SignIn does.
func (s *State) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if sess.IDToken != "" {
		s.mu.Lock()
		s.current = sess
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}
	return sess, nil
}

// SignOut clears the session. The provider call is best effort: its failure
// is logged only, since the local session is cleared regardless. Calling it
// while already signed out is a no-op.
func (s *State) SignOut(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return
	}

	if err := s.provider.SignOut(ctx, current.UID); err != nil {
		log.Printf("sign-out revoke failed for %s: %v", current.UID, err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

func (s *State) notify() {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
