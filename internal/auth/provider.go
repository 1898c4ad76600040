package auth

import "context"

// Session is the signed-in identity, or absent (nil) when signed out.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthError reports invalid credentials or a signup policy violation. The
// reason is a single human-readable message safe to show the user.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Provider is the session-provider boundary. The Firebase implementation is
// the production one; tests substitute fakes.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	// SignOut revokes the user's sessions. Best effort: callers clear local
	// state regardless of the outcome.
	SignOut(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, idToken string) (*Session, error)
}
