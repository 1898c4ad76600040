package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/CodeMaverick-143/Project-Manager/config"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(cfg *config.FirebaseConfig) (*auth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider implements Provider on top of the Admin SDK plus the
// Identity Toolkit REST API. The Admin SDK has no password sign-in, so that
// one call goes through the web API key endpoint.
type FirebaseProvider struct {
	client  *auth.Client
	apiKey  string
	httpc   *http.Client
	signURL string
}

func NewFirebaseProvider(client *auth.Client, cfg *config.FirebaseConfig) *FirebaseProvider {
	return &FirebaseProvider{
		client:  client,
		apiKey:  cfg.WebAPIKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		signURL: identityToolkitURL,
	}
}

// WithSignInURL overrides the Identity Toolkit endpoint; used in tests.
func (p *FirebaseProvider) WithSignInURL(url string) *FirebaseProvider {
	p.signURL = url
	return p
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("FIREBASE_WEB_API_KEY is required for password sign-in")
	}

	payload, _ := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.signURL+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Reason: signInErrorReason(body)}
	}

	var out struct {
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}

	return &Session{
		UID:          out.LocalID,
		Email:        out.Email,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	user, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, &AuthError{Reason: signUpErrorReason(err), Err: err}
	}

	// Sign the new user straight in so the caller gets a usable session.
	if p.apiKey != "" {
		if s, signErr := p.SignIn(ctx, email, password); signErr == nil {
			return s, nil
		}
	}
	return &Session{UID: user.UID, Email: email}, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*Session, error) {
	decoded, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, &AuthError{Reason: "invalid token", Err: err}
	}

	s := &Session{UID: decoded.UID, IDToken: idToken}
	if email, ok := decoded.Claims["email"].(string); ok {
		s.Email = email
	}
	return s, nil
}

func signInErrorReason(body []byte) string {
	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &out)

	switch {
	case out.Error.Message == "EMAIL_NOT_FOUND",
		out.Error.Message == "INVALID_PASSWORD",
		strings.HasPrefix(out.Error.Message, "INVALID_LOGIN_CREDENTIALS"):
		return "invalid email or password"
	case strings.HasPrefix(out.Error.Message, "TOO_MANY_ATTEMPTS"):
		return "too many attempts, try again later"
	case out.Error.Message == "USER_DISABLED":
		return "this account has been disabled"
	case out.Error.Message != "":
		return strings.ToLower(strings.ReplaceAll(out.Error.Message, "_", " "))
	default:
		return "sign-in failed"
	}
}

func signUpErrorReason(err error) string {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return "an account with this email already exists"
	case strings.Contains(err.Error(), "password"):
		return "password must be at least 6 characters"
	case strings.Contains(err.Error(), "email"):
		return "email address is malformed"
	default:
		return "sign-up failed"
	}
}
