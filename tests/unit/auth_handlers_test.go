package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	authhttp "github.com/CodeMaverick-143/Project-Manager/internal/auth/http"
)

type stubProvider struct {
	session    *auth.Session
	signInErr  error
	signUpErr  error
	signOutErr error
	verifyErr  error
	signOuts   int
}

func (p *stubProvider) SignIn(context.Context, string, string) (*auth.Session, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return p.session, nil
}

func (p *stubProvider) SignUp(context.Context, string, string) (*auth.Session, error) {
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	return p.session, nil
}

func (p *stubProvider) SignOut(context.Context, string) error {
	p.signOuts++
	return p.signOutErr
}

func (p *stubProvider) VerifyToken(context.Context, string) (*auth.Session, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.session, nil
}

func newAuthRouter(provider *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := authhttp.New(provider)
	handler.Register(router.Group("/api/v1/auth"), provider)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSignIn(t *testing.T) {
	provider := &stubProvider{session: &auth.Session{UID: "u1", Email: "a@b.c", IDToken: "tok"}}
	router := newAuthRouter(provider)

	t.Run("success", func(t *testing.T) {
		rr := postJSON(t, router, "/api/v1/auth/signin",
			map[string]string{"email": "a@b.c", "password": "pw"}, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var body struct {
			OK      bool         `json:"ok"`
			Session auth.Session `json:"session"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(t, body.OK)
		assert.Equal(t, "u1", body.Session.UID)
		assert.Equal(t, "tok", body.Session.IDToken)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		provider.signInErr = &auth.AuthError{Reason: "invalid email or password"}
		defer func() { provider.signInErr = nil }()

		rr := postJSON(t, router, "/api/v1/auth/signin",
			map[string]string{"email": "a@b.c", "password": "nope"}, nil)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "invalid email or password", body["error"])
	})

	t.Run("provider outage", func(t *testing.T) {
		provider.signInErr = errors.New("identity endpoint unreachable")
		defer func() { provider.signInErr = nil }()

		rr := postJSON(t, router, "/api/v1/auth/signin",
			map[string]string{"email": "a@b.c", "password": "pw"}, nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := postJSON(t, router, "/api/v1/auth/signin", map[string]string{"email": "a@b.c"}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSignUp(t *testing.T) {
	provider := &stubProvider{session: &auth.Session{UID: "u2", Email: "new@b.c", IDToken: "tok"}}
	router := newAuthRouter(provider)

	t.Run("success", func(t *testing.T) {
		rr := postJSON(t, router, "/api/v1/auth/signup",
			map[string]string{"email": "new@b.c", "password": "pw"}, nil)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		provider.signUpErr = &auth.AuthError{Reason: "email already registered"}
		defer func() { provider.signUpErr = nil }()

		rr := postJSON(t, router, "/api/v1/auth/signup",
			map[string]string{"email": "new@b.c", "password": "pw"}, nil)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "email already registered", body["error"])
	})
}

func TestSignOut(t *testing.T) {
	provider := &stubProvider{session: &auth.Session{UID: "u1", Email: "a@b.c"}}
	router := newAuthRouter(provider)
	bearer := map[string]string{"Authorization": "Bearer tok"}

	t.Run("revokes and succeeds", func(t *testing.T) {
		rr := postJSON(t, router, "/api/v1/auth/signout", map[string]string{}, bearer)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, provider.signOuts)
	})

	t.Run("succeeds even when revoke fails", func(t *testing.T) {
		provider.signOutErr = errors.New("revoke unreachable")
		defer func() { provider.signOutErr = nil }()

		rr := postJSON(t, router, "/api/v1/auth/signout", map[string]string{}, bearer)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("requires a token", func(t *testing.T) {
		rr := postJSON(t, router, "/api/v1/auth/signout", map[string]string{}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMe(t *testing.T) {
	provider := &stubProvider{session: &auth.Session{UID: "u1", Email: "a@b.c"}}
	router := newAuthRouter(provider)

	t.Run("with valid token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "u1", body["uid"])
		assert.Equal(t, "a@b.c", body["email"])
	})

	t.Run("rejected token", func(t *testing.T) {
		provider.verifyErr = &auth.AuthError{Reason: "token expired"}
		defer func() { provider.verifyErr = nil }()

		req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
