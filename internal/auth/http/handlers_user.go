package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
)

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and, when the provider allows it, signs the
// user straight in.
func (h *Handler) SignUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	sess, err := h.provider.SignUp(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": sess})
}

// SignIn exchanges credentials for a session.
func (h *Handler) SignIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	sess, err := h.provider.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

// SignOut revokes the caller's sessions. Best effort: a provider failure is
// logged and the response still succeeds, since the client clears its local
// session regardless.
func (h *Handler) SignOut(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid != "" {
		if err := h.provider.SignOut(c.Request.Context(), uid); err != nil {
			log.Printf("sign-out revoke failed for %s: %v", uid, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the verified identity of the caller.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"uid":   auth.UserFirebaseUID(c),
		"email": auth.UserEmail(c),
	})
}

func writeAuthError(c *gin.Context, err error) {
	var aErr *auth.AuthError
	if errors.As(err, &aErr) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": aErr.Reason})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "authentication service unavailable"})
}
