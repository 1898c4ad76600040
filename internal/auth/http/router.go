package http

import (
	"github.com/gin-gonic/gin"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	"github.com/CodeMaverick-143/Project-Manager/internal/auth/middleware"
)

// Register attaches the credential routes (public) and the session routes
// (token-gated) to the given group.
func (h *Handler) Register(rg *gin.RouterGroup, provider auth.Provider) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/signin", h.SignIn)

	authed := rg.Group("")
	authed.Use(middleware.RequireSession(provider))
	authed.POST("/signout", h.SignOut)
	authed.GET("/me", h.Me)
}
