package http

import "github.com/CodeMaverick-143/Project-Manager/internal/auth"

type Handler struct {
	provider auth.Provider
}

func New(provider auth.Provider) *Handler {
	return &Handler{
		provider: provider,
	}
}
