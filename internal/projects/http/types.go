package http

import (
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/collection"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/form"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	manager  *collection.Manager
	uploader form.Uploader
	maxBytes int64
}

func New(manager *collection.Manager, uploader form.Uploader, maxUploadBytes int64) *Handler {
	return &Handler{
		manager:  manager,
		uploader: uploader,
		maxBytes: maxUploadBytes,
	}
}

type projectReq struct {
	Title        string   `json:"title" form:"title"`
	Description  string   `json:"description" form:"description"`
	Type         string   `json:"type" form:"type"`
	Technologies []string `json:"technologies" form:"technologies"`
	ImageURL     string   `json:"image_url" form:"image_url"`
	DemoURL      string   `json:"demo_url" form:"demo_url"`
	GithubURL    string   `json:"github_url" form:"github_url"`
}
