package domain

import (
	"strings"
	"time"
)

// Project types. Every stored project is one of these.
const (
	TypeSolo  = "solo"
	TypeGroup = "group"
)

// TypeAll is a filter facet value only, never stored.
const TypeAll = "all"

// Project represents a single portfolio project owned by a user.
// It is intentionally storage-agnostic and used across repository, cache and HTTP layers.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Technologies []string  `json:"technologies"`
	ImageURL     string    `json:"image_url,omitempty"`
	DemoURL      string    `json:"demo_url,omitempty"`
	GithubURL    string    `json:"github_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `json:"user_id"`
}

// ProjectFormData carries the editable fields of a project through
// create and update flows. The store assigns everything else.
type ProjectFormData struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"image_url,omitempty"`
	DemoURL      string   `json:"demo_url,omitempty"`
	GithubURL    string   `json:"github_url,omitempty"`
}

// FormData returns a value copy of the project's editable fields.
// The technologies slice is copied so callers never alias the original.
func (p *Project) FormData() ProjectFormData {
	techs := make([]string, len(p.Technologies))
	copy(techs, p.Technologies)
	return ProjectFormData{
		Title:        p.Title,
		Description:  p.Description,
		Type:         p.Type,
		Technologies: techs,
		ImageURL:     p.ImageURL,
		DemoURL:      p.DemoURL,
		GithubURL:    p.GithubURL,
	}
}

// Validate checks the fields that must be set before any store call.
func (d *ProjectFormData) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	switch d.Type {
	case TypeSolo, TypeGroup:
	default:
		return &ValidationError{Field: "type", Message: "type must be solo or group"}
	}
	return nil
}
