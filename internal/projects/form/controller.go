package form

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

// State of the controller's dialog.
type State int

const (
	StateClosed State = iota
	StateCreating
	StateEditing
)

var (
	// ErrClosed is returned when Submit is called with no open dialog.
	ErrClosed = errors.New("form is not open")
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// Submit has not resolved yet.
	ErrSubmitInFlight = errors.New("submit already in flight")
)

// Uploader is the object-store contract the controller needs: store bytes
// under a key and hand back a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

// Submitter persists the merged form data. A project Collection satisfies it.
type Submitter interface {
	Create(ctx context.Context, data domain.ProjectFormData) (*domain.Project, error)
	Update(ctx context.Context, id string, data domain.ProjectFormData) (*domain.Project, error)
}

const imageKeyPrefix = "project-images/"

// Controller owns the draft state of one create-or-edit dialog. The draft is
// always a value copy of the project being edited, discarded on close or
// successful submit and preserved across failed submits so nothing has to be
// re-entered before a retry.
type Controller struct {
	uploader  Uploader
	submitter Submitter
	maxBytes  int64

	mu        sync.Mutex
	state     State
	editingID string
	draft     domain.ProjectFormData

	imageName string
	imageData []byte
	imageType string
	inFlight  bool
}

// New creates a controller in the closed state. maxUploadBytes bounds
// SelectImage; zero means no limit.
func New(uploader Uploader, submitter Submitter, maxUploadBytes int64) *Controller {
	return &Controller{
		uploader:  uploader,
		submitter: submitter,
		maxBytes:  maxUploadBytes,
	}
}

// OpenCreate resets the draft to empty defaults and opens the dialog.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateCreating
	c.editingID = ""
	c.draft = domain.ProjectFormData{Type: domain.TypeSolo, Technologies: []string{}}
	c.clearImageLocked()
}

// OpenEdit initializes the draft from the project's editable fields. The
// backing id is fixed for the dialog's lifetime.
func (c *Controller) OpenEdit(p *domain.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	c.editingID = p.ID
	c.draft = p.FormData()
	c.clearImageLocked()
}

// Close discards the draft unconditionally, from any state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
	c.editingID = ""
	c.draft = domain.ProjectFormData{}
	c.clearImageLocked()
}

// State returns the current dialog state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EditingID returns the backing project id when editing, "" otherwise.
func (c *Controller) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// Draft returns a value copy of the current draft.
func (c *Controller) Draft() domain.ProjectFormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.draft
	d.Technologies = append([]string(nil), c.draft.Technologies...)
	return d
}

// PendingImage reports the locally selected file name, or "" when none is
// pending. This doubles as the client-side preview reference.
func (c *Controller) PendingImage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imageName
}

func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = title
}

func (c *Controller) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = description
}

func (c *Controller) SetType(projectType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Type = projectType
}

func (c *Controller) SetImageURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.ImageURL = url
}

func (c *Controller) SetLinks(demoURL, githubURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.DemoURL = demoURL
	c.draft.GithubURL = githubURL
}

// AddTechnology appends the trimmed tag to the draft. Empty values and exact
// duplicates are no-ops; "React" and "react" count as distinct tags.
func (c *Controller) AddTechnology(tech string) bool {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.draft.Technologies {
		if existing == tech {
			return false
		}
	}
	c.draft.Technologies = append(c.draft.Technologies, tech)
	return true
}

// RemoveTechnology removes the tag by exact value.
func (c *Controller) RemoveTechnology(tech string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.draft.Technologies[:0]
	for _, existing := range c.draft.Technologies {
		if existing != tech {
			next = append(next, existing)
		}
	}
	c.draft.Technologies = next
}

// SelectImage stores a locally chosen file for upload on the next Submit.
// The draft's image URL is untouched until that upload succeeds. Files over
// the size limit or without an image content type are rejected up front.
func (c *Controller) SelectImage(filename string, data []byte) error {
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return &domain.ValidationError{Field: "image", Message: "image exceeds the upload size limit"}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return &domain.ValidationError{Field: "image", Message: "file is not an image"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageName = filename
	c.imageData = data
	c.imageType = contentType
	return nil
}

// Submit validates the draft, uploads a pending image if any, merges the
// resulting URL, and persists via the submitter. At most one Submit may be
// in flight per controller. On any failure the draft and state are
// preserved so the same action can be retried immediately.
func (c *Controller) Submit(ctx context.Context) (*domain.Project, error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.inFlight = true

	draft := c.draft
	draft.Technologies = append([]string(nil), c.draft.Technologies...)
	state := c.state
	editingID := c.editingID
	imageName := c.imageName
	imageData := c.imageData
	imageType := c.imageType
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// Required fields are checked before any network call.
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if imageName != "" {
		key := imageKeyPrefix + uuid.New().String() + filepath.Ext(imageName)
		url, err := c.uploader.Upload(ctx, key, bytes.NewReader(imageData), int64(len(imageData)), imageType)
		if err != nil {
			return nil, err
		}
		draft.ImageURL = url

		c.mu.Lock()
		c.draft.ImageURL = url
		c.clearImageLocked()
		c.mu.Unlock()
	}

	var (
		p   *domain.Project
		err error
	)
	if state == StateEditing {
		p, err = c.submitter.Update(ctx, editingID, draft)
	} else {
		p, err = c.submitter.Create(ctx, draft)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.state = StateClosed
	c.editingID = ""
	c.draft = domain.ProjectFormData{}
	c.clearImageLocked()
	c.mu.Unlock()
	return p, nil
}

func (c *Controller) clearImageLocked() {
	c.imageName = ""
	c.imageData = nil
	c.imageType = ""
}
