package form

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

// pngHeader is enough for content-type sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakeUploader struct {
	url     string
	err     error
	calls   int
	lastKey string
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	u.calls++
	u.lastKey = key
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type fakeSubmitter struct {
	project  *domain.Project
	err      error
	creates  int
	updates  int
	lastID   string
	lastData domain.ProjectFormData

	entered chan struct{}
	release chan struct{}
}

func (s *fakeSubmitter) Create(_ context.Context, data domain.ProjectFormData) (*domain.Project, error) {
	s.creates++
	s.lastData = data
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.project, s.err
}

func (s *fakeSubmitter) Update(_ context.Context, id string, data domain.ProjectFormData) (*domain.Project, error) {
	s.updates++
	s.lastID = id
	s.lastData = data
	return s.project, s.err
}

func newTestController(submitter *fakeSubmitter, uploader *fakeUploader) *Controller {
	if uploader == nil {
		uploader = &fakeUploader{url: "https://cdn.test/img.png"}
	}
	return New(uploader, submitter, 1<<20)
}

func fillValidDraft(c *Controller) {
	c.SetTitle("Portfolio Site")
	c.SetDescription("Personal portfolio")
	c.SetType(domain.TypeSolo)
}

func TestSubmitRequiresOpenDialog(t *testing.T) {
	c := newTestController(&fakeSubmitter{}, nil)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestValidationRunsBeforeAnyNetworkCall(t *testing.T) {
	submitter := &fakeSubmitter{}
	uploader := &fakeUploader{url: "https://cdn.test/img.png"}
	c := newTestController(submitter, uploader)

	c.OpenCreate()
	require.NoError(t, c.SelectImage("shot.png", pngHeader))

	_, err := c.Submit(context.Background())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Zero(t, uploader.calls, "upload must not run for an invalid draft")
	assert.Zero(t, submitter.creates, "create must not run for an invalid draft")
	assert.Equal(t, StateCreating, c.State(), "dialog stays open after a failed submit")
}

func TestSubmitCreate(t *testing.T) {
	created := &domain.Project{ID: "p1", Title: "Portfolio Site"}
	submitter := &fakeSubmitter{project: created}
	c := newTestController(submitter, nil)

	c.OpenCreate()
	fillValidDraft(c)
	c.AddTechnology("React")

	got, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Same(t, created, got)
	assert.Equal(t, 1, submitter.creates)
	assert.Equal(t, []string{"React"}, submitter.lastData.Technologies)
	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, c.Draft().Title, "draft is discarded after success")
}

func TestSubmitEdit(t *testing.T) {
	existing := &domain.Project{
		ID: "p2", Title: "Team Tracker", Description: "Sprint board",
		Type: domain.TypeGroup, Technologies: []string{"Go"},
	}
	updated := &domain.Project{ID: "p2", Title: "Team Tracker v2"}
	submitter := &fakeSubmitter{project: updated}
	c := newTestController(submitter, nil)

	c.OpenEdit(existing)
	assert.Equal(t, "Team Tracker", c.Draft().Title)
	c.SetTitle("Team Tracker v2")

	got, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Same(t, updated, got)
	assert.Equal(t, 1, submitter.updates)
	assert.Equal(t, "p2", submitter.lastID)
	assert.Zero(t, submitter.creates)
}

func TestEditDraftDoesNotAliasProject(t *testing.T) {
	existing := &domain.Project{
		ID: "p3", Title: "Weather CLI", Description: "Forecast tool",
		Type: domain.TypeSolo, Technologies: []string{"Go"},
	}
	c := newTestController(&fakeSubmitter{}, nil)

	c.OpenEdit(existing)
	c.SetTitle("changed")
	c.AddTechnology("Cobra")

	assert.Equal(t, "Weather CLI", existing.Title)
	assert.Equal(t, []string{"Go"}, existing.Technologies)
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	submitter := &fakeSubmitter{err: &domain.StoreError{Op: "insert", Err: errors.New("down")}}
	c := newTestController(submitter, nil)

	c.OpenCreate()
	fillValidDraft(c)
	c.AddTechnology("React")

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateCreating, c.State())
	draft := c.Draft()
	assert.Equal(t, "Portfolio Site", draft.Title)
	assert.Equal(t, []string{"React"}, draft.Technologies)

	// the retry goes through untouched
	submitter.err = nil
	submitter.project = &domain.Project{ID: "p4"}
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, submitter.creates)
}

func TestUploadFailurePreservesDraftAndSkipsSubmit(t *testing.T) {
	submitter := &fakeSubmitter{}
	uploader := &fakeUploader{err: errors.New("bucket unreachable")}
	c := newTestController(submitter, uploader)

	c.OpenCreate()
	fillValidDraft(c)
	require.NoError(t, c.SelectImage("shot.png", pngHeader))

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, uploader.calls)
	assert.Zero(t, submitter.creates, "persist must not run when the upload failed")
	assert.Equal(t, StateCreating, c.State())
	assert.Equal(t, "Portfolio Site", c.Draft().Title)
	assert.Equal(t, "shot.png", c.PendingImage(), "pending image survives for the retry")
}

func TestSubmitUploadsPendingImage(t *testing.T) {
	submitter := &fakeSubmitter{project: &domain.Project{ID: "p5"}}
	uploader := &fakeUploader{url: "https://cdn.test/project-images/abc.png"}
	c := newTestController(submitter, uploader)

	c.OpenCreate()
	fillValidDraft(c)
	require.NoError(t, c.SelectImage("shot.png", pngHeader))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, uploader.calls)
	assert.True(t, strings.HasPrefix(uploader.lastKey, "project-images/"))
	assert.True(t, strings.HasSuffix(uploader.lastKey, ".png"))
	assert.Equal(t, uploader.url, submitter.lastData.ImageURL)
}

func TestSelectImageRejectsOversizedFile(t *testing.T) {
	c := New(&fakeUploader{}, &fakeSubmitter{}, 8)

	err := c.SelectImage("big.png", pngHeader)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Field)
	assert.Empty(t, c.PendingImage())
}

func TestSelectImageRejectsNonImage(t *testing.T) {
	c := newTestController(&fakeSubmitter{}, nil)

	err := c.SelectImage("notes.txt", []byte("plain text, clearly not an image"))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file is not an image", verr.Message)
}

func TestAddTechnologySemantics(t *testing.T) {
	c := newTestController(&fakeSubmitter{}, nil)
	c.OpenCreate()

	assert.True(t, c.AddTechnology("  React  "))
	assert.False(t, c.AddTechnology("React"), "exact duplicate is a no-op")
	assert.True(t, c.AddTechnology("react"), "tags are case-sensitive")
	assert.False(t, c.AddTechnology("   "))

	assert.Equal(t, []string{"React", "react"}, c.Draft().Technologies)

	c.RemoveTechnology("React")
	assert.Equal(t, []string{"react"}, c.Draft().Technologies)
}

func TestCloseDiscardsEverything(t *testing.T) {
	c := newTestController(&fakeSubmitter{}, nil)

	c.OpenCreate()
	fillValidDraft(c)
	require.NoError(t, c.SelectImage("shot.png", pngHeader))
	c.Close()

	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, c.Draft().Title)
	assert.Empty(t, c.PendingImage())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmitRejectsReentrancy(t *testing.T) {
	submitter := &fakeSubmitter{
		project: &domain.Project{ID: "p6"},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := newTestController(submitter, nil)

	c.OpenCreate()
	fillValidDraft(c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-submitter.entered
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(submitter.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, submitter.creates)
}
