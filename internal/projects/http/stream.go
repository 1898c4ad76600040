package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/filter"
)

// stream pushes the caller's filtered project list over SSE: one snapshot on
// connect, then one whenever the collection changes. The filter engine only
// recomputes when the snapshot actually changed.
func (h *Handler) stream(c *gin.Context) {
	col, err := h.manager.For(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	term := c.Query("q")
	typ := c.DefaultQuery("type", domain.TypeAll)
	engine := filter.NewEngine()

	changes := make(chan struct{}, 1)
	unsubscribe := col.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("projects", engine.Visible(col.Projects(), term, typ))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-changes:
			c.SSEvent("projects", engine.Visible(col.Projects(), term, typ))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
