package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/stream", h.stream)
	rg.POST("", h.create)
	rg.POST("/images", h.uploadImage)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
