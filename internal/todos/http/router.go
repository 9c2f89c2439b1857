package http

import "github.com/gin-gonic/gin"

// Register attaches the todo routes to the given router group.
// The collection verbs carry their target in the JSON body.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("", h.setDone)
	rg.DELETE("", h.delete)
	rg.GET("/:id", h.get)
}
