package http

import (
	"ndr-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.Auth())
	r.GET("", h.get)
	r.GET("/pending-count", h.pendingCount)
	r.GET("/:id", h.detail)
	r.POST("/:id/approve", h.approve)
	r.POST("/:id/reject", h.reject)
}
