package http

import (
	"ndr-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// MapRoutes mounts under /ndrs/:id on a group of its own.
func (h handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.Auth())
	r.POST("/:id/outreach", mw.RateLimit(), h.send)
	r.GET("/:id/outreach", h.attempts)
	r.POST("/:id/responses", h.recordResponse)
	r.GET("/:id/responses", h.responses)
}
