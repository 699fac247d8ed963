package http

import (
	"ndr-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// MapRoutes registers the rule routes on r. Every route requires a bearer token.
func (h handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.Auth())
	r.GET("", h.get)
	r.POST("", h.create)
	r.GET("/:id", h.detail)
	r.PUT("/:id", h.update)
	r.POST("/:id/activate", h.activate)
	r.POST("/:id/deactivate", h.deactivate)
	r.GET("/:id/versions", h.history)
}
