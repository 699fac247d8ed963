package http

import (
	"ndr-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.Auth())
	r.GET("/runs", h.get)
	r.GET("/runs/latest", h.latest)
	r.GET("/runs/:id", h.detail)
}

// MapInternalRoutes serves the tick trigger for external cron callers.
func (h handler) MapInternalRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.InternalAuth())
	r.POST("/tick", h.tick)
}
