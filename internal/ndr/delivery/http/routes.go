package http

import (
	"ndr-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.Auth())
	r.GET("", h.get)
	r.GET("/stats", h.stats)
	r.GET("/:id", h.detail)
	r.GET("/:id/transitions", h.history)
	r.POST("/:id/transition", h.transition)
	r.POST("/:id/close", h.close)
}

func (h handler) MapInternalRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.Use(mw.InternalAuth())
	r.POST("/close-batch", h.closeBatch)
}
