package httpserver

import (
	// Import this to execute the init function in docs.go which setups the Swagger docs.
	_ "ndr-srv/docs"

	actionHTTP "ndr-srv/internal/action/delivery/http"
	"ndr-srv/internal/middleware"
	ndrHTTP "ndr-srv/internal/ndr/delivery/http"
	outreachHTTP "ndr-srv/internal/outreach/delivery/http"
	ruleHTTP "ndr-srv/internal/rule/delivery/http"
	schedulerHTTP "ndr-srv/internal/scheduler/delivery/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	Api         = "/api/v1"
	InternalApi = "/internal/api/v1"
)

func (srv *HTTPServer) mapHandlers() {
	srv.gin.Use(middleware.Recovery(srv.l, srv.discord))
	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig(srv.corsOrigins...)))
	if srv.metrics != nil {
		srv.gin.Use(srv.metrics.GinMiddleware())
		srv.gin.GET("/metrics", gin.WrapH(srv.metrics.Handler()))
	}

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	mw := middleware.New(srv.l, srv.scopeManager, srv.internalKeyHash).WithRateLimiter(srv.sendLimiter)

	ruleH := ruleHTTP.New(srv.l, srv.uc.Rule, srv.discord)
	ndrH := ndrHTTP.New(srv.l, srv.uc.NDR, srv.uc.Action, srv.discord)
	outreachH := outreachHTTP.New(srv.l, srv.uc.Outreach, srv.discord)
	actionH := actionHTTP.New(srv.l, srv.uc.Action, srv.discord)
	schedulerH := schedulerHTTP.New(srv.l, srv.uc.Scheduler, srv.discord)

	api := srv.gin.Group(Api)
	ruleH.MapRoutes(api.Group("/rules"), mw)
	ndrH.MapRoutes(api.Group("/ndrs"), mw)
	outreachH.MapRoutes(api.Group("/ndrs"), mw)
	actionH.MapRoutes(api.Group("/actions"), mw)
	schedulerH.MapRoutes(api.Group("/scheduler"), mw)

	internal := srv.gin.Group(InternalApi)
	ndrH.MapInternalRoutes(internal.Group("/ndrs"), mw)
	schedulerH.MapInternalRoutes(internal.Group("/scheduler"), mw)
}
