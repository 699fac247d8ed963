package httpserver

import (
	"context"
	"net/http"
	"time"

	"ndr-srv/pkg/errors"
	"ndr-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	serviceName   = "ndr-srv"
	version       = "1.0.0"
	checkTimeout  = 2 * time.Second
	unhealthyCode = 503
)

// dependencies pings the stores the service cannot work without and returns a
// status per dependency.
func (srv *HTTPServer) dependencies(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := map[string]string{}
	ok := true
	if srv.db != nil {
		status["postgres"] = "connected"
		if err := srv.db.PingContext(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.dependencies.db.PingContext: %v", err)
			status["postgres"] = "unavailable"
			ok = false
		}
	}
	if srv.redis != nil {
		status["redis"] = "connected"
		if err := srv.redis.Ping(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.dependencies.redis.Ping: %v", err)
			status["redis"] = "unavailable"
			ok = false
		}
	}
	return status, ok
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the service and its stores are healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Failure 503 {object} response.Resp "A dependency is down"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	deps, ok := srv.dependencies(ctx)
	if !ok {
		response.Error(c, errors.NewHTTPError(unhealthyCode, "Dependency check failed", http.StatusServiceUnavailable), srv.discord)
		return
	}

	var pending int64
	if n, err := srv.uc.Action.PendingCount(ctx); err == nil {
		pending = n
	}

	response.OK(c, gin.H{
		"status":            "healthy",
		"version":           version,
		"service":           serviceName,
		"dependencies":      deps,
		"pending_approvals": pending,
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Description Check if the service is ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} response.Resp "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	deps, ok := srv.dependencies(c.Request.Context())
	if !ok {
		response.Error(c, errors.NewHTTPError(unhealthyCode, "Service is not ready", http.StatusServiceUnavailable), srv.discord)
		return
	}

	response.OK(c, gin.H{
		"status":       "ready",
		"version":      version,
		"service":      serviceName,
		"dependencies": deps,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the process is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": version,
		"service": serviceName,
	})
}
