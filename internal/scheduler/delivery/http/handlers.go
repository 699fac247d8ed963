package http

import (
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// @Summary List scheduler runs
// @Tags Scheduler
// @Security Bearer
// @Param status query string false "running, succeeded or failed"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} getResp
// @Router /scheduler/runs [GET]
func (h handler) get(c *gin.Context) {
	ctx := c.Request.Context()

	var req getReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.scheduler.delivery.http.get.ShouldBindQuery: %v", err)
		response.Error(c, errWrongQuery, h.discord)
		return
	}

	o, err := h.uc.Get(ctx, scope.GetScopeFromContext(ctx), req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "internal.scheduler.delivery.http.get.uc.Get: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newGetResp(o))
}

// @Summary Latest scheduler run
// @Tags Scheduler
// @Security Bearer
// @Success 200 {object} runResp
// @Failure 404 {object} response.Resp
// @Router /scheduler/runs/latest [GET]
func (h handler) latest(c *gin.Context) {
	ctx := c.Request.Context()

	r, err := h.uc.Latest(ctx, scope.GetScopeFromContext(ctx))
	if err != nil {
		h.l.Warnf(ctx, "internal.scheduler.delivery.http.latest.uc.Latest: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newRunResp(r))
}

// @Summary Scheduler run detail
// @Tags Scheduler
// @Security Bearer
// @Param id path string true "Run ID"
// @Success 200 {object} runResp
// @Failure 404 {object} response.Resp
// @Router /scheduler/runs/{id} [GET]
func (h handler) detail(c *gin.Context) {
	ctx := c.Request.Context()

	r, err := h.uc.Detail(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Warnf(ctx, "internal.scheduler.delivery.http.detail.uc.Detail: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newRunResp(r))
}

// @Summary Trigger a scan
// @Description Runs one scan now unless a run is in progress. Protected by the internal key.
// @Tags Scheduler
// @Param X-Internal-Key header string true "Internal key"
// @Success 200 {object} tickResp
// @Router /internal/api/v1/scheduler/tick [POST]
func (h handler) tick(c *gin.Context) {
	ctx := c.Request.Context()

	o, err := h.uc.Tick(ctx)
	if err != nil {
		h.l.Errorf(ctx, "internal.scheduler.delivery.http.tick.uc.Tick: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newTickResp(o))
}
