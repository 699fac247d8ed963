package http

import (
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// @Summary List actions
// @Tags Action
// @Security Bearer
// @Param ndr_id query string false "NDR ID"
// @Param kind query string false "REATTEMPT, ESCALATE or RTO"
// @Param approval_state query string false "PENDING, APPROVED, REJECTED or AUTO_APPROVED"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} getResp
// @Router /actions [GET]
func (h handler) get(c *gin.Context) {
	ctx := c.Request.Context()

	var req getReq
	if err := c.ShouldBindQuery(&req); err != nil || !req.validate() {
		h.l.Warnf(ctx, "internal.action.delivery.http.get.ShouldBindQuery: %v", err)
		response.Error(c, errWrongQuery, h.discord)
		return
	}

	o, err := h.uc.Get(ctx, scope.GetScopeFromContext(ctx), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "internal.action.delivery.http.get.uc.Get: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newGetResp(o))
}

// @Summary Pending approval count
// @Tags Action
// @Security Bearer
// @Success 200 {object} pendingCountResp
// @Router /actions/pending-count [GET]
func (h handler) pendingCount(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.uc.PendingCount(ctx)
	if err != nil {
		h.l.Errorf(ctx, "internal.action.delivery.http.pendingCount.uc.PendingCount: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, pendingCountResp{Pending: n})
}

// @Summary Action detail
// @Tags Action
// @Security Bearer
// @Param id path string true "Action ID"
// @Success 200 {object} actionResp
// @Failure 404 {object} response.Resp
// @Router /actions/{id} [GET]
func (h handler) detail(c *gin.Context) {
	ctx := c.Request.Context()

	a, err := h.uc.Detail(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.action.delivery.http.detail.uc.Detail: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newActionResp(a))
}

// @Summary Approve a pending action
// @Description Executes the action through the NDR state machine once approved.
// @Tags Action
// @Security Bearer
// @Param id path string true "Action ID"
// @Param body body decideReq false "Decision note"
// @Success 200 {object} actionResp
// @Failure 403 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /actions/{id}/approve [POST]
func (h handler) approve(c *gin.Context) {
	ctx := c.Request.Context()

	ip, err := h.processDecideRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	a, err := h.uc.Approve(ctx, scope.GetScopeFromContext(ctx), ip)
	if err != nil {
		h.l.Errorf(ctx, "internal.action.delivery.http.approve.uc.Approve: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newActionResp(a))
}

// @Summary Reject a pending action
// @Tags Action
// @Security Bearer
// @Param id path string true "Action ID"
// @Param body body decideReq false "Decision note"
// @Success 200 {object} actionResp
// @Failure 403 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /actions/{id}/reject [POST]
func (h handler) reject(c *gin.Context) {
	ctx := c.Request.Context()

	ip, err := h.processDecideRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	a, err := h.uc.Reject(ctx, scope.GetScopeFromContext(ctx), ip)
	if err != nil {
		h.l.Errorf(ctx, "internal.action.delivery.http.reject.uc.Reject: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newActionResp(a))
}
