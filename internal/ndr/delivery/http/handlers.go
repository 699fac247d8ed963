package http

import (
	"errors"

	"ndr-srv/internal/action"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// @Summary List NDRs
// @Description Ordered by priority, then risk score, then age.
// @Tags NDR
// @Security Bearer
// @Param status query string false "Comma separated statuses"
// @Param priority query string false "Comma separated priorities"
// @Param reason query string false "Comma separated reasons"
// @Param delivery_id query string false "Delivery ID"
// @Param escalated query bool false "Escalated only"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} getResp
// @Router /ndrs [GET]
func (h handler) get(c *gin.Context) {
	ctx := c.Request.Context()

	var req getReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.ndr.delivery.http.get.ShouldBindQuery: %v", err)
		response.Error(c, errWrongQuery, h.discord)
		return
	}
	ip, ok := req.toInput()
	if !ok {
		response.Error(c, errWrongQuery, h.discord)
		return
	}

	o, err := h.uc.Get(ctx, scope.GetScopeFromContext(ctx), ip)
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.get.uc.Get: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newGetResp(o))
}

// @Summary NDR counts
// @Tags NDR
// @Security Bearer
// @Success 200 {object} model.NDRStats
// @Router /ndrs/stats [GET]
func (h handler) stats(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := h.uc.Stats(ctx, scope.GetScopeFromContext(ctx))
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.stats.uc.Stats: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, st)
}

// @Summary NDR detail
// @Tags NDR
// @Security Bearer
// @Param id path string true "NDR ID"
// @Success 200 {object} ndrResp
// @Failure 404 {object} response.Resp
// @Router /ndrs/{id} [GET]
func (h handler) detail(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.uc.Detail(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.detail.uc.Detail: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newNDRResp(n))
}

// @Summary NDR status history
// @Tags NDR
// @Security Bearer
// @Param id path string true "NDR ID"
// @Success 200 {array} transitionResp
// @Failure 404 {object} response.Resp
// @Router /ndrs/{id}/transitions [GET]
func (h handler) history(c *gin.Context) {
	ctx := c.Request.Context()

	trs, err := h.uc.History(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.history.uc.History: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newHistoryResp(trs))
}

// @Summary Move an NDR to another status
// @Description An RTO request that needs approval is queued on the action gate and answered with 202.
// @Tags NDR
// @Security Bearer
// @Param id path string true "NDR ID"
// @Param body body transitionReq true "Target status"
// @Success 200 {object} ndrResp
// @Success 202 {object} pendingApprovalResp
// @Failure 400 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /ndrs/{id}/transition [POST]
func (h handler) transition(c *gin.Context) {
	ctx := c.Request.Context()
	sc := scope.GetScopeFromContext(ctx)

	ip, err := h.processTransitionRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	n, err := h.uc.ManualTransition(ctx, sc, ip)
	if err == nil {
		response.OK(c, newNDRResp(n))
		return
	}
	if !errors.Is(err, ndr.ErrApprovalRequired) || ip.To != model.NDRStatusRTO {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.transition.uc.ManualTransition: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	o, err := h.actionUC.Propose(ctx, action.ProposeInput{
		NDRID:      ip.ID,
		Kind:       model.ActionRTO,
		Config:     model.ActionConfig{Note: ip.Note},
		ProposedBy: model.OperatorActor(sc.UserID),
	})
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.transition.actionUC.Propose: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.Accepted(c, newPendingApprovalResp(o))
}

// @Summary Close a resolved or returned NDR
// @Tags NDR
// @Security Bearer
// @Param id path string true "NDR ID"
// @Success 200 {object} ndrResp
// @Failure 409 {object} response.Resp
// @Router /ndrs/{id}/close [POST]
func (h handler) close(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.uc.Close(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.close.uc.Close: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newNDRResp(n))
}

// @Summary Close resolved and returned NDRs past their grace period
// @Tags Internal
// @Param X-Internal-Key header string true "Internal key"
// @Param body body closeBatchReq false "Grace period and batch size"
// @Success 200 {object} closeBatchResp
// @Router /internal/api/v1/ndrs/close-batch [POST]
func (h handler) closeBatch(c *gin.Context) {
	ctx := c.Request.Context()

	ip, err := h.processCloseBatchRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.CloseBatch(ctx, ip)
	if err != nil {
		h.l.Errorf(ctx, "internal.ndr.delivery.http.closeBatch.uc.CloseBatch: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, closeBatchResp{Closed: o.Closed, Failed: o.Failed})
}
