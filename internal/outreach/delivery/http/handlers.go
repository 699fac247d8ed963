package http

import (
	"errors"

	"ndr-srv/internal/outreach"
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// @Summary Contact the customer about an NDR
// @Description A provider failure is still answered with 200 and success=false; the attempt is recorded as FAILED.
// @Tags Outreach
// @Security Bearer
// @Param id path string true "NDR ID"
// @Param body body sendReq true "Channel and optional message"
// @Success 200 {object} sendResp
// @Failure 400 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /ndrs/{id}/outreach [POST]
func (h handler) send(c *gin.Context) {
	ctx := c.Request.Context()

	ip, err := h.processSendRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.ManualSend(ctx, scope.GetScopeFromContext(ctx), ip)
	if err != nil {
		var sendErr *outreach.SendFailureError
		if errors.As(err, &sendErr) {
			response.OK(c, newSendResp(o))
			return
		}
		h.l.Errorf(ctx, "internal.outreach.delivery.http.send.uc.ManualSend: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newSendResp(o))
}

// @Summary Outreach attempts of an NDR
// @Tags Outreach
// @Security Bearer
// @Param id path string true "NDR ID"
// @Success 200 {array} attemptResp
// @Failure 404 {object} response.Resp
// @Router /ndrs/{id}/outreach [GET]
func (h handler) attempts(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.uc.ListAttempts(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.outreach.delivery.http.attempts.uc.ListAttempts: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newAttemptsResp(list))
}

// @Summary Record what the customer answered
// @Description CONFIRMED resolves the NDR. RESCHEDULE schedules a reattempt.
// @Tags Outreach
// @Security Bearer
// @Param id path string true "NDR ID"
// @Param body body responseReq true "Customer response"
// @Success 200 {object} recordResponseResp
// @Failure 400 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /ndrs/{id}/responses [POST]
func (h handler) recordResponse(c *gin.Context) {
	ctx := c.Request.Context()

	ip, err := h.processResponseRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.RecordResponse(ctx, scope.GetScopeFromContext(ctx), ip)
	if err != nil {
		h.l.Errorf(ctx, "internal.outreach.delivery.http.recordResponse.uc.RecordResponse: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, newRecordResponseResp(o))
}

// @Summary Customer responses of an NDR
// @Tags Outreach
// @Security Bearer
// @Param id path string true "NDR ID"
// @Success 200 {array} customerResponseResp
// @Router /ndrs/{id}/responses [GET]
func (h handler) responses(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.uc.ListResponses(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.outreach.delivery.http.responses.uc.ListResponses: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	out := make([]customerResponseResp, 0, len(list))
	for _, r := range list {
		out = append(out, newCustomerResponseResp(r))
	}
	response.OK(c, out)
}
