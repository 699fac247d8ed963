package http

import (
	"ndr-srv/internal/outreach"

	"github.com/gin-gonic/gin"
)

func (h handler) processSendRequest(c *gin.Context) (outreach.SendInput, error) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.outreach.delivery.http.processSendRequest.ShouldBindJSON: %v", err)
		return outreach.SendInput{}, errWrongBody
	}
	return req.toInput(c.Param("id")), nil
}

func (h handler) processResponseRequest(c *gin.Context) (outreach.RecordResponseInput, error) {
	var req responseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.outreach.delivery.http.processResponseRequest.ShouldBindJSON: %v", err)
		return outreach.RecordResponseInput{}, errWrongBody
	}
	return req.toInput(c.Param("id")), nil
}
