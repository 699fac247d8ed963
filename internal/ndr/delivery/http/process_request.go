package http

import (
	"errors"
	"io"

	"ndr-srv/internal/ndr"

	"github.com/gin-gonic/gin"
)

func (h handler) processTransitionRequest(c *gin.Context) (ndr.ManualTransitionInput, error) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "internal.ndr.delivery.http.processTransitionRequest.ShouldBindJSON: %v", err)
		return ndr.ManualTransitionInput{}, errWrongBody
	}
	return req.toInput(c.Param("id")), nil
}

// processCloseBatchRequest accepts an empty body.
func (h handler) processCloseBatchRequest(c *gin.Context) (ndr.CloseBatchInput, error) {
	var req closeBatchReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.l.Warnf(c.Request.Context(), "internal.ndr.delivery.http.processCloseBatchRequest.ShouldBindJSON: %v", err)
		return ndr.CloseBatchInput{}, errWrongBody
	}
	ip, ok := req.toInput()
	if !ok {
		return ndr.CloseBatchInput{}, errWrongBody
	}
	return ip, nil
}
