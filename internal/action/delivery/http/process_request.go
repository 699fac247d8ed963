package http

import (
	"errors"
	"io"

	"ndr-srv/internal/action"

	"github.com/gin-gonic/gin"
)

// processDecideRequest accepts an empty body.
func (h handler) processDecideRequest(c *gin.Context) (action.DecideInput, error) {
	var req decideReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.l.Warnf(c.Request.Context(), "internal.action.delivery.http.processDecideRequest.ShouldBindJSON: %v", err)
		return action.DecideInput{}, errWrongBody
	}
	return action.DecideInput{ID: c.Param("id"), Note: req.Note}, nil
}
