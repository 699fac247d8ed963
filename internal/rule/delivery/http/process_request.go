package http

import (
	"ndr-srv/internal/model"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

func (h handler) processCreateRequest(c *gin.Context) (createReq, model.Scope, error) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.rule.delivery.http.processCreateRequest.ShouldBindJSON: %v", err)
		return createReq{}, model.Scope{}, errWrongBody
	}

	return req, scope.GetScopeFromContext(ctx), nil
}

func (h handler) processUpdateRequest(c *gin.Context) (updateReq, string, model.Scope, error) {
	ctx := c.Request.Context()

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.rule.delivery.http.processUpdateRequest.ShouldBindJSON: %v", err)
		return updateReq{}, "", model.Scope{}, errWrongBody
	}

	return req, c.Param("id"), scope.GetScopeFromContext(ctx), nil
}

func (h handler) processGetRequest(c *gin.Context) (getReq, model.Scope, error) {
	ctx := c.Request.Context()

	var req getReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.rule.delivery.http.processGetRequest.ShouldBindQuery: %v", err)
		return getReq{}, model.Scope{}, errWrongQuery
	}
	if req.Type != "" && req.Type != string(model.RuleTypeClassification) && req.Type != string(model.RuleTypeAction) {
		return getReq{}, model.Scope{}, errWrongQuery
	}

	return req, scope.GetScopeFromContext(ctx), nil
}
