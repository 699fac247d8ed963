package http

import (
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// @Summary List rules
// @Tags Rule
// @Security Bearer
// @Param type query string false "CLASSIFICATION or ACTION"
// @Param active query bool false "Active filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} getResp
// @Failure 400 {object} response.Resp
// @Router /rules [GET]
func (h handler) get(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processGetRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Get(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.get.uc.Get: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newGetResp(o))
}

// @Summary Create rule
// @Tags Rule
// @Security Bearer
// @Param body body createReq true "Rule"
// @Success 200 {object} ruleResp
// @Failure 400 {object} response.Resp
// @Failure 403 {object} response.Resp
// @Router /rules [POST]
func (h handler) create(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processCreateRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	rl, err := h.uc.Create(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.create.uc.Create: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newRuleResp(rl))
}

// @Summary Rule detail
// @Tags Rule
// @Security Bearer
// @Param id path string true "Rule ID"
// @Success 200 {object} ruleResp
// @Failure 404 {object} response.Resp
// @Router /rules/{id} [GET]
func (h handler) detail(c *gin.Context) {
	ctx := c.Request.Context()

	rl, err := h.uc.Detail(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.detail.uc.Detail: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newRuleResp(rl))
}

// @Summary Update rule
// @Description Writes a new rule version. Evaluations already running keep the previous snapshot.
// @Tags Rule
// @Security Bearer
// @Param id path string true "Rule ID"
// @Param body body updateReq true "Changed fields"
// @Success 200 {object} ruleResp
// @Failure 409 {object} response.Resp
// @Router /rules/{id} [PUT]
func (h handler) update(c *gin.Context) {
	ctx := c.Request.Context()

	req, id, sc, err := h.processUpdateRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	rl, err := h.uc.Update(ctx, sc, req.toInput(id))
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.update.uc.Update: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newRuleResp(rl))
}

// @Summary Activate rule
// @Tags Rule
// @Security Bearer
// @Param id path string true "Rule ID"
// @Success 200 {object} ruleResp
// @Router /rules/{id}/activate [POST]
func (h handler) activate(c *gin.Context) {
	ctx := c.Request.Context()

	rl, err := h.uc.Activate(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.activate.uc.Activate: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newRuleResp(rl))
}

// @Summary Deactivate rule
// @Description Deactivation never resolves NDRs the rule created.
// @Tags Rule
// @Security Bearer
// @Param id path string true "Rule ID"
// @Success 200 {object} ruleResp
// @Router /rules/{id}/deactivate [POST]
func (h handler) deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	rl, err := h.uc.Deactivate(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.deactivate.uc.Deactivate: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newRuleResp(rl))
}

// @Summary Rule version history
// @Tags Rule
// @Security Bearer
// @Param id path string true "Rule ID"
// @Success 200 {array} versionResp
// @Router /rules/{id}/versions [GET]
func (h handler) history(c *gin.Context) {
	ctx := c.Request.Context()

	vs, err := h.uc.History(ctx, scope.GetScopeFromContext(ctx), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.rule.delivery.http.history.uc.History: %v", err)
		response.Error(c, h.mapErrorCode(err), h.discord)
		return
	}

	response.OK(c, h.newVersionsResp(vs))
}
