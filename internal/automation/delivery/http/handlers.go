package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"board-automation/internal/automation"
	"board-automation/internal/middleware"
	"board-automation/pkg/response"
)

// Trigger godoc
// @Summary     Ingest a trigger occurrence
// @Description Runs one board event through the automation engine and returns the execution summary.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       body body triggerReq true "Trigger occurrence"
// @Success     200 {object} processResp
// @Failure     400 {object} response.Resp "Malformed trigger context"
// @Failure     503 {object} response.Resp "Rule store unavailable, retry the trigger"
// @Router      /api/v1/automation/triggers [POST]
func (h *handler) Trigger(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processTriggerReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	tc, err := automation.BuildContext(automation.TriggerType(req.Trigger), req.fields())
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	output, err := h.uc.Process(ctx, middleware.GetScope(c), automation.ProcessInput{
		Context: tc,
		DryRun:  req.DryRun,
	})
	if err != nil {
		h.l.Errorf(ctx, "uc.Process: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newProcessResp(output))
}

// CreateRule godoc
// @Summary     Create an automation rule
// @Description Validates and stores a new rule for a board. New rules are active unless the body says otherwise.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       body body createRuleReq true "Rule definition"
// @Success     200 {object} createRuleResp
// @Failure     400 {object} response.Resp "Invalid rule definition"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules [POST]
func (h *handler) CreateRule(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateRuleReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.CreateRule(ctx, middleware.GetScope(c), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateRule: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newCreateRuleResp(output))
}

// ListRules godoc
// @Summary     List a board's rules
// @Description Returns a paginated list of rules in creation order, with an optional trigger filter.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       board_id query string true  "Board ID"
// @Param       trigger  query string false "Filter by trigger type"
// @Param       limit    query int    false "Page size (default: 20)"
// @Param       offset   query int    false "Page offset (default: 0)"
// @Success     200 {object} listRulesResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules [GET]
func (h *handler) ListRules(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processListRulesReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.ListRules(ctx, middleware.GetScope(c), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.ListRules: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListRulesResp(output))
}

// DetailRule godoc
// @Summary     Get rule detail
// @Description Returns a single rule by its ID.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       id path string true "Rule ID"
// @Success     200 {object} detailRuleResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules/{id} [GET]
func (h *handler) DetailRule(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	output, err := h.uc.GetRule(ctx, middleware.GetScope(c), id)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetRule: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newDetailRuleResp(output))
}

// SetRuleActive godoc
// @Summary     Activate or deactivate a rule
// @Description Flips a rule's active flag. Inactive rules are never considered at dispatch.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       id   path string       true "Rule ID"
// @Param       body body setActiveReq true "Desired state"
// @Success     200 {object} detailRuleResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules/{id}/active [PATCH]
func (h *handler) SetRuleActive(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	req, err := h.processSetActiveReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.SetRuleActive(ctx, middleware.GetScope(c), automation.SetRuleActiveInput{
		RuleID: id,
		Active: *req.Active,
	})
	if err != nil {
		h.l.Errorf(ctx, "uc.SetRuleActive: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, detailRuleResp{Rule: newRuleResp(output.Rule)})
}

// DeleteRule godoc
// @Summary     Delete a rule
// @Description Permanently removes a rule. Its execution logs are kept.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       id path string true "Rule ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules/{id} [DELETE]
func (h *handler) DeleteRule(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	if err := h.uc.DeleteRule(ctx, middleware.GetScope(c), id); err != nil {
		h.l.Errorf(ctx, "uc.DeleteRule: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}

// TestRule godoc
// @Summary     Test a rule against a sample context
// @Description Runs one rule with dry run forced on. No side effects, the log record is flagged as a test run.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       id   path string     true "Rule ID"
// @Param       body body triggerReq true "Sample trigger occurrence"
// @Success     200 {object} processResp
// @Failure     400 {object} response.Resp "Malformed trigger context"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/automation/rules/{id}/test [POST]
func (h *handler) TestRule(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	req, err := h.processTriggerReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	tc, err := automation.BuildContext(automation.TriggerType(req.Trigger), req.fields())
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	output, err := h.uc.TestRule(ctx, middleware.GetScope(c), automation.TestRuleInput{
		RuleID:  id,
		Context: tc,
	})
	if err != nil {
		h.l.Errorf(ctx, "uc.TestRule: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newProcessResp(output))
}

// ListLogs godoc
// @Summary     List a rule's execution logs
// @Description Returns execution records newest first. Test runs are excluded unless include_test_runs is set.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       id                path  string true  "Rule ID"
// @Param       status            query string false "Filter by status (success/partial_failure/failure)"
// @Param       include_test_runs query bool   false "Include dry-run records"
// @Param       limit             query int    false "Page size (default: 20)"
// @Param       offset            query int    false "Page offset (default: 0)"
// @Success     200 {object} listLogsResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/automation/rules/{id}/logs [GET]
func (h *handler) ListLogs(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	req, err := h.processListLogsReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.ListLogs(ctx, middleware.GetScope(c), automation.ListLogsInput{
		RuleID:          id,
		Status:          automation.Status(req.Status),
		IncludeTestRuns: req.IncludeTestRuns,
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
	if err != nil {
		h.l.Errorf(ctx, "uc.ListLogs: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListLogsResp(output))
}
