package http

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// processTriggerReq binds and validates the trigger ingress body.
func (h *handler) processTriggerReq(c *gin.Context) (triggerReq, error) {
	var req triggerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processCreateRuleReq binds the create rule request body. Semantic
// validation (trigger, fields, operators, action params) lives in the
// usecase.
func (h *handler) processCreateRuleReq(c *gin.Context) (createRuleReq, error) {
	var req createRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processListRulesReq binds the list rules query parameters.
func (h *handler) processListRulesReq(c *gin.Context) (listRulesReq, error) {
	var req listRulesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processSetActiveReq binds the activation toggle body.
func (h *handler) processSetActiveReq(c *gin.Context) (setActiveReq, error) {
	var req setActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processListLogsReq binds the log query parameters.
func (h *handler) processListLogsReq(c *gin.Context) (listLogsReq, error) {
	var req listLogsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, nil
}

// rawJSON re-exposes stored trigger data as a JSON value instead of a
// base64 blob.
func rawJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return string(data)
	}
	return value
}
