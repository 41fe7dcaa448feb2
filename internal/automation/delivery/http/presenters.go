package http

import (
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

// --- Request DTOs ---

type triggerTaskReq struct {
	ID          string     `json:"id"          binding:"required"`
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  string     `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
	Labels      []labelReq `json:"labels"`
}

type labelReq struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

type userReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// triggerReq is one trigger occurrence as posted by the board service.
// Entities arrive fully resolved; the engine does not look them up.
type triggerReq struct {
	BoardID    string          `json:"board_id" binding:"required"`
	Trigger    string          `json:"trigger"  binding:"required"`
	DryRun     bool            `json:"dry_run"`
	Task       *triggerTaskReq `json:"task"`
	ListID     string          `json:"list_id"`
	Label      *labelReq       `json:"label"`
	Actor      *userReq        `json:"actor"`
	FromListID string          `json:"from_list_id"`
	ToListID   string          `json:"to_list_id"`
	DueDate    *time.Time      `json:"due_date"`
	Comment    string          `json:"comment"`
}

func (r triggerReq) fields() automation.ContextFields {
	fields := automation.ContextFields{
		BoardID:    r.BoardID,
		ListID:     r.ListID,
		FromListID: r.FromListID,
		ToListID:   r.ToListID,
		DueDate:    r.DueDate,
		Comment:    r.Comment,
	}
	if r.Task != nil {
		labels := make([]model.Label, len(r.Task.Labels))
		for i, label := range r.Task.Labels {
			labels[i] = model.Label{ID: label.ID, BoardID: label.BoardID, Name: label.Name, Color: label.Color}
		}
		fields.Task = &model.Task{
			ID:          r.Task.ID,
			BoardID:     r.BoardID,
			ListID:      r.Task.ListID,
			Title:       r.Task.Title,
			Description: r.Task.Description,
			AssigneeID:  r.Task.AssigneeID,
			DueDate:     r.Task.DueDate,
			Completed:   r.Task.Completed,
			Labels:      labels,
		}
	}
	if r.Label != nil {
		fields.Label = &model.Label{ID: r.Label.ID, BoardID: r.Label.BoardID, Name: r.Label.Name, Color: r.Label.Color}
	}
	if r.Actor != nil {
		fields.Actor = &model.User{ID: r.Actor.ID, Name: r.Actor.Name}
	}
	return fields
}

// ---

type conditionReq struct {
	Field    string `json:"field"    binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Value    any    `json:"value"`
}

type actionReq struct {
	Type   string         `json:"type" binding:"required"`
	Params map[string]any `json:"params"`
}

type createRuleReq struct {
	BoardID    string         `json:"board_id" binding:"required"`
	Name       string         `json:"name"     binding:"required,min=1,max=255"`
	Trigger    string         `json:"trigger"  binding:"required"`
	Conditions []conditionReq `json:"conditions"`
	Actions    []actionReq    `json:"actions"  binding:"required,min=1"`
	Active     *bool          `json:"active"`
}

func (r createRuleReq) toInput() automation.CreateRuleInput {
	conditions := make([]automation.Condition, len(r.Conditions))
	for i, cond := range r.Conditions {
		conditions[i] = automation.Condition{
			Field:    cond.Field,
			Operator: automation.Operator(cond.Operator),
			Value:    cond.Value,
		}
	}
	actions := make([]automation.ActionSpec, len(r.Actions))
	for i, action := range r.Actions {
		actions[i] = automation.ActionSpec{
			Type:   automation.ActionType(action.Type),
			Params: action.Params,
		}
	}
	return automation.CreateRuleInput{
		BoardID:    r.BoardID,
		Name:       r.Name,
		Trigger:    automation.TriggerType(r.Trigger),
		Conditions: conditions,
		Actions:    actions,
		Active:     r.Active,
	}
}

// ---

type listRulesReq struct {
	BoardID string `form:"board_id" binding:"required"`
	Trigger string `form:"trigger"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

func (r listRulesReq) toInput() automation.ListRulesInput {
	return automation.ListRulesInput{
		BoardID: r.BoardID,
		Trigger: automation.TriggerType(r.Trigger),
		Limit:   r.Limit,
		Offset:  r.Offset,
	}
}

type setActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

type listLogsReq struct {
	Status          string `form:"status"`
	IncludeTestRuns bool   `form:"include_test_runs"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// --- Response DTOs ---

type conditionResp struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

type actionResp struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

type ruleResp struct {
	ID         string          `json:"id"`
	BoardID    string          `json:"board_id"`
	Name       string          `json:"name"`
	Trigger    string          `json:"trigger"`
	Conditions []conditionResp `json:"conditions"`
	Actions    []actionResp    `json:"actions"`
	Active     bool            `json:"active"`
	CreatedBy  string          `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func newRuleResp(rule automation.Rule) ruleResp {
	conditions := make([]conditionResp, len(rule.Conditions))
	for i, cond := range rule.Conditions {
		conditions[i] = conditionResp{Field: cond.Field, Operator: string(cond.Operator), Value: cond.Value}
	}
	actions := make([]actionResp, len(rule.Actions))
	for i, action := range rule.Actions {
		actions[i] = actionResp{Type: string(action.Type), Params: action.Params}
	}
	return ruleResp{
		ID:         rule.ID,
		BoardID:    rule.BoardID,
		Name:       rule.Name,
		Trigger:    string(rule.Trigger),
		Conditions: conditions,
		Actions:    actions,
		Active:     rule.Active,
		CreatedBy:  rule.CreatedBy,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

type outcomeResp struct {
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ruleResultResp struct {
	RuleID   string        `json:"rule_id"`
	Status   string        `json:"status"`
	Outcomes []outcomeResp `json:"outcomes"`
}

type processResp struct {
	RulesMatched  int              `json:"rules_matched"`
	RulesExecuted int              `json:"rules_executed"`
	Results       []ruleResultResp `json:"results"`
}

func (h *handler) newProcessResp(out automation.ProcessOutput) processResp {
	results := make([]ruleResultResp, len(out.Results))
	for i, result := range out.Results {
		outcomes := make([]outcomeResp, len(result.Outcomes))
		for j, oc := range result.Outcomes {
			outcomes[j] = outcomeResp{
				Action:    string(oc.Action),
				Success:   oc.Success,
				ErrorKind: string(oc.ErrorKind),
				Error:     oc.Error,
			}
		}
		results[i] = ruleResultResp{
			RuleID:   result.RuleID,
			Status:   string(result.Status),
			Outcomes: outcomes,
		}
	}
	return processResp{
		RulesMatched:  out.RulesMatched,
		RulesExecuted: out.RulesExecuted,
		Results:       results,
	}
}

type createRuleResp struct {
	Rule ruleResp `json:"rule"`
}

func (h *handler) newCreateRuleResp(out automation.CreateRuleOutput) createRuleResp {
	return createRuleResp{Rule: newRuleResp(out.Rule)}
}

type listRulesResp struct {
	Rules  []ruleResp `json:"rules"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func (h *handler) newListRulesResp(out automation.ListRulesOutput) listRulesResp {
	rules := make([]ruleResp, len(out.Rules))
	for i, rule := range out.Rules {
		rules[i] = newRuleResp(rule)
	}
	return listRulesResp{
		Rules:  rules,
		Total:  out.Total,
		Limit:  out.Limit,
		Offset: out.Offset,
	}
}

type detailRuleResp struct {
	Rule ruleResp `json:"rule"`
}

func (h *handler) newDetailRuleResp(out automation.DetailRuleOutput) detailRuleResp {
	return detailRuleResp{Rule: newRuleResp(out.Rule)}
}

type logResp struct {
	ID          string        `json:"id"`
	RuleID      string        `json:"rule_id"`
	BoardID     string        `json:"board_id"`
	Status      string        `json:"status"`
	TestRun     bool          `json:"test_run"`
	TriggerData any           `json:"trigger_data,omitempty"`
	Actions     []outcomeResp `json:"actions"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}

type listLogsResp struct {
	Logs   []logResp `json:"logs"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

func (h *handler) newListLogsResp(out automation.ListLogsOutput) listLogsResp {
	logs := make([]logResp, len(out.Logs))
	for i, entry := range out.Logs {
		actions := make([]outcomeResp, len(entry.Actions))
		for j, oc := range entry.Actions {
			actions[j] = outcomeResp{
				Action:    string(oc.Action),
				Success:   oc.Success,
				ErrorKind: string(oc.ErrorKind),
				Error:     oc.Error,
			}
		}
		logs[i] = logResp{
			ID:          entry.ID,
			RuleID:      entry.RuleID,
			BoardID:     entry.BoardID,
			Status:      string(entry.Status),
			TestRun:     entry.TestRun,
			TriggerData: rawJSON(entry.TriggerData),
			Actions:     actions,
			Error:       entry.Error,
			StartedAt:   entry.StartedAt,
			FinishedAt:  entry.FinishedAt,
		}
	}
	return listLogsResp{
		Logs:   logs,
		Total:  out.Total,
		Limit:  out.Limit,
		Offset: out.Offset,
	}
}
