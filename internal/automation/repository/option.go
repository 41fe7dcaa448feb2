package repository

import (
	"time"

	"board-automation/internal/automation"
)

// CreateRuleOptions holds parameters for inserting a new rule.
type CreateRuleOptions struct {
	BoardID    string
	Name       string
	Trigger    automation.TriggerType
	Conditions []automation.Condition
	Actions    []automation.ActionSpec
	Active     bool
	CreatedBy  string
}

// ListRulesOptions holds filter and pagination parameters for listing
// a board's rules.
type ListRulesOptions struct {
	BoardID string
	Trigger automation.TriggerType // optional
	Limit   int
	Offset  int
}

// CreateLogOptions opens a new execution log record.
type CreateLogOptions struct {
	RuleID      string
	BoardID     string
	TestRun     bool
	TriggerData []byte
	StartedAt   time.Time
}

// FinalizeLogOptions closes an execution log record.
type FinalizeLogOptions struct {
	ID         string
	Status     automation.Status
	Actions    []automation.ActionOutcome
	Error      string
	FinishedAt time.Time
}

// ListLogsOptions holds filter and pagination parameters for the log
// query surface.
type ListLogsOptions struct {
	RuleID          string
	Status          automation.Status // optional
	IncludeTestRuns bool
	Limit           int
	Offset          int
}
