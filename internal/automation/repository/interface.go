package repository

import (
	"context"

	"board-automation/internal/automation"
)

// Repository is the composed interface for the automation data stores.
type Repository interface {
	RuleRepository
	LogRepository
}

// RuleRepository is the rule store adapter contract. The engine depends
// on two guarantees: ActiveRulesForTrigger returns only active rules,
// and ordering is stable creation order so matched rules execute
// deterministically across identical runs.
type RuleRepository interface {
	CreateRule(ctx context.Context, opt CreateRuleOptions) (automation.Rule, error)

	// GetRule returns the zero-value Rule (ID == "") when not found.
	GetRule(ctx context.Context, id string) (automation.Rule, error)

	ListRules(ctx context.Context, opt ListRulesOptions) ([]automation.Rule, int, error)

	ActiveRulesForTrigger(ctx context.Context, boardID string, trigger automation.TriggerType) ([]automation.Rule, error)

	SetRuleActive(ctx context.Context, id string, active bool) (automation.Rule, error)

	DeleteRule(ctx context.Context, id string) error
}

// LogRepository is the execution log store. Logs are append-only:
// created when a matched rule begins executing, finalized exactly once,
// never mutated afterward.
type LogRepository interface {
	CreateLog(ctx context.Context, opt CreateLogOptions) (automation.Log, error)
	FinalizeLog(ctx context.Context, opt FinalizeLogOptions) error
	ListLogs(ctx context.Context, opt ListLogsOptions) ([]automation.Log, int, error)
}
