package usecase

import (
	"context"

	"board-automation/internal/automation"
	"board-automation/internal/automation/repository"
	"board-automation/internal/model"
)

// ListLogs serves the external log query surface for one rule, newest
// first. Test-run records stay hidden unless explicitly requested.
func (uc *implUseCase) ListLogs(ctx context.Context, sc model.Scope, input automation.ListLogsInput) (automation.ListLogsOutput, error) {
	rule, err := uc.ruleRepo.GetRule(ctx, input.RuleID)
	if err != nil {
		uc.l.Errorf(ctx, "automation: get rule %s: %v", input.RuleID, err)
		return automation.ListLogsOutput{}, err
	}
	if rule.ID == "" {
		return automation.ListLogsOutput{}, automation.ErrRuleNotFound
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	logs, total, err := uc.logRepo.ListLogs(ctx, repository.ListLogsOptions{
		RuleID:          input.RuleID,
		Status:          input.Status,
		IncludeTestRuns: input.IncludeTestRuns,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "automation: list logs for rule %s: %v", input.RuleID, err)
		return automation.ListLogsOutput{}, err
	}
	return automation.ListLogsOutput{Logs: logs, Total: total, Limit: limit, Offset: offset}, nil
}
