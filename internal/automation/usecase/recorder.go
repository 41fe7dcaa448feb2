package usecase

import (
	"context"
	"encoding/json"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/automation/repository"
	"board-automation/pkg/log"
)

// recorder owns the execution log lifecycle: one record per matched
// rule, opened before the first action runs and finalized exactly once.
// Recording failures are logged and swallowed; a broken log store must
// not take down action execution.
type recorder struct {
	repo repository.LogRepository
	l    log.Logger
}

// logHandle accumulates one invocation's outcomes between Begin and
// Finish. A handle with an empty id means the record could not be
// persisted; the outcomes still feed the in-memory summary.
type logHandle struct {
	id       string
	outcomes []automation.ActionOutcome
}

// Begin opens an execution record for a matched rule. The trigger
// context is snapshotted at match time so the record stays faithful to
// what was evaluated, whatever chained rules do afterwards.
func (r *recorder) Begin(ctx context.Context, rule automation.Rule, tc automation.TriggerContext, testRun bool) *logHandle {
	data, err := json.Marshal(tc.Snapshot())
	if err != nil {
		r.l.Errorf(ctx, "automation/recorder: snapshot rule %s: %v", rule.ID, err)
		data = nil
	}

	entry, err := r.repo.CreateLog(ctx, repository.CreateLogOptions{
		RuleID:      rule.ID,
		BoardID:     rule.BoardID,
		TestRun:     testRun,
		TriggerData: data,
		StartedAt:   time.Now().UTC(),
	})
	if err != nil {
		r.l.Errorf(ctx, "automation/recorder: open log for rule %s: %v", rule.ID, err)
		return &logHandle{}
	}
	return &logHandle{id: entry.ID}
}

// RecordAction appends one action outcome to the handle.
func (r *recorder) RecordAction(h *logHandle, outcome automation.ActionOutcome) {
	h.outcomes = append(h.outcomes, outcome)
}

// Finish closes the record with its aggregate status. errNote carries a
// rule-level failure reason (invalid definition) when no action ran.
func (r *recorder) Finish(ctx context.Context, h *logHandle, status automation.Status, errNote string) {
	if h.id == "" {
		return
	}
	err := r.repo.FinalizeLog(ctx, repository.FinalizeLogOptions{
		ID:         h.id,
		Status:     status,
		Actions:    h.outcomes,
		Error:      errNote,
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		r.l.Errorf(ctx, "automation/recorder: finalize log %s: %v", h.id, err)
	}
}
