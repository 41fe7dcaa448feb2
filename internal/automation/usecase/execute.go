package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

// executeActions runs a matched rule's action list in declared order.
// The loop is best effort: a failed action is recorded and the next one
// still runs. Cancellation is the one exception; remaining actions are
// marked cancelled without being attempted.
func (uc *implUseCase) executeActions(ctx context.Context, rule automation.Rule, tc automation.TriggerContext, opt runOptions, depth int, h *logHandle) []automation.ActionOutcome {
	outcomes := make([]automation.ActionOutcome, 0, len(rule.Actions))
	for _, spec := range rule.Actions {
		if ctx.Err() != nil {
			oc := automation.ActionOutcome{
				Action:    spec.Type,
				ErrorKind: automation.ErrorKindCancelled,
				Error:     "cancelled before execution",
			}
			uc.rec.RecordAction(h, oc)
			outcomes = append(outcomes, oc)
			continue
		}

		oc, follow := uc.executeAction(ctx, spec, rule, tc, opt)

		// A successful mutation may itself be a trigger occurrence. The
		// chain runs depth first and synchronously, so everything a chained
		// rule does is logged before this record is finalized.
		if oc.Success && follow != nil {
			if _, err := uc.process(ctx, *follow, opt, depth+1); err != nil {
				if errors.Is(err, automation.ErrMaxChainDepth) {
					oc.Success = false
					oc.ErrorKind = automation.ErrorKindMaxChainDepth
					oc.Error = err.Error()
				} else {
					uc.l.Warnf(ctx, "automation: chained trigger from rule %s: %v", rule.ID, err)
				}
			}
		}

		uc.rec.RecordAction(h, oc)
		outcomes = append(outcomes, oc)
	}
	return outcomes
}

// executeAction dispatches one action spec to the run's collaborators.
// The returned follow context, when non-nil, is the trigger occurrence
// the mutation produced.
func (uc *implUseCase) executeAction(ctx context.Context, spec automation.ActionSpec, rule automation.Rule, tc automation.TriggerContext, opt runOptions) (automation.ActionOutcome, *automation.TriggerContext) {
	oc := automation.ActionOutcome{Action: spec.Type}

	var (
		follow *automation.TriggerContext
		err    error
	)
	switch spec.Type {
	case automation.ActionMoveTask:
		follow, err = uc.runMoveTask(ctx, spec, tc, opt)
	case automation.ActionAssignMember:
		follow, err = uc.runAssignMember(ctx, spec, tc, opt)
	case automation.ActionAddLabel:
		follow, err = uc.runAddLabel(ctx, spec, tc, opt)
	case automation.ActionRemoveLabel:
		follow, err = uc.runRemoveLabel(ctx, spec, tc, opt)
	case automation.ActionSetDueDate:
		err = uc.runSetDueDate(ctx, spec, tc, opt)
	case automation.ActionPostComment:
		follow, err = uc.runPostComment(ctx, spec, tc, opt)
	case automation.ActionSendWebhook:
		err = uc.runSendWebhook(ctx, spec, rule, tc, opt)
	case automation.ActionCreateChecklistItem:
		err = uc.runCreateChecklistItem(ctx, spec, tc, opt)
	default:
		oc.ErrorKind = automation.ErrorKindUnknownAction
		oc.Error = fmt.Sprintf("unknown action type %q", spec.Type)
		return oc, nil
	}

	if err != nil {
		oc.ErrorKind = classifyActionError(err)
		oc.Error = err.Error()
		return oc, nil
	}
	oc.Success = true
	return oc, follow
}

func classifyActionError(err error) automation.ErrorKind {
	switch {
	case errors.Is(err, automation.ErrInvalidActionParameters):
		return automation.ErrorKindInvalidParameters
	case errors.Is(err, automation.ErrActionConflict):
		return automation.ErrorKindConflict
	default:
		return automation.ErrorKindUnavailable
	}
}

// --- Individual actions ---

func (uc *implUseCase) runMoveTask(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) (*automation.TriggerContext, error) {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return nil, err
	}
	target, err := stringParam(spec.Params, "target_list_id")
	if err != nil {
		return nil, err
	}
	fromListID := tc.Task.ListID
	if fromListID == target {
		// Already in place: nothing to chain, nothing to do.
		return nil, nil
	}

	task, err := opt.collab.tasks.MoveTask(ctx, taskID, target)
	if err != nil {
		return nil, err
	}
	follow, err := automation.BuildContext(automation.TriggerTaskMoved, automation.ContextFields{
		BoardID:    tc.BoardID,
		Task:       &task,
		Actor:      tc.Actor,
		FromListID: fromListID,
		ToListID:   target,
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (uc *implUseCase) runAssignMember(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) (*automation.TriggerContext, error) {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return nil, err
	}
	userID, err := stringParam(spec.Params, "user_id")
	if err != nil {
		return nil, err
	}

	task, err := opt.collab.tasks.AssignMember(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	follow, err := automation.BuildContext(automation.TriggerMemberAssigned, automation.ContextFields{
		BoardID: tc.BoardID,
		Task:    &task,
		Actor:   &model.User{ID: userID},
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (uc *implUseCase) runAddLabel(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) (*automation.TriggerContext, error) {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return nil, err
	}
	labelID, err := stringParam(spec.Params, "label_id")
	if err != nil {
		return nil, err
	}
	if tc.Task.HasLabel(labelID) {
		// Idempotent: the label is already there, no event occurred.
		return nil, nil
	}

	task, label, err := opt.collab.tasks.AddLabel(ctx, taskID, labelID)
	if err != nil {
		return nil, err
	}
	follow, err := automation.BuildContext(automation.TriggerLabelAdded, automation.ContextFields{
		BoardID: tc.BoardID,
		Task:    &task,
		Label:   &label,
		Actor:   tc.Actor,
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (uc *implUseCase) runRemoveLabel(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) (*automation.TriggerContext, error) {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return nil, err
	}
	labelID, err := stringParam(spec.Params, "label_id")
	if err != nil {
		return nil, err
	}
	if !tc.Task.HasLabel(labelID) {
		return nil, nil
	}

	task, label, err := opt.collab.tasks.RemoveLabel(ctx, taskID, labelID)
	if err != nil {
		return nil, err
	}
	follow, err := automation.BuildContext(automation.TriggerLabelRemoved, automation.ContextFields{
		BoardID: tc.BoardID,
		Task:    &task,
		Label:   &label,
		Actor:   tc.Actor,
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (uc *implUseCase) runSetDueDate(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) error {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return err
	}
	due, err := timeParam(spec.Params, "date")
	if err != nil {
		return err
	}
	_, err = opt.collab.tasks.SetDueDate(ctx, taskID, due)
	return err
}

func (uc *implUseCase) runPostComment(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) (*automation.TriggerContext, error) {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return nil, err
	}
	text, err := stringParam(spec.Params, "text")
	if err != nil {
		return nil, err
	}
	rendered := renderTemplate(text, tc)

	task, comment, err := opt.collab.tasks.PostComment(ctx, taskID, rendered)
	if err != nil {
		return nil, err
	}
	follow, err := automation.BuildContext(automation.TriggerCommentAdded, automation.ContextFields{
		BoardID: tc.BoardID,
		Task:    &task,
		Actor:   tc.Actor,
		Comment: comment.Text,
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (uc *implUseCase) runSendWebhook(ctx context.Context, spec automation.ActionSpec, rule automation.Rule, tc automation.TriggerContext, opt runOptions) error {
	url, err := stringParam(spec.Params, "url")
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{
		"rule_id":   rule.ID,
		"rule_name": rule.Name,
		"trigger":   tc.Snapshot(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", automation.ErrInvalidActionParameters, err)
	}
	return opt.collab.webhooks.Send(ctx, url, body)
}

func (uc *implUseCase) runCreateChecklistItem(ctx context.Context, spec automation.ActionSpec, tc automation.TriggerContext, opt runOptions) error {
	taskID, err := contextTaskID(tc)
	if err != nil {
		return err
	}
	content, err := stringParam(spec.Params, "content")
	if err != nil {
		return err
	}
	_, err = opt.collab.tasks.CreateChecklistItem(ctx, taskID, renderTemplate(content, tc))
	return err
}

// --- Parameter extraction ---

func contextTaskID(tc automation.TriggerContext) (string, error) {
	if tc.Task == nil || tc.Task.ID == "" {
		return "", fmt.Errorf("%w: trigger context carries no task", automation.ErrInvalidActionParameters)
	}
	return tc.Task.ID, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", automation.ErrInvalidActionParameters, key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", automation.ErrInvalidActionParameters, key)
	}
	return s, nil
}

// timeParam accepts RFC 3339 timestamps and bare dates.
func timeParam(params map[string]any, key string) (time.Time, error) {
	s, err := stringParam(params, key)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date", automation.ErrInvalidActionParameters, key)
}
