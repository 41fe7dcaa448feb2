package usecase

import (
	"context"
	"fmt"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

// runOptions carries per-run dispatch state through the recursion.
type runOptions struct {
	dryRun bool
	collab collaborators
}

// Process runs one trigger occurrence through the full dispatch flow.
// Rule and action failures are contained in the summary; the only error
// returns are a malformed context and an unreachable rule store.
func (uc *implUseCase) Process(ctx context.Context, sc model.Scope, input automation.ProcessInput) (automation.ProcessOutput, error) {
	opt := runOptions{dryRun: input.DryRun, collab: uc.live}
	if input.DryRun {
		opt.collab = uc.preview
	}
	return uc.process(ctx, input.Context, opt, 0)
}

// TestRule runs a single rule against a sample context, dry run forced,
// preview collaborators only. The rule's active flag is ignored so
// authors can test before switching a rule on.
func (uc *implUseCase) TestRule(ctx context.Context, sc model.Scope, input automation.TestRuleInput) (automation.ProcessOutput, error) {
	if err := input.Context.Validate(); err != nil {
		return automation.ProcessOutput{}, err
	}

	rule, err := uc.ruleRepo.GetRule(ctx, input.RuleID)
	if err != nil {
		uc.l.Errorf(ctx, "automation: load rule %s: %v", input.RuleID, err)
		return automation.ProcessOutput{}, fmt.Errorf("%w: %v", automation.ErrTriggerAborted, err)
	}
	if rule.ID == "" {
		return automation.ProcessOutput{}, automation.ErrRuleNotFound
	}

	var out automation.ProcessOutput
	uc.runRule(ctx, rule, input.Context, runOptions{dryRun: true, collab: uc.preview}, 0, &out)
	return out, nil
}

// process is the dispatch core, shared by the external entry point and
// chained re-entry. depth counts chain links; the entry check means a
// self-chaining rule executes exactly maxChainDepth times.
func (uc *implUseCase) process(ctx context.Context, tc automation.TriggerContext, opt runOptions, depth int) (automation.ProcessOutput, error) {
	if err := tc.Validate(); err != nil {
		return automation.ProcessOutput{}, err
	}
	if depth >= uc.maxChainDepth {
		return automation.ProcessOutput{}, fmt.Errorf("%w: depth %d on trigger %s", automation.ErrMaxChainDepth, depth, tc.Trigger)
	}

	rules, err := uc.ruleRepo.ActiveRulesForTrigger(ctx, tc.BoardID, tc.Trigger)
	if err != nil {
		uc.l.Errorf(ctx, "automation: load rules for board %s trigger %s: %v", tc.BoardID, tc.Trigger, err)
		return automation.ProcessOutput{}, fmt.Errorf("%w: %v", automation.ErrTriggerAborted, err)
	}

	var out automation.ProcessOutput
	for _, rule := range rules {
		if ctx.Err() != nil {
			// Cancellation stops the remaining candidate rules; rules that
			// already ran keep their finalized logs.
			break
		}
		if rule.Inert() {
			continue
		}
		uc.runRule(ctx, rule, tc, opt, depth, &out)
	}
	return out, nil
}

// runRule evaluates one rule and, on match, executes its action list
// under a fresh log record.
func (uc *implUseCase) runRule(ctx context.Context, rule automation.Rule, tc automation.TriggerContext, opt runOptions, depth int, out *automation.ProcessOutput) {
	matched, err := uc.cond.Evaluate(rule.Conditions, tc)
	if err != nil {
		// A broken definition must reach the rule author: record a failed
		// invocation, then keep going with the sibling rules.
		uc.l.Warnf(ctx, "automation: rule %s (%s): %v", rule.ID, rule.Name, err)
		h := uc.rec.Begin(ctx, rule, tc, opt.dryRun)
		uc.rec.Finish(ctx, h, automation.StatusFailure, err.Error())
		out.Results = append(out.Results, automation.RuleResult{
			RuleID: rule.ID,
			Status: automation.StatusFailure,
		})
		return
	}
	if !matched {
		// Unmatched rules leave no trace: no log record, no result entry.
		return
	}

	out.RulesMatched++
	h := uc.rec.Begin(ctx, rule, tc, opt.dryRun)
	outcomes := uc.executeActions(ctx, rule, tc, opt, depth, h)
	status := statusFromOutcomes(outcomes)
	uc.rec.Finish(ctx, h, status, "")

	out.RulesExecuted++
	out.Results = append(out.Results, automation.RuleResult{
		RuleID:   rule.ID,
		Status:   status,
		Outcomes: outcomes,
	})
}

// statusFromOutcomes folds per-action outcomes into the invocation
// status. A cancelled action marks the whole invocation failed.
func statusFromOutcomes(outcomes []automation.ActionOutcome) automation.Status {
	succeeded, failed := 0, 0
	for _, oc := range outcomes {
		if oc.ErrorKind == automation.ErrorKindCancelled {
			return automation.StatusFailure
		}
		if oc.Success {
			succeeded++
		} else {
			failed++
		}
	}
	switch {
	case failed == 0:
		return automation.StatusSuccess
	case succeeded == 0:
		return automation.StatusFailure
	default:
		return automation.StatusPartialFailure
	}
}
