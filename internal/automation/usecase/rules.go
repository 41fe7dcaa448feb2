package usecase

import (
	"context"
	"fmt"
	"net/url"

	"board-automation/internal/automation"
	"board-automation/internal/automation/condition"
	"board-automation/internal/automation/repository"
	"board-automation/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateRule validates and stores a new rule. Validation here is the
// authoring-time gate: everything the executor would reject at run time
// as an invalid definition is refused at save time instead.
func (uc *implUseCase) CreateRule(ctx context.Context, sc model.Scope, input automation.CreateRuleInput) (automation.CreateRuleOutput, error) {
	if err := validateRuleInput(input); err != nil {
		return automation.CreateRuleOutput{}, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	rule, err := uc.ruleRepo.CreateRule(ctx, repository.CreateRuleOptions{
		BoardID:    input.BoardID,
		Name:       input.Name,
		Trigger:    input.Trigger,
		Conditions: input.Conditions,
		Actions:    input.Actions,
		Active:     active,
		CreatedBy:  sc.UserID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "automation: create rule on board %s: %v", input.BoardID, err)
		return automation.CreateRuleOutput{}, err
	}
	return automation.CreateRuleOutput{Rule: rule}, nil
}

// ListRules returns a board's rules in creation order.
func (uc *implUseCase) ListRules(ctx context.Context, sc model.Scope, input automation.ListRulesInput) (automation.ListRulesOutput, error) {
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

	rules, total, err := uc.ruleRepo.ListRules(ctx, repository.ListRulesOptions{
		BoardID: input.BoardID,
		Trigger: input.Trigger,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "automation: list rules on board %s: %v", input.BoardID, err)
		return automation.ListRulesOutput{}, err
	}
	return automation.ListRulesOutput{Rules: rules, Total: total, Limit: limit, Offset: offset}, nil
}

func (uc *implUseCase) GetRule(ctx context.Context, sc model.Scope, ruleID string) (automation.DetailRuleOutput, error) {
	rule, err := uc.ruleRepo.GetRule(ctx, ruleID)
	if err != nil {
		uc.l.Errorf(ctx, "automation: get rule %s: %v", ruleID, err)
		return automation.DetailRuleOutput{}, err
	}
	if rule.ID == "" {
		return automation.DetailRuleOutput{}, automation.ErrRuleNotFound
	}
	return automation.DetailRuleOutput{Rule: rule}, nil
}

func (uc *implUseCase) SetRuleActive(ctx context.Context, sc model.Scope, input automation.SetRuleActiveInput) (automation.SetRuleActiveOutput, error) {
	rule, err := uc.ruleRepo.SetRuleActive(ctx, input.RuleID, input.Active)
	if err != nil {
		uc.l.Errorf(ctx, "automation: set rule %s active=%t: %v", input.RuleID, input.Active, err)
		return automation.SetRuleActiveOutput{}, err
	}
	if rule.ID == "" {
		return automation.SetRuleActiveOutput{}, automation.ErrRuleNotFound
	}
	return automation.SetRuleActiveOutput{Rule: rule}, nil
}

func (uc *implUseCase) DeleteRule(ctx context.Context, sc model.Scope, ruleID string) error {
	rule, err := uc.ruleRepo.GetRule(ctx, ruleID)
	if err != nil {
		uc.l.Errorf(ctx, "automation: get rule %s: %v", ruleID, err)
		return err
	}
	if rule.ID == "" {
		return automation.ErrRuleNotFound
	}
	if err := uc.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		uc.l.Errorf(ctx, "automation: delete rule %s: %v", ruleID, err)
		return err
	}
	return nil
}

// --- Authoring-time validation ---

func validateRuleInput(input automation.CreateRuleInput) error {
	if input.BoardID == "" {
		return fmt.Errorf("%w: board id is required", automation.ErrInvalidRuleDefinition)
	}
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", automation.ErrInvalidRuleDefinition)
	}
	if !input.Trigger.Valid() {
		return fmt.Errorf("%w: unknown trigger type %q", automation.ErrInvalidRuleDefinition, input.Trigger)
	}
	for i, cond := range input.Conditions {
		if !cond.Operator.Valid() {
			return fmt.Errorf("%w: condition %d: unknown operator %q", automation.ErrInvalidRuleDefinition, i, cond.Operator)
		}
		if !condition.KnownField(cond.Field) {
			return fmt.Errorf("%w: condition %d: unknown field %q", automation.ErrInvalidRuleDefinition, i, cond.Field)
		}
	}
	for i, action := range input.Actions {
		if err := validateActionSpec(action); err != nil {
			return fmt.Errorf("%w: action %d: %v", automation.ErrInvalidRuleDefinition, i, err)
		}
	}
	return nil
}

func validateActionSpec(spec automation.ActionSpec) error {
	if !spec.Type.Valid() {
		return fmt.Errorf("unknown action type %q", spec.Type)
	}
	switch spec.Type {
	case automation.ActionMoveTask:
		_, err := stringParam(spec.Params, "target_list_id")
		return err
	case automation.ActionAssignMember:
		_, err := stringParam(spec.Params, "user_id")
		return err
	case automation.ActionAddLabel, automation.ActionRemoveLabel:
		_, err := stringParam(spec.Params, "label_id")
		return err
	case automation.ActionSetDueDate:
		_, err := timeParam(spec.Params, "date")
		return err
	case automation.ActionPostComment:
		_, err := stringParam(spec.Params, "text")
		return err
	case automation.ActionSendWebhook:
		raw, err := stringParam(spec.Params, "url")
		if err != nil {
			return err
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%q is not an http(s) url", raw)
		}
		return nil
	case automation.ActionCreateChecklistItem:
		_, err := stringParam(spec.Params, "content")
		return err
	}
	return nil
}
