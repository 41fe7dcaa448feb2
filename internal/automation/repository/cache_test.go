package repository_test

import (
	"context"
	"testing"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/automation/repository"
)

// fakeRuleRepo counts calls so tests can observe cache hits.
type fakeRuleRepo struct {
	repository.RuleRepository

	rules      map[string]automation.Rule
	activeHits int
}

func newFakeRuleRepo(rules ...automation.Rule) *fakeRuleRepo {
	byID := make(map[string]automation.Rule, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}
	return &fakeRuleRepo{rules: byID}
}

func (f *fakeRuleRepo) ActiveRulesForTrigger(ctx context.Context, boardID string, trigger automation.TriggerType) ([]automation.Rule, error) {
	f.activeHits++
	var out []automation.Rule
	for _, r := range f.rules {
		if r.BoardID == boardID && r.Trigger == trigger && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) GetRule(ctx context.Context, id string) (automation.Rule, error) {
	return f.rules[id], nil
}

func (f *fakeRuleRepo) CreateRule(ctx context.Context, opt repository.CreateRuleOptions) (automation.Rule, error) {
	rule := automation.Rule{
		ID:      "rule-new",
		BoardID: opt.BoardID,
		Trigger: opt.Trigger,
		Actions: opt.Actions,
		Active:  opt.Active,
	}
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeRuleRepo) SetRuleActive(ctx context.Context, id string, active bool) (automation.Rule, error) {
	rule := f.rules[id]
	rule.Active = active
	f.rules[id] = rule
	return rule, nil
}

func (f *fakeRuleRepo) DeleteRule(ctx context.Context, id string) error {
	delete(f.rules, id)
	return nil
}

func TestCachedRuleRepository(t *testing.T) {
	ctx := context.Background()

	base := automation.Rule{
		ID:      "rule-1",
		BoardID: "board-1",
		Trigger: automation.TriggerLabelAdded,
		Actions: []automation.ActionSpec{{Type: automation.ActionPostComment}},
		Active:  true,
	}

	t.Run("Serves From Cache", func(t *testing.T) {
		inner := newFakeRuleRepo(base)
		cached := repository.NewCachedRuleRepository(inner, 16, time.Minute)

		for i := 0; i < 3; i++ {
			rules, err := cached.ActiveRulesForTrigger(ctx, "board-1", automation.TriggerLabelAdded)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rules) != 1 {
				t.Fatalf("expected 1 rule, got %d", len(rules))
			}
		}
		if inner.activeHits != 1 {
			t.Errorf("expected 1 store hit, got %d", inner.activeHits)
		}
	})

	t.Run("Create Invalidates Board", func(t *testing.T) {
		inner := newFakeRuleRepo(base)
		cached := repository.NewCachedRuleRepository(inner, 16, time.Minute)

		if _, err := cached.ActiveRulesForTrigger(ctx, "board-1", automation.TriggerLabelAdded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := cached.CreateRule(ctx, repository.CreateRuleOptions{
			BoardID: "board-1",
			Trigger: automation.TriggerLabelAdded,
			Actions: []automation.ActionSpec{{Type: automation.ActionMoveTask}},
			Active:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rules, err := cached.ActiveRulesForTrigger(ctx, "board-1", automation.TriggerLabelAdded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rules) != 2 {
			t.Errorf("expected fresh read with 2 rules after create, got %d", len(rules))
		}
		if inner.activeHits != 2 {
			t.Errorf("expected 2 store hits after invalidation, got %d", inner.activeHits)
		}
	})

	t.Run("Deactivate Invalidates Board", func(t *testing.T) {
		inner := newFakeRuleRepo(base)
		cached := repository.NewCachedRuleRepository(inner, 16, time.Minute)

		if _, err := cached.ActiveRulesForTrigger(ctx, "board-1", automation.TriggerLabelAdded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := cached.SetRuleActive(ctx, "rule-1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rules, err := cached.ActiveRulesForTrigger(ctx, "board-1", automation.TriggerLabelAdded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rules) != 0 {
			t.Errorf("deactivated rule still served: %+v", rules)
		}
	})

	t.Run("Other Boards Unaffected", func(t *testing.T) {
		other := base
		other.ID = "rule-2"
		other.BoardID = "board-2"
		inner := newFakeRuleRepo(base, other)
		cached := repository.NewCachedRuleRepository(inner, 16, time.Minute)

		if _, err := cached.ActiveRulesForTrigger(ctx, "board-2", automation.TriggerLabelAdded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := cached.CreateRule(ctx, repository.CreateRuleOptions{
			BoardID: "board-1",
			Trigger: automation.TriggerLabelAdded,
			Actions: []automation.ActionSpec{{Type: automation.ActionMoveTask}},
			Active:  true,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		hitsBefore := inner.activeHits
		if _, err := cached.ActiveRulesForTrigger(ctx, "board-2", automation.TriggerLabelAdded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inner.activeHits != hitsBefore {
			t.Error("board-2 cache entry should have survived board-1 invalidation")
		}
	})
}
