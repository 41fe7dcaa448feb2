package usecase

import (
	"context"
	"errors"
	"testing"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

func urgentTaskContext(t *testing.T, labelName string) automation.TriggerContext {
	t.Helper()
	tc, err := automation.BuildContext(automation.TriggerTaskCreated, automation.ContextFields{
		BoardID: "board-1",
		Task: &model.Task{
			ID:     "task-1",
			ListID: "list-todo",
			Title:  "Fix login outage",
			Labels: []model.Label{{ID: "label-1", Name: labelName}},
		},
		Actor: &model.User{ID: "user-1", Name: "An"},
	})
	if err != nil {
		t.Fatalf("build context: %v", err)
	}
	return tc
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("Malformed Context", func(t *testing.T) {
		uc := newTestUseCase(&fakeRuleStore{}, &fakeLogStore{}, &fakeMutator{}, &fakeSender{})
		_, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{
			Context: automation.TriggerContext{Trigger: automation.TriggerTaskCreated},
		})
		if !errors.Is(err, automation.ErrMalformedContext) {
			t.Errorf("expected ErrMalformedContext, got %v", err)
		}
	})

	t.Run("Rule Store Unavailable Aborts Trigger", func(t *testing.T) {
		rules := &fakeRuleStore{activeErr: errors.New("connection refused")}
		logs := &fakeLogStore{}
		uc := newTestUseCase(rules, logs, &fakeMutator{}, &fakeSender{})

		_, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if !errors.Is(err, automation.ErrTriggerAborted) {
			t.Errorf("expected ErrTriggerAborted, got %v", err)
		}
		if len(logs.logs) != 0 {
			t.Errorf("aborted trigger must not write logs, got %d", len(logs.logs))
		}
	})

	t.Run("Empty Conditions Always Match", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionSendWebhook,
				Params: map[string]any{"url": "https://hooks.example.com/a"},
			}},
		}}}
		logs := &fakeLogStore{}
		sender := &fakeSender{}
		uc := newTestUseCase(rules, logs, &fakeMutator{}, sender)

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 1 || out.RulesExecuted != 1 {
			t.Errorf("expected 1 matched and executed, got %d/%d", out.RulesMatched, out.RulesExecuted)
		}
		if len(sender.urls) != 1 {
			t.Errorf("expected 1 webhook delivery, got %d", len(sender.urls))
		}
	})

	t.Run("Label Condition Matches Urgent Not Minor", func(t *testing.T) {
		rule := automation.Rule{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Conditions: []automation.Condition{{
				Field: "task.labels", Operator: automation.OperatorContains, Value: "Urgent",
			}},
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionMoveTask,
				Params: map[string]any{"target_list_id": "list-now"},
			}},
		}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{}
		uc := newTestUseCase(&fakeRuleStore{rules: []automation.Rule{rule}}, logs, tasks, &fakeSender{})

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 1 {
			t.Errorf("Urgent task should match, got %d", out.RulesMatched)
		}
		if len(tasks.calls) != 1 || tasks.calls[0] != "move:task-1:list-now" {
			t.Errorf("unexpected mutator calls: %v", tasks.calls)
		}

		out, err = uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Minor")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 0 {
			t.Errorf("Minor task should not match, got %d", out.RulesMatched)
		}
		if len(logs.logsForRule("rule-1")) != 1 {
			t.Errorf("unmatched invocation must leave no log, got %d records", len(logs.logsForRule("rule-1")))
		}
	})

	t.Run("Rules Execute In Creation Order", func(t *testing.T) {
		mk := func(id, target string) automation.Rule {
			return automation.Rule{
				ID: id, BoardID: "board-1", Trigger: automation.TriggerTaskCompleted, Active: true,
				Actions: []automation.ActionSpec{{
					Type:   automation.ActionCreateChecklistItem,
					Params: map[string]any{"content": target},
				}},
			}
		}
		rules := &fakeRuleStore{rules: []automation.Rule{mk("rule-a", "first"), mk("rule-b", "second"), mk("rule-c", "third")}}
		tasks := &fakeMutator{}
		uc := newTestUseCase(rules, &fakeLogStore{}, tasks, &fakeSender{})

		tc, _ := automation.BuildContext(automation.TriggerTaskCompleted, automation.ContextFields{
			BoardID: "board-1",
			Task:    &model.Task{ID: "task-1", Completed: true},
		})
		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: tc})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"checklist:task-1:first", "checklist:task-1:second", "checklist:task-1:third"}
		if len(tasks.calls) != len(want) {
			t.Fatalf("expected %d calls, got %v", len(want), tasks.calls)
		}
		for i := range want {
			if tasks.calls[i] != want[i] {
				t.Errorf("call %d: expected %q, got %q", i, want[i], tasks.calls[i])
			}
		}
		if len(out.Results) != 3 || out.Results[0].RuleID != "rule-a" || out.Results[2].RuleID != "rule-c" {
			t.Errorf("results out of order: %+v", out.Results)
		}
	})

	t.Run("Inert Rule Skipped", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
		}}}
		logs := &fakeLogStore{}
		uc := newTestUseCase(rules, logs, &fakeMutator{}, &fakeSender{})

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 0 || len(out.Results) != 0 || len(logs.logs) != 0 {
			t.Errorf("inert rule must be invisible, got %+v with %d logs", out, len(logs.logs))
		}
	})

	t.Run("Invalid Definition Logged Siblings Still Run", func(t *testing.T) {
		broken := automation.Rule{
			ID: "rule-broken", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Conditions: []automation.Condition{{Field: "task.title", Operator: "matches_regex", Value: ".*"}},
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionPostComment,
				Params: map[string]any{"text": "never runs"},
			}},
		}
		healthy := automation.Rule{
			ID: "rule-healthy", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionSendWebhook,
				Params: map[string]any{"url": "https://hooks.example.com/b"},
			}},
		}
		logs := &fakeLogStore{}
		sender := &fakeSender{}
		uc := newTestUseCase(&fakeRuleStore{rules: []automation.Rule{broken, healthy}}, logs, &fakeMutator{}, sender)

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("invalid definition must be contained, got %v", err)
		}
		if out.RulesMatched != 1 || out.RulesExecuted != 1 {
			t.Errorf("broken rule must not count as matched or executed, got %d/%d", out.RulesMatched, out.RulesExecuted)
		}
		if len(out.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(out.Results))
		}
		if out.Results[0].RuleID != "rule-broken" || out.Results[0].Status != automation.StatusFailure {
			t.Errorf("broken rule result: %+v", out.Results[0])
		}
		if len(sender.urls) != 1 {
			t.Errorf("healthy sibling should still have run, deliveries: %d", len(sender.urls))
		}

		brokenLogs := logs.logsForRule("rule-broken")
		if len(brokenLogs) != 1 {
			t.Fatalf("expected 1 failure log for broken rule, got %d", len(brokenLogs))
		}
		if brokenLogs[0].Status != automation.StatusFailure || brokenLogs[0].Error == "" {
			t.Errorf("failure log must carry the definition error: %+v", brokenLogs[0])
		}
	})

	t.Run("Dry Run Uses Preview Collaborators", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{
				{Type: automation.ActionMoveTask, Params: map[string]any{"target_list_id": "list-now"}},
				{Type: automation.ActionSendWebhook, Params: map[string]any{"url": "https://hooks.example.com/c"}},
			},
		}}}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{}
		sender := &fakeSender{}
		uc := newTestUseCase(rules, logs, tasks, sender)

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{
			Context: urgentTaskContext(t, "Urgent"),
			DryRun:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesExecuted != 1 || out.Results[0].Status != automation.StatusSuccess {
			t.Errorf("dry run should report a normal summary: %+v", out)
		}
		if len(tasks.calls) != 0 || len(sender.urls) != 0 {
			t.Errorf("dry run must not touch live collaborators: %v / %v", tasks.calls, sender.urls)
		}
		if len(logs.logs) != 1 || !logs.logs[0].TestRun {
			t.Errorf("dry run log must be flagged test_run: %+v", logs.logs)
		}
	})

	t.Run("Cancellation Skips Remaining Rules", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(context.Background())
		mk := func(id string) automation.Rule {
			return automation.Rule{
				ID: id, BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
				Actions: []automation.ActionSpec{
					{Type: automation.ActionPostComment, Params: map[string]any{"text": "one"}},
					{Type: automation.ActionPostComment, Params: map[string]any{"text": "two"}},
				},
			}
		}
		rules := &fakeRuleStore{rules: []automation.Rule{mk("rule-1"), mk("rule-2")}}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{
			commentFunc: func(taskID, text string) (model.Task, model.Comment, error) {
				// First comment of the first rule cancels the run.
				cancel()
				return model.Task{ID: taskID}, model.Comment{TaskID: taskID, Text: text}, nil
			},
		}
		uc := newTestUseCase(rules, logs, tasks, &fakeSender{})

		out, err := uc.Process(cancelCtx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("cancellation is contained, got %v", err)
		}
		if len(out.Results) != 1 {
			t.Fatalf("second rule should have been skipped, results: %+v", out.Results)
		}
		result := out.Results[0]
		if result.Status != automation.StatusFailure {
			t.Errorf("cancelled invocation must be failure, got %s", result.Status)
		}
		if len(result.Outcomes) != 2 {
			t.Fatalf("expected 2 outcomes, got %d", len(result.Outcomes))
		}
		if !result.Outcomes[0].Success {
			t.Errorf("first action ran before cancellation: %+v", result.Outcomes[0])
		}
		if result.Outcomes[1].ErrorKind != automation.ErrorKindCancelled {
			t.Errorf("second action must be marked cancelled: %+v", result.Outcomes[1])
		}
		if len(logs.logsForRule("rule-1")) != 1 || logs.logsForRule("rule-1")[0].FinishedAt == nil {
			t.Errorf("cancelled rule's log must still be finalized")
		}
		if len(logs.logsForRule("rule-2")) != 0 {
			t.Errorf("skipped rule must leave no log")
		}
	})
}

func TestTestRule(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Found", func(t *testing.T) {
		uc := newTestUseCase(&fakeRuleStore{}, &fakeLogStore{}, &fakeMutator{}, &fakeSender{})
		_, err := uc.TestRule(ctx, model.Scope{}, automation.TestRuleInput{
			RuleID:  "missing",
			Context: urgentTaskContext(t, "Urgent"),
		})
		if !errors.Is(err, automation.ErrRuleNotFound) {
			t.Errorf("expected ErrRuleNotFound, got %v", err)
		}
	})

	t.Run("Forces Dry Run And Ignores Active Flag", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: false,
			Conditions: []automation.Condition{{
				Field: "task.labels", Operator: automation.OperatorContains, Value: "Urgent",
			}},
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionMoveTask,
				Params: map[string]any{"target_list_id": "list-now"},
			}},
		}}}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{}
		uc := newTestUseCase(rules, logs, tasks, &fakeSender{})

		out, err := uc.TestRule(ctx, model.Scope{}, automation.TestRuleInput{
			RuleID:  "rule-1",
			Context: urgentTaskContext(t, "Urgent"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 1 || out.RulesExecuted != 1 {
			t.Errorf("inactive rule still runs under TestRule, got %d/%d", out.RulesMatched, out.RulesExecuted)
		}
		if len(tasks.calls) != 0 {
			t.Errorf("test run must not mutate: %v", tasks.calls)
		}
		if len(logs.logs) != 1 || !logs.logs[0].TestRun {
			t.Errorf("test run log must be flagged test_run: %+v", logs.logs)
		}
	})

	t.Run("Condition Miss Reported Without Log Execution", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Conditions: []automation.Condition{{
				Field: "task.labels", Operator: automation.OperatorContains, Value: "Urgent",
			}},
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionPostComment,
				Params: map[string]any{"text": "hi"},
			}},
		}}}
		uc := newTestUseCase(rules, &fakeLogStore{}, &fakeMutator{}, &fakeSender{})

		out, err := uc.TestRule(ctx, model.Scope{}, automation.TestRuleInput{
			RuleID:  "rule-1",
			Context: urgentTaskContext(t, "Minor"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RulesMatched != 0 || len(out.Results) != 0 {
			t.Errorf("unmatched test must report zero matches: %+v", out)
		}
	})
}
