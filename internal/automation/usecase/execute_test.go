package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

func TestExecuteActions(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial Failure Keeps Remaining Actions Running", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{
				{Type: automation.ActionAssignMember, Params: map[string]any{"user_id": "user-2"}},
				{Type: automation.ActionMoveTask, Params: map[string]any{"target_list_id": "list-now"}},
				{Type: automation.ActionSendWebhook, Params: map[string]any{"url": "https://hooks.example.com/a"}},
			},
		}}}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{
			moveFunc: func(taskID, targetListID string) (model.Task, error) {
				return model.Task{}, fmt.Errorf("%w: version mismatch on task %s", automation.ErrActionConflict, taskID)
			},
		}
		sender := &fakeSender{}
		uc := newTestUseCase(rules, logs, tasks, sender)

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("action failures are contained, got %v", err)
		}
		result := out.Results[0]
		if result.Status != automation.StatusPartialFailure {
			t.Errorf("expected partial_failure, got %s", result.Status)
		}
		if len(result.Outcomes) != 3 {
			t.Fatalf("every attempted action gets an outcome, got %d", len(result.Outcomes))
		}
		if !result.Outcomes[0].Success {
			t.Errorf("assign should have succeeded: %+v", result.Outcomes[0])
		}
		if result.Outcomes[1].Success || result.Outcomes[1].ErrorKind != automation.ErrorKindConflict {
			t.Errorf("move should be a conflict failure: %+v", result.Outcomes[1])
		}
		if !result.Outcomes[2].Success || len(sender.urls) != 1 {
			t.Errorf("webhook after the failure should still run: %+v", result.Outcomes[2])
		}
		if logs.logs[0].Status != automation.StatusPartialFailure {
			t.Errorf("log status mismatch: %+v", logs.logs[0])
		}
	})

	t.Run("All Actions Failing Is Failure", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{
				{Type: automation.ActionMoveTask, Params: map[string]any{}},
				{Type: "explode", Params: map[string]any{}},
			},
		}}}
		uc := newTestUseCase(rules, &fakeLogStore{}, &fakeMutator{}, &fakeSender{})

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result := out.Results[0]
		if result.Status != automation.StatusFailure {
			t.Errorf("expected failure, got %s", result.Status)
		}
		if result.Outcomes[0].ErrorKind != automation.ErrorKindInvalidParameters {
			t.Errorf("missing param must classify as invalid parameters: %+v", result.Outcomes[0])
		}
		if result.Outcomes[1].ErrorKind != automation.ErrorKindUnknownAction {
			t.Errorf("unrecognized type must classify as unknown action: %+v", result.Outcomes[1])
		}
	})

	t.Run("Collaborator Unavailable", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionSendWebhook,
				Params: map[string]any{"url": "https://hooks.example.com/down"},
			}},
		}}}
		sender := &fakeSender{
			sendFunc: func(url string, body []byte) error {
				return fmt.Errorf("%w: POST %s: 503", automation.ErrCollaboratorUnavailable, url)
			},
		}
		uc := newTestUseCase(rules, &fakeLogStore{}, &fakeMutator{}, sender)

		out, _ := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		oc := out.Results[0].Outcomes[0]
		if oc.Success || oc.ErrorKind != automation.ErrorKindUnavailable {
			t.Errorf("expected collaborator_unavailable outcome: %+v", oc)
		}
	})

	t.Run("Webhook Payload Carries Rule And Trigger", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", Name: "notify ops", BoardID: "board-1",
			Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionSendWebhook,
				Params: map[string]any{"url": "https://hooks.example.com/ops"},
			}},
		}}}
		sender := &fakeSender{}
		uc := newTestUseCase(rules, &fakeLogStore{}, &fakeMutator{}, sender)

		if _, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(sender.bodies[0], &payload); err != nil {
			t.Fatalf("payload is not json: %v", err)
		}
		if payload["rule_id"] != "rule-1" || payload["rule_name"] != "notify ops" {
			t.Errorf("payload missing rule identity: %v", payload)
		}
		trigger, ok := payload["trigger"].(map[string]any)
		if !ok || trigger["board_id"] != "board-1" {
			t.Errorf("payload missing trigger snapshot: %v", payload)
		}
	})

	t.Run("Comment Template Rendering", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionPostComment,
				Params: map[string]any{"text": "{{task.title}} filed by {{user.name}} ({{missing.field}})"},
			}},
		}}}
		tasks := &fakeMutator{}
		uc := newTestUseCase(rules, &fakeLogStore{}, tasks, &fakeSender{})

		if _, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "comment:task-1:Fix login outage filed by An ({{missing.field}})"
		if len(tasks.calls) != 1 || tasks.calls[0] != want {
			t.Errorf("expected %q, got %v", want, tasks.calls)
		}
	})

	t.Run("Idempotent Label Add Skips Mutation", func(t *testing.T) {
		rules := &fakeRuleStore{rules: []automation.Rule{{
			ID: "rule-1", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionAddLabel,
				Params: map[string]any{"label_id": "label-1"},
			}},
		}}}
		tasks := &fakeMutator{}
		uc := newTestUseCase(rules, &fakeLogStore{}, tasks, &fakeSender{})

		// urgentTaskContext's task already carries label-1.
		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Results[0].Outcomes[0].Success {
			t.Errorf("idempotent add is a success: %+v", out.Results[0].Outcomes[0])
		}
		if len(tasks.calls) != 0 {
			t.Errorf("no mutation expected when the label is already present: %v", tasks.calls)
		}
	})
}

func TestChaining(t *testing.T) {
	ctx := context.Background()

	t.Run("Mutation Activates Follow-On Rules Depth First", func(t *testing.T) {
		mover := automation.Rule{
			ID: "rule-move", BoardID: "board-1", Trigger: automation.TriggerTaskCreated, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionMoveTask,
				Params: map[string]any{"target_list_id": "list-now"},
			}},
		}
		onMoved := automation.Rule{
			ID: "rule-on-moved", BoardID: "board-1", Trigger: automation.TriggerTaskMoved, Active: true,
			Conditions: []automation.Condition{{
				Field: "to_list.id", Operator: automation.OperatorEquals, Value: "list-now",
			}},
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionAssignMember,
				Params: map[string]any{"user_id": "user-2"},
			}},
		}
		logs := &fakeLogStore{}
		tasks := &fakeMutator{}
		uc := newTestUseCase(&fakeRuleStore{rules: []automation.Rule{mover, onMoved}}, logs, tasks, &fakeSender{})

		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: urgentTaskContext(t, "Urgent")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks.calls) != 2 || tasks.calls[0] != "move:task-1:list-now" || tasks.calls[1] != "assign:task-1:user-2" {
			t.Errorf("expected move then chained assign, got %v", tasks.calls)
		}
		// The summary covers the entry trigger only; the chained rule shows
		// up through its own log record.
		if len(out.Results) != 1 {
			t.Errorf("expected 1 entry-level result, got %+v", out.Results)
		}
		if len(logs.logsForRule("rule-on-moved")) != 1 {
			t.Errorf("chained rule must have its own log record")
		}
		// Depth-first: the chained record opens after, finishes before, the
		// parent record.
		if logs.logs[0].RuleID != "rule-move" || logs.logs[1].RuleID != "rule-on-moved" {
			t.Errorf("unexpected log order: %+v", logs.logs)
		}
	})

	t.Run("Self-Chaining Rule Stops At Depth Limit", func(t *testing.T) {
		loop := automation.Rule{
			ID: "rule-loop", BoardID: "board-1", Trigger: automation.TriggerCommentAdded, Active: true,
			Actions: []automation.ActionSpec{{
				Type:   automation.ActionPostComment,
				Params: map[string]any{"text": "again"},
			}},
		}
		logs := &fakeLogStore{}
		uc := newTestUseCase(&fakeRuleStore{rules: []automation.Rule{loop}}, logs, &fakeMutator{}, &fakeSender{})

		tc, err := automation.BuildContext(automation.TriggerCommentAdded, automation.ContextFields{
			BoardID: "board-1",
			Task:    &model.Task{ID: "task-1"},
			Comment: "kick off",
		})
		if err != nil {
			t.Fatalf("build context: %v", err)
		}
		out, err := uc.Process(ctx, model.Scope{}, automation.ProcessInput{Context: tc})
		if err != nil {
			t.Fatalf("depth exhaustion is contained, got %v", err)
		}

		records := logs.logsForRule("rule-loop")
		if len(records) != DefaultMaxChainDepth {
			t.Fatalf("expected exactly %d executions, got %d", DefaultMaxChainDepth, len(records))
		}
		for i, entry := range records[:len(records)-1] {
			if entry.Status != automation.StatusSuccess {
				t.Errorf("record %d should be success, got %s", i, entry.Status)
			}
		}
		last := records[len(records)-1]
		if last.Status != automation.StatusFailure {
			t.Errorf("deepest record must fail, got %s", last.Status)
		}
		if len(last.Actions) != 1 || last.Actions[0].ErrorKind != automation.ErrorKindMaxChainDepth {
			t.Errorf("deepest outcome must carry the depth marker: %+v", last.Actions)
		}
		// The entry-level summary stays success: its own action ran fine.
		if out.Results[0].Status != automation.StatusSuccess {
			t.Errorf("entry invocation status: %s", out.Results[0].Status)
		}
	})
}
