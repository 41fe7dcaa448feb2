package automation_test

import (
	"errors"
	"testing"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/model"
)

func TestBuildContext(t *testing.T) {
	t.Run("Missing Board", func(t *testing.T) {
		_, err := automation.BuildContext(automation.TriggerTaskCreated, automation.ContextFields{})
		if !errors.Is(err, automation.ErrMalformedContext) {
			t.Errorf("expected ErrMalformedContext, got %v", err)
		}
	})

	t.Run("Missing Trigger", func(t *testing.T) {
		_, err := automation.BuildContext("", automation.ContextFields{BoardID: "board-1"})
		if !errors.Is(err, automation.ErrMalformedContext) {
			t.Errorf("expected ErrMalformedContext, got %v", err)
		}
	})

	t.Run("Unknown Trigger", func(t *testing.T) {
		_, err := automation.BuildContext("card_sneezed", automation.ContextFields{BoardID: "board-1"})
		if !errors.Is(err, automation.ErrMalformedContext) {
			t.Errorf("expected ErrMalformedContext for unknown trigger, got %v", err)
		}
	})

	t.Run("Copies Fields", func(t *testing.T) {
		due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		task := &model.Task{ID: "task-1", BoardID: "board-1"}
		tc, err := automation.BuildContext(automation.TriggerTaskMoved, automation.ContextFields{
			BoardID:    "board-1",
			Task:       task,
			FromListID: "list-a",
			ToListID:   "list-b",
			DueDate:    &due,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tc.Task != task || tc.FromListID != "list-a" || tc.ToListID != "list-b" {
			t.Errorf("context fields not copied: %+v", tc)
		}
		if tc.DueDate == nil || !tc.DueDate.Equal(due) {
			t.Errorf("due date not copied: %v", tc.DueDate)
		}
	})
}

func TestSnapshot(t *testing.T) {
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tc, err := automation.BuildContext(automation.TriggerLabelAdded, automation.ContextFields{
		BoardID: "board-1",
		Task: &model.Task{
			ID:      "task-1",
			ListID:  "list-a",
			Title:   "Ship it",
			DueDate: &due,
			Labels:  []model.Label{{ID: "label-1", Name: "Urgent"}},
		},
		Label: &model.Label{ID: "label-1", Name: "Urgent"},
		Actor: &model.User{ID: "user-1", Name: "Ada"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := tc.Snapshot()
	if snap["board_id"] != "board-1" || snap["trigger"] != "label_added" {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}

	label, ok := snap["label"].(map[string]any)
	if !ok || label["name"] != "Urgent" {
		t.Errorf("expected label in snapshot, got %+v", snap["label"])
	}

	task, ok := snap["task"].(map[string]any)
	if !ok || task["title"] != "Ship it" {
		t.Errorf("expected task in snapshot, got %+v", snap["task"])
	}
	if task["due_date"] != "2026-09-01T12:00:00Z" {
		t.Errorf("unexpected due date formatting: %v", task["due_date"])
	}

	if _, present := snap["comment"]; present {
		t.Error("empty comment should be omitted from snapshot")
	}
}
