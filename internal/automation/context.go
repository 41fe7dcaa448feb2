package automation

import (
	"fmt"
	"time"

	"board-automation/internal/model"
)

// ContextFields is the raw field bag an event producer hands to
// BuildContext. Entities must arrive already resolved; the builder does
// no I/O.
type ContextFields struct {
	BoardID    string
	Task       *model.Task
	ListID     string
	Label      *model.Label
	Actor      *model.User
	FromListID string
	ToListID   string
	DueDate    *time.Time
	Comment    string
}

// BuildContext assembles and validates a TriggerContext. Pure transform:
// it fails with ErrMalformedContext when the board or trigger is absent
// or the trigger is outside the closed enumeration, and otherwise copies
// fields verbatim. Per-trigger field guarantees are the event producer's
// responsibility.
func BuildContext(trigger TriggerType, fields ContextFields) (TriggerContext, error) {
	if fields.BoardID == "" {
		return TriggerContext{}, fmt.Errorf("%w: board id is required", ErrMalformedContext)
	}
	if trigger == "" {
		return TriggerContext{}, fmt.Errorf("%w: trigger type is required", ErrMalformedContext)
	}
	if !trigger.Valid() {
		return TriggerContext{}, fmt.Errorf("%w: unknown trigger type %q", ErrMalformedContext, trigger)
	}

	return TriggerContext{
		BoardID:    fields.BoardID,
		Trigger:    trigger,
		Task:       fields.Task,
		ListID:     fields.ListID,
		Label:      fields.Label,
		Actor:      fields.Actor,
		FromListID: fields.FromListID,
		ToListID:   fields.ToListID,
		DueDate:    fields.DueDate,
		Comment:    fields.Comment,
	}, nil
}

// Validate re-checks the invariants BuildContext enforces. The
// dispatcher calls this on entry so contexts constructed by hand are
// held to the same bar.
func (tc TriggerContext) Validate() error {
	if tc.BoardID == "" {
		return fmt.Errorf("%w: board id is required", ErrMalformedContext)
	}
	if !tc.Trigger.Valid() {
		return fmt.Errorf("%w: unknown trigger type %q", ErrMalformedContext, tc.Trigger)
	}
	return nil
}

// Snapshot flattens the context into a serializable map. Used for log
// trigger data and webhook payloads.
func (tc TriggerContext) Snapshot() map[string]any {
	snap := map[string]any{
		"board_id": tc.BoardID,
		"trigger":  string(tc.Trigger),
	}
	if tc.Task != nil {
		task := map[string]any{
			"id":          tc.Task.ID,
			"list_id":     tc.Task.ListID,
			"title":       tc.Task.Title,
			"assignee_id": tc.Task.AssigneeID,
			"completed":   tc.Task.Completed,
			"labels":      tc.Task.LabelNames(),
		}
		if tc.Task.DueDate != nil {
			task["due_date"] = tc.Task.DueDate.Format(time.RFC3339)
		}
		snap["task"] = task
	}
	if tc.ListID != "" {
		snap["list_id"] = tc.ListID
	}
	if tc.Label != nil {
		snap["label"] = map[string]any{"id": tc.Label.ID, "name": tc.Label.Name}
	}
	if tc.Actor != nil {
		snap["user"] = map[string]any{"id": tc.Actor.ID, "name": tc.Actor.Name}
	}
	if tc.FromListID != "" {
		snap["from_list_id"] = tc.FromListID
	}
	if tc.ToListID != "" {
		snap["to_list_id"] = tc.ToListID
	}
	if tc.DueDate != nil {
		snap["due_date"] = tc.DueDate.Format(time.RFC3339)
	}
	if tc.Comment != "" {
		snap["comment"] = tc.Comment
	}
	return snap
}
