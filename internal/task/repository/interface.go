package repository

import (
	"context"

	"board-automation/internal/model"
	"board-automation/internal/task"
)

// Repository is the board task store contract. Reads return the
// zero-value entity, no error, when the row is absent. UpdateTask is
// guarded by the task's version column; a stale version behaves like an
// absent row so callers re-read and decide.
type Repository interface {
	// GetTask loads a task with its labels and checklist.
	GetTask(ctx context.Context, id string) (model.Task, error)

	// UpdateTask applies the set fields when the stored version still
	// matches, bumping the version. Zero-value result means the row is
	// gone or the version is stale.
	UpdateTask(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)

	GetLabel(ctx context.Context, id string) (model.Label, error)

	// AttachLabel and DetachLabel are idempotent.
	AttachLabel(ctx context.Context, taskID, labelID string) error
	DetachLabel(ctx context.Context, taskID, labelID string) error

	InsertComment(ctx context.Context, opt InsertCommentOptions) (model.Comment, error)
	InsertChecklistItem(ctx context.Context, opt InsertChecklistItemOptions) (model.ChecklistItem, error)

	ListDueTasks(ctx context.Context, opt task.ListDueTasksInput) ([]model.Task, error)
	MarkDueNotified(ctx context.Context, taskID string, edge task.DueEdge) error
}
