package task

import (
	"context"
	"time"

	"board-automation/internal/model"
)

// UseCase is the board task mutation surface. It doubles as the
// automation engine's TaskMutator collaborator: every mutation loads
// the current task, applies the change under optimistic versioning and
// returns the post-mutation entity.
type UseCase interface {
	GetTask(ctx context.Context, taskID string) (model.Task, error)

	MoveTask(ctx context.Context, taskID, targetListID string) (model.Task, error)
	AssignMember(ctx context.Context, taskID, userID string) (model.Task, error)
	AddLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error)
	RemoveLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error)
	SetDueDate(ctx context.Context, taskID string, due time.Time) (model.Task, error)
	PostComment(ctx context.Context, taskID, text string) (model.Task, model.Comment, error)
	CreateChecklistItem(ctx context.Context, taskID, content string) (model.Task, error)

	// ListDueTasks serves the due-date scanner: tasks whose deadline
	// enters the given window, or has passed, and that have not been
	// flagged yet for that edge.
	ListDueTasks(ctx context.Context, input ListDueTasksInput) ([]model.Task, error)

	// MarkDueNotified flags a task so the scanner fires each due-date
	// trigger at most once.
	MarkDueNotified(ctx context.Context, taskID string, edge DueEdge) error
}
