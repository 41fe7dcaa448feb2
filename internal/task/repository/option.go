package repository

import "time"

// UpdateTaskOptions is a guarded partial update. Nil pointers leave the
// column untouched; Version must match the stored row.
type UpdateTaskOptions struct {
	ID      string
	Version int

	ListID     *string
	AssigneeID *string
	DueDate    *time.Time
}

// InsertCommentOptions inserts one comment row.
type InsertCommentOptions struct {
	TaskID   string
	AuthorID string
	Text     string
	System   bool
}

// InsertChecklistItemOptions appends one checklist item.
type InsertChecklistItemOptions struct {
	TaskID  string
	Content string
}
