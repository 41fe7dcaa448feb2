package model

import "time"

// Task is a fully resolved board card: labels, checklist, and assignee are
// loaded, so trigger contexts never need to reach back into storage.
type Task struct {
	ID          string
	BoardID     string
	ListID      string
	Title       string
	Description string
	AssigneeID  string
	DueDate     *time.Time
	Completed   bool
	Version     int // optimistic locking counter, bumped on every mutation
	Labels      []Label
	Checklist   []ChecklistItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LabelNames returns the names of all labels attached to the task.
func (t Task) LabelNames() []string {
	names := make([]string, len(t.Labels))
	for i, lb := range t.Labels {
		names[i] = lb.Name
	}
	return names
}

// HasLabel reports whether a label with the given ID is attached.
func (t Task) HasLabel(labelID string) bool {
	for _, lb := range t.Labels {
		if lb.ID == labelID {
			return true
		}
	}
	return false
}

// ChecklistCompleted reports whether the task has at least one checklist
// item and all of them are done.
func (t Task) ChecklistCompleted() bool {
	if len(t.Checklist) == 0 {
		return false
	}
	for _, item := range t.Checklist {
		if !item.Done {
			return false
		}
	}
	return true
}

// Label is a board-scoped tag attachable to tasks.
type Label struct {
	ID      string
	BoardID string
	Name    string
	Color   string
}

// ChecklistItem is a single checklist entry on a task.
type ChecklistItem struct {
	ID       string
	TaskID   string
	Content  string
	Done     bool
	Position int
}

// Comment is a message posted on a task, either by a user or by automation.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string // empty for automation-authored comments
	Text      string
	System    bool // true when posted by the automation engine
	CreatedAt time.Time
}

// User is the minimal actor shape the engine needs.
type User struct {
	ID   string
	Name string
}
