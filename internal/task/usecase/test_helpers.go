package usecase

import (
	"context"

	"board-automation/internal/model"
	"board-automation/internal/task"
	"board-automation/internal/task/repository"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// fakeRepository is an in-memory task store honoring the version
// predicate. raceUpdates injects concurrent version bumps before the
// first n updates so retry paths are testable.
type fakeRepository struct {
	tasks       map[string]model.Task
	labels      map[string]model.Label
	comments    []model.Comment
	checklist   []model.ChecklistItem
	raceUpdates int
	updateCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tasks:  make(map[string]model.Task),
		labels: make(map[string]model.Label),
	}
}

func (f *fakeRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	return f.tasks[id], nil
}

func (f *fakeRepository) UpdateTask(ctx context.Context, opt repository.UpdateTaskOptions) (model.Task, error) {
	f.updateCalls++
	t, ok := f.tasks[opt.ID]
	if !ok {
		return model.Task{}, nil
	}
	if f.raceUpdates > 0 {
		f.raceUpdates--
		t.Version++
		f.tasks[opt.ID] = t
	}
	if t.Version != opt.Version {
		return model.Task{}, nil
	}
	if opt.ListID != nil {
		t.ListID = *opt.ListID
	}
	if opt.AssigneeID != nil {
		t.AssigneeID = *opt.AssigneeID
	}
	if opt.DueDate != nil {
		due := *opt.DueDate
		t.DueDate = &due
	}
	t.Version++
	f.tasks[opt.ID] = t
	return t, nil
}

func (f *fakeRepository) GetLabel(ctx context.Context, id string) (model.Label, error) {
	return f.labels[id], nil
}

func (f *fakeRepository) AttachLabel(ctx context.Context, taskID, labelID string) error {
	t := f.tasks[taskID]
	if t.HasLabel(labelID) {
		return nil
	}
	t.Labels = append(t.Labels, f.labels[labelID])
	f.tasks[taskID] = t
	return nil
}

func (f *fakeRepository) DetachLabel(ctx context.Context, taskID, labelID string) error {
	t := f.tasks[taskID]
	var kept []model.Label
	for _, label := range t.Labels {
		if label.ID != labelID {
			kept = append(kept, label)
		}
	}
	t.Labels = kept
	f.tasks[taskID] = t
	return nil
}

func (f *fakeRepository) InsertComment(ctx context.Context, opt repository.InsertCommentOptions) (model.Comment, error) {
	comment := model.Comment{
		ID:     "comment-1",
		TaskID: opt.TaskID,
		Text:   opt.Text,
		System: opt.System,
	}
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeRepository) InsertChecklistItem(ctx context.Context, opt repository.InsertChecklistItemOptions) (model.ChecklistItem, error) {
	item := model.ChecklistItem{
		ID:       "item-1",
		TaskID:   opt.TaskID,
		Content:  opt.Content,
		Position: len(f.checklist) + 1,
	}
	f.checklist = append(f.checklist, item)
	t := f.tasks[opt.TaskID]
	t.Checklist = append(t.Checklist, item)
	f.tasks[opt.TaskID] = t
	return item, nil
}

func (f *fakeRepository) ListDueTasks(ctx context.Context, opt task.ListDueTasksInput) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.Completed || t.DueDate == nil {
			continue
		}
		switch opt.Edge {
		case task.DueEdgeApproaching:
			if !t.DueDate.Before(opt.Now) && t.DueDate.Before(opt.Now.Add(opt.Window)) {
				out = append(out, t)
			}
		case task.DueEdgePassed:
			if t.DueDate.Before(opt.Now) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) MarkDueNotified(ctx context.Context, taskID string, edge task.DueEdge) error {
	return nil
}
