package usecase

import (
	"context"
	"time"

	"board-automation/internal/model"
)

// previewMutator satisfies automation.TaskMutator without touching any
// store. It echoes the requested mutation back as the resulting entity
// so chained contexts in a test run look like a real execution would.
type previewMutator struct{}

func (previewMutator) MoveTask(_ context.Context, taskID, targetListID string) (model.Task, error) {
	return model.Task{ID: taskID, ListID: targetListID}, nil
}

func (previewMutator) AssignMember(_ context.Context, taskID, userID string) (model.Task, error) {
	return model.Task{ID: taskID, AssigneeID: userID}, nil
}

func (previewMutator) AddLabel(_ context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	label := model.Label{ID: labelID}
	return model.Task{ID: taskID, Labels: []model.Label{label}}, label, nil
}

func (previewMutator) RemoveLabel(_ context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	return model.Task{ID: taskID}, model.Label{ID: labelID}, nil
}

func (previewMutator) SetDueDate(_ context.Context, taskID string, due time.Time) (model.Task, error) {
	return model.Task{ID: taskID, DueDate: &due}, nil
}

func (previewMutator) PostComment(_ context.Context, taskID, text string) (model.Task, model.Comment, error) {
	return model.Task{ID: taskID}, model.Comment{TaskID: taskID, Text: text, System: true}, nil
}

func (previewMutator) CreateChecklistItem(_ context.Context, taskID, content string) (model.Task, error) {
	return model.Task{ID: taskID, Checklist: []model.ChecklistItem{{TaskID: taskID, Content: content}}}, nil
}

// previewSender accepts every webhook without delivering it.
type previewSender struct{}

func (previewSender) Send(context.Context, string, []byte) error {
	return nil
}
