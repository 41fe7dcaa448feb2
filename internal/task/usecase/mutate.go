package usecase

import (
	"context"
	"fmt"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/model"
	"board-automation/internal/task"
	"board-automation/internal/task/repository"
)

// updateAttempts bounds optimistic-lock retries per mutation. Each
// retry re-reads the task so the update applies on top of the
// concurrent writer's version.
const updateAttempts = 3

func (uc *implUseCase) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	t, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		uc.l.Errorf(ctx, "task: get %s: %v", taskID, err)
		return model.Task{}, err
	}
	if t.ID == "" {
		return model.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func (uc *implUseCase) MoveTask(ctx context.Context, taskID, targetListID string) (model.Task, error) {
	return uc.guardedUpdate(ctx, taskID, func(model.Task) repository.UpdateTaskOptions {
		return repository.UpdateTaskOptions{ListID: &targetListID}
	})
}

func (uc *implUseCase) AssignMember(ctx context.Context, taskID, userID string) (model.Task, error) {
	return uc.guardedUpdate(ctx, taskID, func(model.Task) repository.UpdateTaskOptions {
		return repository.UpdateTaskOptions{AssigneeID: &userID}
	})
}

func (uc *implUseCase) SetDueDate(ctx context.Context, taskID string, due time.Time) (model.Task, error) {
	return uc.guardedUpdate(ctx, taskID, func(model.Task) repository.UpdateTaskOptions {
		return repository.UpdateTaskOptions{DueDate: &due}
	})
}

func (uc *implUseCase) AddLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	t, label, err := uc.taskAndLabel(ctx, taskID, labelID)
	if err != nil {
		return model.Task{}, model.Label{}, err
	}
	if err := uc.repo.AttachLabel(ctx, t.ID, label.ID); err != nil {
		uc.l.Errorf(ctx, "task: attach label %s to %s: %v", labelID, taskID, err)
		return model.Task{}, model.Label{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	t, err = uc.refresh(ctx, taskID)
	return t, label, err
}

func (uc *implUseCase) RemoveLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	t, label, err := uc.taskAndLabel(ctx, taskID, labelID)
	if err != nil {
		return model.Task{}, model.Label{}, err
	}
	if err := uc.repo.DetachLabel(ctx, t.ID, label.ID); err != nil {
		uc.l.Errorf(ctx, "task: detach label %s from %s: %v", labelID, taskID, err)
		return model.Task{}, model.Label{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	t, err = uc.refresh(ctx, taskID)
	return t, label, err
}

func (uc *implUseCase) PostComment(ctx context.Context, taskID, text string) (model.Task, model.Comment, error) {
	t, err := uc.loadTask(ctx, taskID)
	if err != nil {
		return model.Task{}, model.Comment{}, err
	}
	comment, err := uc.repo.InsertComment(ctx, repository.InsertCommentOptions{
		TaskID: t.ID,
		Text:   text,
		System: true,
	})
	if err != nil {
		uc.l.Errorf(ctx, "task: comment on %s: %v", taskID, err)
		return model.Task{}, model.Comment{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	return t, comment, nil
}

func (uc *implUseCase) CreateChecklistItem(ctx context.Context, taskID, content string) (model.Task, error) {
	t, err := uc.loadTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if _, err := uc.repo.InsertChecklistItem(ctx, repository.InsertChecklistItemOptions{
		TaskID:  t.ID,
		Content: content,
	}); err != nil {
		uc.l.Errorf(ctx, "task: checklist item on %s: %v", taskID, err)
		return model.Task{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	return uc.refresh(ctx, taskID)
}

func (uc *implUseCase) ListDueTasks(ctx context.Context, input task.ListDueTasksInput) ([]model.Task, error) {
	tasks, err := uc.repo.ListDueTasks(ctx, input)
	if err != nil {
		uc.l.Errorf(ctx, "task: list due (%s): %v", input.Edge, err)
		return nil, err
	}
	return tasks, nil
}

func (uc *implUseCase) MarkDueNotified(ctx context.Context, taskID string, edge task.DueEdge) error {
	if err := uc.repo.MarkDueNotified(ctx, taskID, edge); err != nil {
		uc.l.Errorf(ctx, "task: mark %s notified (%s): %v", taskID, edge, err)
		return err
	}
	return nil
}

// --- helpers ---

// loadTask fetches a task and translates absence and store failures
// into the collaborator error contract.
func (uc *implUseCase) loadTask(ctx context.Context, taskID string) (model.Task, error) {
	t, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		uc.l.Errorf(ctx, "task: get %s: %v", taskID, err)
		return model.Task{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	if t.ID == "" {
		return model.Task{}, fmt.Errorf("%w: %v: %s", automation.ErrInvalidActionParameters, task.ErrTaskNotFound, taskID)
	}
	return t, nil
}

// refresh re-reads a task after a non-versioned write so callers get
// the current entity.
func (uc *implUseCase) refresh(ctx context.Context, taskID string) (model.Task, error) {
	t, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	return t, nil
}

func (uc *implUseCase) taskAndLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	t, err := uc.loadTask(ctx, taskID)
	if err != nil {
		return model.Task{}, model.Label{}, err
	}
	label, err := uc.repo.GetLabel(ctx, labelID)
	if err != nil {
		uc.l.Errorf(ctx, "task: get label %s: %v", labelID, err)
		return model.Task{}, model.Label{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	if label.ID == "" {
		return model.Task{}, model.Label{}, fmt.Errorf("%w: %v: %s", automation.ErrInvalidActionParameters, task.ErrLabelNotFound, labelID)
	}
	if label.BoardID != t.BoardID {
		return model.Task{}, model.Label{}, fmt.Errorf("%w: label %s belongs to another board", automation.ErrInvalidActionParameters, labelID)
	}
	return t, label, nil
}

// guardedUpdate runs one optimistic-lock update, re-reading and
// retrying while a concurrent writer keeps winning the version race.
func (uc *implUseCase) guardedUpdate(ctx context.Context, taskID string, build func(model.Task) repository.UpdateTaskOptions) (model.Task, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		t, err := uc.loadTask(ctx, taskID)
		if err != nil {
			return model.Task{}, err
		}

		opt := build(t)
		opt.ID = t.ID
		opt.Version = t.Version

		updated, err := uc.repo.UpdateTask(ctx, opt)
		if err != nil {
			uc.l.Errorf(ctx, "task: update %s: %v", taskID, err)
			return model.Task{}, fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
		}
		if updated.ID != "" {
			return updated, nil
		}
		uc.l.Warnf(ctx, "task: version race on %s, attempt %d", taskID, attempt+1)
	}
	return model.Task{}, fmt.Errorf("%w: %v on task %s", automation.ErrActionConflict, task.ErrVersionConflict, taskID)
}
