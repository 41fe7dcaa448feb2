package usecase

import (
	"context"
	"fmt"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/automation/repository"
	"board-automation/internal/model"
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

// fakeRuleStore is an in-memory RuleRepository preserving insertion
// order, so dispatch-order assertions are meaningful.
type fakeRuleStore struct {
	rules     []automation.Rule
	activeErr error
}

func (f *fakeRuleStore) CreateRule(ctx context.Context, opt repository.CreateRuleOptions) (automation.Rule, error) {
	rule := automation.Rule{
		ID:         fmt.Sprintf("rule-%d", len(f.rules)+1),
		BoardID:    opt.BoardID,
		Name:       opt.Name,
		Trigger:    opt.Trigger,
		Conditions: opt.Conditions,
		Actions:    opt.Actions,
		Active:     opt.Active,
		CreatedBy:  opt.CreatedBy,
		CreatedAt:  time.Now().UTC(),
	}
	f.rules = append(f.rules, rule)
	return rule, nil
}

func (f *fakeRuleStore) GetRule(ctx context.Context, id string) (automation.Rule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return automation.Rule{}, nil
}

func (f *fakeRuleStore) ListRules(ctx context.Context, opt repository.ListRulesOptions) ([]automation.Rule, int, error) {
	var out []automation.Rule
	for _, r := range f.rules {
		if r.BoardID != opt.BoardID {
			continue
		}
		if opt.Trigger != "" && r.Trigger != opt.Trigger {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRuleStore) ActiveRulesForTrigger(ctx context.Context, boardID string, trigger automation.TriggerType) ([]automation.Rule, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	var out []automation.Rule
	for _, r := range f.rules {
		if r.BoardID == boardID && r.Trigger == trigger && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleStore) SetRuleActive(ctx context.Context, id string, active bool) (automation.Rule, error) {
	for i, r := range f.rules {
		if r.ID == id {
			f.rules[i].Active = active
			return f.rules[i], nil
		}
	}
	return automation.Rule{}, nil
}

func (f *fakeRuleStore) DeleteRule(ctx context.Context, id string) error {
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeLogStore is an in-memory LogRepository.
type fakeLogStore struct {
	logs      []automation.Log
	createErr error
}

func (f *fakeLogStore) CreateLog(ctx context.Context, opt repository.CreateLogOptions) (automation.Log, error) {
	if f.createErr != nil {
		return automation.Log{}, f.createErr
	}
	entry := automation.Log{
		ID:          fmt.Sprintf("log-%d", len(f.logs)+1),
		RuleID:      opt.RuleID,
		BoardID:     opt.BoardID,
		TestRun:     opt.TestRun,
		TriggerData: opt.TriggerData,
		StartedAt:   opt.StartedAt,
	}
	f.logs = append(f.logs, entry)
	return entry, nil
}

func (f *fakeLogStore) FinalizeLog(ctx context.Context, opt repository.FinalizeLogOptions) error {
	for i, entry := range f.logs {
		if entry.ID != opt.ID || entry.FinishedAt != nil {
			continue
		}
		now := opt.FinishedAt
		f.logs[i].Status = opt.Status
		f.logs[i].Actions = opt.Actions
		f.logs[i].Error = opt.Error
		f.logs[i].FinishedAt = &now
		return nil
	}
	return repository.ErrFailedToUpdate
}

func (f *fakeLogStore) ListLogs(ctx context.Context, opt repository.ListLogsOptions) ([]automation.Log, int, error) {
	var out []automation.Log
	for i := len(f.logs) - 1; i >= 0; i-- {
		entry := f.logs[i]
		if entry.RuleID != opt.RuleID {
			continue
		}
		if opt.Status != "" && entry.Status != opt.Status {
			continue
		}
		if !opt.IncludeTestRuns && entry.TestRun {
			continue
		}
		out = append(out, entry)
	}
	return out, len(out), nil
}

// logsForRule filters the store by rule for assertions.
func (f *fakeLogStore) logsForRule(ruleID string) []automation.Log {
	var out []automation.Log
	for _, entry := range f.logs {
		if entry.RuleID == ruleID {
			out = append(out, entry)
		}
	}
	return out
}

// fakeMutator is a TaskMutator with per-method hooks. Unset hooks echo
// the requested mutation like a healthy store would.
type fakeMutator struct {
	calls []string

	moveFunc    func(taskID, targetListID string) (model.Task, error)
	assignFunc  func(taskID, userID string) (model.Task, error)
	addFunc     func(taskID, labelID string) (model.Task, model.Label, error)
	removeFunc  func(taskID, labelID string) (model.Task, model.Label, error)
	dueFunc     func(taskID string, due time.Time) (model.Task, error)
	commentFunc func(taskID, text string) (model.Task, model.Comment, error)
	checkFunc   func(taskID, content string) (model.Task, error)
}

func (f *fakeMutator) MoveTask(ctx context.Context, taskID, targetListID string) (model.Task, error) {
	f.calls = append(f.calls, "move:"+taskID+":"+targetListID)
	if f.moveFunc != nil {
		return f.moveFunc(taskID, targetListID)
	}
	return model.Task{ID: taskID, ListID: targetListID}, nil
}

func (f *fakeMutator) AssignMember(ctx context.Context, taskID, userID string) (model.Task, error) {
	f.calls = append(f.calls, "assign:"+taskID+":"+userID)
	if f.assignFunc != nil {
		return f.assignFunc(taskID, userID)
	}
	return model.Task{ID: taskID, AssigneeID: userID}, nil
}

func (f *fakeMutator) AddLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	f.calls = append(f.calls, "add_label:"+taskID+":"+labelID)
	if f.addFunc != nil {
		return f.addFunc(taskID, labelID)
	}
	label := model.Label{ID: labelID, Name: labelID}
	return model.Task{ID: taskID, Labels: []model.Label{label}}, label, nil
}

func (f *fakeMutator) RemoveLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error) {
	f.calls = append(f.calls, "remove_label:"+taskID+":"+labelID)
	if f.removeFunc != nil {
		return f.removeFunc(taskID, labelID)
	}
	return model.Task{ID: taskID}, model.Label{ID: labelID, Name: labelID}, nil
}

func (f *fakeMutator) SetDueDate(ctx context.Context, taskID string, due time.Time) (model.Task, error) {
	f.calls = append(f.calls, "set_due:"+taskID)
	if f.dueFunc != nil {
		return f.dueFunc(taskID, due)
	}
	return model.Task{ID: taskID, DueDate: &due}, nil
}

func (f *fakeMutator) PostComment(ctx context.Context, taskID, text string) (model.Task, model.Comment, error) {
	f.calls = append(f.calls, "comment:"+taskID+":"+text)
	if f.commentFunc != nil {
		return f.commentFunc(taskID, text)
	}
	return model.Task{ID: taskID}, model.Comment{TaskID: taskID, Text: text, System: true}, nil
}

func (f *fakeMutator) CreateChecklistItem(ctx context.Context, taskID, content string) (model.Task, error) {
	f.calls = append(f.calls, "checklist:"+taskID+":"+content)
	if f.checkFunc != nil {
		return f.checkFunc(taskID, content)
	}
	return model.Task{ID: taskID}, nil
}

// fakeSender records webhook deliveries.
type fakeSender struct {
	urls     []string
	bodies   [][]byte
	sendFunc func(url string, body []byte) error
}

func (f *fakeSender) Send(ctx context.Context, url string, body []byte) error {
	f.urls = append(f.urls, url)
	f.bodies = append(f.bodies, body)
	if f.sendFunc != nil {
		return f.sendFunc(url, body)
	}
	return nil
}

// newTestUseCase wires a usecase over the given fakes with the default
// chain depth.
func newTestUseCase(rules *fakeRuleStore, logs *fakeLogStore, tasks *fakeMutator, webhooks *fakeSender) *implUseCase {
	return New(Config{
		RuleRepo: rules,
		LogRepo:  logs,
		Tasks:    tasks,
		Webhooks: webhooks,
	}, &mockLogger{})
}
