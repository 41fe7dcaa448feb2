package automation

import (
	"context"
	"time"

	"board-automation/internal/model"
)

// UseCase is the engine's contract with the surrounding application.
type UseCase interface {
	// Process runs one trigger through the full dispatch flow. It fails
	// only with ErrMalformedContext or ErrTriggerAborted; individual rule
	// and action failures are contained in the returned summary.
	Process(ctx context.Context, sc model.Scope, input ProcessInput) (ProcessOutput, error)

	// TestRule runs a single rule against a sample context with dry run
	// forced on and no-op preview collaborators. Used by rule authors
	// before activating a rule.
	TestRule(ctx context.Context, sc model.Scope, input TestRuleInput) (ProcessOutput, error)

	// Rule authoring surface.
	CreateRule(ctx context.Context, sc model.Scope, input CreateRuleInput) (CreateRuleOutput, error)
	ListRules(ctx context.Context, sc model.Scope, input ListRulesInput) (ListRulesOutput, error)
	GetRule(ctx context.Context, sc model.Scope, ruleID string) (DetailRuleOutput, error)
	SetRuleActive(ctx context.Context, sc model.Scope, input SetRuleActiveInput) (SetRuleActiveOutput, error)
	DeleteRule(ctx context.Context, sc model.Scope, ruleID string) error

	// Log query surface (read path for the operational UI).
	ListLogs(ctx context.Context, sc model.Scope, input ListLogsInput) (ListLogsOutput, error)
}

// TaskMutator is the external mutation collaborator the executor
// delegates board side effects to. Implementations own all storage
// mechanics, including serialization of conflicting writes; the engine
// only sees success or a typed failure (wrap the sentinels from
// errors.go). Methods return the post-mutation entities so the executor
// can build faithful follow-on trigger contexts.
type TaskMutator interface {
	MoveTask(ctx context.Context, taskID, targetListID string) (model.Task, error)
	AssignMember(ctx context.Context, taskID, userID string) (model.Task, error)
	AddLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error)
	RemoveLabel(ctx context.Context, taskID, labelID string) (model.Task, model.Label, error)
	SetDueDate(ctx context.Context, taskID string, due time.Time) (model.Task, error)
	PostComment(ctx context.Context, taskID, text string) (model.Task, model.Comment, error)
	CreateChecklistItem(ctx context.Context, taskID, content string) (model.Task, error)
}

// WebhookSender delivers the send_webhook action. The body is the
// serialized trigger payload; delivery failures should wrap
// ErrCollaboratorUnavailable.
type WebhookSender interface {
	Send(ctx context.Context, url string, body []byte) error
}
