package automation

import (
	"time"

	"board-automation/internal/model"
)

// --- Trigger / action / operator enumerations ---

// TriggerType enumerates the domain events that can activate rules.
// The set is closed: the event producer and the rule authoring surface
// both validate against it.
type TriggerType string

const (
	TriggerTaskCreated        TriggerType = "task_created"
	TriggerTaskMoved          TriggerType = "task_moved"
	TriggerTaskCompleted      TriggerType = "task_completed"
	TriggerDueDateApproaching TriggerType = "due_date_approaching"
	TriggerDueDatePassed      TriggerType = "due_date_passed"
	TriggerLabelAdded         TriggerType = "label_added"
	TriggerLabelRemoved       TriggerType = "label_removed"
	TriggerMemberAssigned     TriggerType = "member_assigned"
	TriggerCommentAdded       TriggerType = "comment_added"
	TriggerChecklistCompleted TriggerType = "checklist_completed"
)

// Valid reports whether t is a member of the closed trigger enumeration.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerTaskCreated, TriggerTaskMoved, TriggerTaskCompleted,
		TriggerDueDateApproaching, TriggerDueDatePassed,
		TriggerLabelAdded, TriggerLabelRemoved, TriggerMemberAssigned,
		TriggerCommentAdded, TriggerChecklistCompleted:
		return true
	}
	return false
}

// ActionType enumerates the declarative side effects a rule can request.
type ActionType string

const (
	ActionMoveTask            ActionType = "move_task"
	ActionAssignMember        ActionType = "assign_member"
	ActionAddLabel            ActionType = "add_label"
	ActionRemoveLabel         ActionType = "remove_label"
	ActionSetDueDate          ActionType = "set_due_date"
	ActionPostComment         ActionType = "post_comment"
	ActionSendWebhook         ActionType = "send_webhook"
	ActionCreateChecklistItem ActionType = "create_checklist_item"
)

// Valid reports whether a is a member of the closed action enumeration.
func (a ActionType) Valid() bool {
	switch a {
	case ActionMoveTask, ActionAssignMember, ActionAddLabel, ActionRemoveLabel,
		ActionSetDueDate, ActionPostComment, ActionSendWebhook, ActionCreateChecklistItem:
		return true
	}
	return false
}

// Operator enumerates the condition operators of the fixed grammar.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorIsEmpty     Operator = "is_empty"
	OperatorIsNotEmpty  Operator = "is_not_empty"
)

// Valid reports whether o is a member of the fixed operator grammar.
func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains,
		OperatorGreaterThan, OperatorLessThan, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	}
	return false
}

// --- Rule configuration ---

// Condition is one clause of a rule's condition list. Clauses combine
// with implicit AND; there is no OR or grouping in the grammar.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// ActionSpec is one declarative step of a rule's action list.
type ActionSpec struct {
	Type   ActionType     `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// Rule is the stored automation configuration, owned by a board.
type Rule struct {
	ID         string
	BoardID    string
	Name       string
	Trigger    TriggerType
	Conditions []Condition
	Actions    []ActionSpec
	Active     bool
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Inert reports whether the rule has no actions. Inert rules are legal
// configuration but are skipped at dispatch, never an error.
func (r Rule) Inert() bool {
	return len(r.Actions) == 0
}

// --- Trigger context ---

// TriggerContext is the immutable snapshot of one trigger occurrence.
// Entities (task, label, actor) arrive already resolved from the event
// producer; the engine never reaches back into storage to complete a
// context. Derived contexts for chained actions are built fresh, never
// edited in place, so log records stay faithful to what was evaluated.
type TriggerContext struct {
	BoardID string
	Trigger TriggerType

	// Situational fields, populated per trigger type.
	Task       *model.Task
	ListID     string
	Label      *model.Label
	Actor      *model.User
	FromListID string
	ToListID   string
	DueDate    *time.Time
	Comment    string
}

// --- Execution results ---

// Status is the aggregate result of one rule invocation.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialFailure Status = "partial_failure"
	StatusFailure        Status = "failure"
)

// ErrorKind classifies a failed action outcome.
type ErrorKind string

const (
	ErrorKindConflict          ErrorKind = "action_conflict"
	ErrorKindInvalidParameters ErrorKind = "invalid_action_parameters"
	ErrorKindUnavailable       ErrorKind = "collaborator_unavailable"
	ErrorKindMaxChainDepth     ErrorKind = "max_recursion_depth"
	ErrorKindCancelled         ErrorKind = "cancelled"
	ErrorKindUnknownAction     ErrorKind = "unknown_action"
)

// ActionOutcome is the recorded result of one attempted action.
type ActionOutcome struct {
	Action    ActionType `json:"action"`
	Success   bool       `json:"success"`
	ErrorKind ErrorKind  `json:"error_kind,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// RuleResult is the per-rule entry in a Process summary.
type RuleResult struct {
	RuleID   string
	Status   Status
	Outcomes []ActionOutcome
}

// Log is one append-only execution record: one per (rule, invocation).
type Log struct {
	ID          string
	RuleID      string
	BoardID     string
	Status      Status
	TestRun     bool
	TriggerData []byte // serialized TriggerContext as evaluated
	Actions     []ActionOutcome
	Error       string // rule-level error (e.g. invalid definition), empty otherwise
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// --- UseCase inputs / outputs ---

type ProcessInput struct {
	Context TriggerContext
	DryRun  bool
}

type ProcessOutput struct {
	RulesMatched  int
	RulesExecuted int
	Results       []RuleResult
}

type TestRuleInput struct {
	RuleID  string
	Context TriggerContext
}

type CreateRuleInput struct {
	BoardID    string
	Name       string
	Trigger    TriggerType
	Conditions []Condition
	Actions    []ActionSpec
	Active     *bool // nil means active
}

type CreateRuleOutput struct {
	Rule Rule
}

type ListRulesInput struct {
	BoardID string
	Trigger TriggerType // optional filter
	Limit   int
	Offset  int
}

type ListRulesOutput struct {
	Rules  []Rule
	Total  int
	Limit  int
	Offset int
}

type DetailRuleOutput struct {
	Rule Rule
}

type SetRuleActiveInput struct {
	RuleID string
	Active bool
}

type SetRuleActiveOutput struct {
	Rule Rule
}

type ListLogsInput struct {
	RuleID          string
	Status          Status // optional filter
	IncludeTestRuns bool   // dry-run logs are excluded by default
	Limit           int
	Offset          int
}

type ListLogsOutput struct {
	Logs   []Log
	Total  int
	Limit  int
	Offset int
}
