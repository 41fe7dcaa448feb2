package automation

import "errors"

// Hard errors: these abort a whole Process call.
var (
	// ErrMalformedContext means required context fields are missing.
	// Nothing was evaluated; the trigger cannot be retried as-is.
	ErrMalformedContext = errors.New("malformed trigger context")

	// ErrTriggerAborted means the rule store was unavailable. No partial
	// logs were written; the caller may retry the whole trigger.
	ErrTriggerAborted = errors.New("trigger aborted: rule store unavailable")
)

// Contained errors: scoped to one rule, one action, or one chain link.
// They surface in logs and summaries, never as errors from Process.
var (
	// ErrInvalidRuleDefinition marks a rule using an unrecognized
	// operator, field, or action type.
	ErrInvalidRuleDefinition = errors.New("invalid rule definition")

	// ErrMaxChainDepth halts a re-entrant trigger chain that reached the
	// configured recursion limit.
	ErrMaxChainDepth = errors.New("max recursion depth exceeded")
)

// Collaborator contract errors. Mutation collaborators wrap their own
// failures with these sentinels so the executor can classify outcomes
// with errors.Is.
var (
	// ErrActionConflict: a concurrent write won; the store rejected this
	// mutation (optimistic version mismatch, row lock conflict).
	ErrActionConflict = errors.New("action conflict")

	// ErrInvalidActionParameters: the action's parameter set is
	// structurally unusable at execution time.
	ErrInvalidActionParameters = errors.New("invalid action parameters")

	// ErrCollaboratorUnavailable: the collaborator could not be reached
	// or refused the call outright.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// Authoring-surface errors.
var (
	ErrRuleNotFound = errors.New("automation rule not found")
)
