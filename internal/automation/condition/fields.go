package condition

import (
	"board-automation/internal/automation"
)

// resolver extracts one addressable field from a trigger context.
// The second return is presence: false when the backing entity is not
// populated for this trigger type.
type resolver func(tc automation.TriggerContext) (any, bool)

// fieldResolvers is the static lookup table for condition fields.
// Field resolution is a table lookup per trigger context, not
// reflection; a field is "present" when its backing entity is resolved
// (for entity fields) or when the scalar is non-empty (for top-level
// scalars).
var fieldResolvers = map[string]resolver{
	"board.id": func(tc automation.TriggerContext) (any, bool) {
		return tc.BoardID, true
	},
	"list.id": func(tc automation.TriggerContext) (any, bool) {
		return tc.ListID, tc.ListID != ""
	},
	"from_list.id": func(tc automation.TriggerContext) (any, bool) {
		return tc.FromListID, tc.FromListID != ""
	},
	"to_list.id": func(tc automation.TriggerContext) (any, bool) {
		return tc.ToListID, tc.ToListID != ""
	},
	"due_date": func(tc automation.TriggerContext) (any, bool) {
		if tc.DueDate == nil {
			return nil, false
		}
		return *tc.DueDate, true
	},
	"comment.text": func(tc automation.TriggerContext) (any, bool) {
		return tc.Comment, tc.Comment != ""
	},

	"task.id": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.ID, true
	},
	"task.title": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.Title, true
	},
	"task.description": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.Description, true
	},
	"task.list_id": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.ListID, true
	},
	"task.assignee_id": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.AssigneeID, true
	},
	"task.completed": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.Completed, true
	},
	"task.due_date": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil || tc.Task.DueDate == nil {
			return nil, false
		}
		return *tc.Task.DueDate, true
	},
	"task.labels": func(tc automation.TriggerContext) (any, bool) {
		if tc.Task == nil {
			return nil, false
		}
		return tc.Task.LabelNames(), true
	},

	"label.id": func(tc automation.TriggerContext) (any, bool) {
		if tc.Label == nil {
			return nil, false
		}
		return tc.Label.ID, true
	},
	"label.name": func(tc automation.TriggerContext) (any, bool) {
		if tc.Label == nil {
			return nil, false
		}
		return tc.Label.Name, true
	},

	"user.id": func(tc automation.TriggerContext) (any, bool) {
		if tc.Actor == nil {
			return nil, false
		}
		return tc.Actor.ID, true
	},
	"user.name": func(tc automation.TriggerContext) (any, bool) {
		if tc.Actor == nil {
			return nil, false
		}
		return tc.Actor.Name, true
	},
}

// Resolve looks up a condition field against a context. Unknown field
// names resolve as absent, same as fields missing from the context.
func Resolve(field string, tc automation.TriggerContext) (any, bool) {
	r, ok := fieldResolvers[field]
	if !ok {
		return nil, false
	}
	return r(tc)
}

// KnownField reports whether the field name is addressable at all.
// The rule authoring surface uses this for save-time validation.
func KnownField(field string) bool {
	_, ok := fieldResolvers[field]
	return ok
}
