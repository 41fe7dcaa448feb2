package condition

import (
	"fmt"
	"strings"
	"time"

	"board-automation/internal/automation"
)

// Service evaluates a rule's condition list against a trigger context.
// Evaluation is pure and total over well-formed contexts: missing
// fields and operator/type mismatches evaluate to false rather than
// raising. The only error path is an unknown operator, which must
// surface to the rule author as an invalid rule definition.
type Service interface {
	Evaluate(conds []automation.Condition, tc automation.TriggerContext) (bool, error)
}

type service struct{}

func New() Service {
	return &service{}
}

// Evaluate applies implicit AND across the clause list. An empty list
// always matches.
func (s *service) Evaluate(conds []automation.Condition, tc automation.TriggerContext) (bool, error) {
	for _, cond := range conds {
		ok, err := s.evaluateClause(cond, tc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *service) evaluateClause(cond automation.Condition, tc automation.TriggerContext) (bool, error) {
	switch cond.Operator {
	case automation.OperatorEquals, automation.OperatorNotEquals,
		automation.OperatorContains,
		automation.OperatorGreaterThan, automation.OperatorLessThan,
		automation.OperatorIsEmpty, automation.OperatorIsNotEmpty:
		// recognized, continue below
	default:
		return false, fmt.Errorf("%w: unknown operator %q", automation.ErrInvalidRuleDefinition, cond.Operator)
	}

	actual, present := Resolve(cond.Field, tc)
	if !present {
		// A condition referencing a field this trigger did not populate
		// is simply unsatisfied, never an error.
		return false, nil
	}

	switch cond.Operator {
	case automation.OperatorEquals:
		return valuesEqual(actual, cond.Value), nil
	case automation.OperatorNotEquals:
		return !valuesEqual(actual, cond.Value), nil
	case automation.OperatorContains:
		return valueContains(actual, cond.Value), nil
	case automation.OperatorGreaterThan:
		return valuesOrdered(actual, cond.Value, false), nil
	case automation.OperatorLessThan:
		return valuesOrdered(actual, cond.Value, true), nil
	case automation.OperatorIsEmpty:
		return valueEmpty(actual), nil
	case automation.OperatorIsNotEmpty:
		return !valueEmpty(actual), nil
	}
	return false, nil
}

// valuesEqual compares numerically when both sides are numeric, as
// timestamps when both sides are temporal, otherwise as strings.
// Slices never compare equal to anything (type mismatch → false).
func valuesEqual(actual, expected any) bool {
	if _, isSlice := actual.([]string); isSlice {
		return false
	}
	if af, aok := asNumber(actual); aok {
		if ef, eok := asNumber(expected); eok {
			return af == ef
		}
	}
	if at, aok := asTime(actual); aok {
		if et, eok := asTime(expected); eok {
			return at.Equal(et)
		}
	}
	as, aok := asString(actual)
	es, eok := asString(expected)
	return aok && eok && as == es
}

// valueContains is substring match for strings and membership for
// string slices. Anything else is a type mismatch → false.
func valueContains(actual, expected any) bool {
	es, eok := asString(expected)
	if !eok {
		return false
	}
	switch v := actual.(type) {
	case string:
		return strings.Contains(v, es)
	case []string:
		for _, item := range v {
			if item == es {
				return true
			}
		}
		return false
	}
	return false
}

// valuesOrdered implements greater_than (and less_than when inverted)
// over numbers and timestamps. Non-comparable pairs → false.
func valuesOrdered(actual, expected any, less bool) bool {
	if at, aok := asTime(actual); aok {
		if et, eok := asTime(expected); eok {
			if less {
				return at.Before(et)
			}
			return at.After(et)
		}
		return false
	}
	af, aok := asNumber(actual)
	ef, eok := asNumber(expected)
	if !aok || !eok {
		return false
	}
	if less {
		return af < ef
	}
	return af > ef
}

func valueEmpty(actual any) bool {
	switch v := actual.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	}
	return false
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return fmt.Sprintf("%v", t), true
	case int:
		return fmt.Sprintf("%d", t), true
	}
	return "", false
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// asTime accepts time.Time directly and RFC3339 / date-only strings
// (the formats rule authors can type into a condition value).
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
