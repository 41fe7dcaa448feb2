package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"board-automation/internal/automation"
	"board-automation/internal/automation/condition"
)

// placeholderPattern matches {{field}} references in comment and
// checklist templates. Field names reuse the condition grammar.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-z_.]+)\s*\}\}`)

// renderTemplate substitutes {{field}} placeholders with values from
// the trigger context. Unresolvable placeholders are left verbatim so a
// typo is visible in the posted text instead of silently vanishing.
func renderTemplate(text string, tc automation.TriggerContext) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		field := placeholderPattern.FindStringSubmatch(match)[1]
		value, present := condition.Resolve(field, tc)
		if !present {
			return match
		}
		switch v := value.(type) {
		case string:
			return v
		case []string:
			return strings.Join(v, ", ")
		case time.Time:
			return v.Format(time.RFC3339)
		default:
			return fmt.Sprintf("%v", v)
		}
	})
}
