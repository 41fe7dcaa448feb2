package http

import (
	"errors"

	"board-automation/internal/automation"
	pkgErrors "board-automation/pkg/errors"
)

// mapError translates domain errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, automation.ErrRuleNotFound):
		return pkgErrors.NewHTTPError(404, "automation rule not found")
	case errors.Is(err, automation.ErrMalformedContext):
		return pkgErrors.NewHTTPError(400, err.Error())
	case errors.Is(err, automation.ErrInvalidRuleDefinition):
		return pkgErrors.NewHTTPError(400, err.Error())
	case errors.Is(err, automation.ErrTriggerAborted):
		// Nothing was evaluated; the caller may retry the whole trigger.
		return pkgErrors.NewHTTPError(503, "rule store unavailable, retry the trigger")
	default:
		return pkgErrors.NewHTTPError(500, "internal server error")
	}
}
