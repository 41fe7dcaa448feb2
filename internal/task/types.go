package task

import "time"

// DueEdge names the two due-date transitions the scanner watches.
type DueEdge string

const (
	DueEdgeApproaching DueEdge = "approaching"
	DueEdgePassed      DueEdge = "passed"
)

// ListDueTasksInput selects tasks for one scanner pass.
type ListDueTasksInput struct {
	Edge DueEdge

	// Now is the scan reference time. Window only applies to the
	// approaching edge: a deadline within [Now, Now+Window) qualifies.
	Now    time.Time
	Window time.Duration

	Limit int
}
