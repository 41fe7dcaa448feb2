package task

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrLabelNotFound   = errors.New("label not found")
	ErrVersionConflict = errors.New("task version conflict")
)
