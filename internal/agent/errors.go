package agent

import "errors"

// ErrTaskNotFound is returned when a completion request names a task that
// does not exist or is already completed
var ErrTaskNotFound = errors.New("task not found")
