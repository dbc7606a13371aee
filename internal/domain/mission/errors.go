package mission

import (
	"errors"
	"fmt"
)

var (
	// ErrMissionNotFound indicates the mission doesn't exist.
	ErrMissionNotFound = errors.New("mission not found")
	// ErrTaskNotFound indicates the task doesn't exist on the mission.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAlreadyTerminal indicates the mission is already completed.
	ErrAlreadyTerminal = errors.New("mission already completed")
	// ErrNotCompleted indicates a reopen on a mission that isn't completed.
	ErrNotCompleted = errors.New("mission is not completed")
	// ErrMissingReason indicates a reopen without a reason.
	ErrMissingReason = errors.New("reopen reason required")
	// ErrIncompleteTasks indicates completion was requested while tasks remain open.
	ErrIncompleteTasks = errors.New("mission has incomplete tasks")
	// ErrForbidden indicates the actor's role doesn't allow the action.
	ErrForbidden = errors.New("action not allowed for this user")
	// ErrInvalidInput indicates invalid mission input.
	ErrInvalidInput = errors.New("invalid mission input")
)

// IncompleteTasksError carries the tasks blocking a completion.
type IncompleteTasksError struct {
	MissionID string
	Tasks     []Task
}

func (e *IncompleteTasksError) Error() string {
	return fmt.Sprintf("%v: %d open on %s", ErrIncompleteTasks, len(e.Tasks), e.MissionID)
}

func (e *IncompleteTasksError) Unwrap() error {
	return ErrIncompleteTasks
}
