package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
	"github.com/rpggio/cabinet/internal/domain/user"
	"github.com/rpggio/cabinet/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var incomplete *mission.IncompleteTasksError
	if errors.As(err, &incomplete) {
		titles := make([]string, 0, len(incomplete.Tasks))
		for _, t := range incomplete.Tasks {
			titles = append(titles, t.Title)
		}
		return &APIError{
			Code:         "INCOMPLETE_TASKS",
			Message:      fmt.Sprintf("%d task(s) not done", len(incomplete.Tasks)),
			Details:      titles,
			RecoveryHint: "Retry with confirm=true to close anyway",
		}
	}
	var inUse *client.InUseError
	if errors.As(err, &inUse) {
		return &APIError{
			Code:         "CLIENT_IN_USE",
			Message:      "client is still referenced",
			Details:      inUse.References,
			RecoveryHint: "Retry with force=true to delete anyway",
		}
	}

	switch {
	case errors.Is(err, timer.ErrConflict):
		return &APIError{Code: "TIMER_CONFLICT", Message: "a timer session is already active", RecoveryHint: "Stop or discard it first"}
	case errors.Is(err, timer.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid timer transition", RecoveryHint: "Check timer_status"}
	case errors.Is(err, timer.ErrNoActiveSession):
		return &APIError{Code: "NO_ACTIVE_SESSION", Message: "no active timer session", RecoveryHint: "Call timer_start first"}
	case errors.Is(err, timer.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "user_id and mission_id are required"}
	case errors.Is(err, mission.ErrMissionNotFound):
		return &APIError{Code: "MISSION_NOT_FOUND", Message: "mission not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, mission.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found on mission"}
	case errors.Is(err, mission.ErrAlreadyTerminal):
		return &APIError{Code: "ALREADY_COMPLETED", Message: "mission already completed", RecoveryHint: "Reopen it with a reason first"}
	case errors.Is(err, mission.ErrNotCompleted):
		return &APIError{Code: "NOT_COMPLETED", Message: "mission is not completed"}
	case errors.Is(err, mission.ErrMissingReason):
		return &APIError{Code: "MISSING_REASON", Message: "a reopen reason is required"}
	case errors.Is(err, mission.ErrForbidden), errors.Is(err, timeentry.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "action not allowed for this user"}
	case errors.Is(err, timeentry.ErrEntryNotFound):
		return &APIError{Code: "ENTRY_NOT_FOUND", Message: "time entry not found"}
	case errors.Is(err, timeentry.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid review transition", RecoveryHint: "draft → submitted → approved|rejected"}
	case errors.Is(err, timeentry.ErrImmutable):
		return &APIError{Code: "IMMUTABLE", Message: "time entry is immutable"}
	case errors.Is(err, billing.ErrMixedVATRates):
		return &APIError{Code: "MIXED_VAT_RATES", Message: err.Error(), RecoveryHint: "Use one document VAT rate"}
	case errors.Is(err, billing.ErrDocumentNotFound):
		return &APIError{Code: "DOCUMENT_NOT_FOUND", Message: "billing document not found"}
	case errors.Is(err, client.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, deadline.ErrDeadlineNotFound):
		return &APIError{Code: "DEADLINE_NOT_FOUND", Message: "deadline not found"}
	case errors.Is(err, user.ErrUserNotFound):
		return &APIError{Code: "USER_NOT_FOUND", Message: "user not found"}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "collection modified by another writer", RecoveryHint: "Reload and retry"}
	case errors.Is(err, mission.ErrInvalidInput),
		errors.Is(err, timeentry.ErrInvalidInput),
		errors.Is(err, billing.ErrInvalidInput),
		errors.Is(err, client.ErrInvalidInput),
		errors.Is(err, deadline.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, errInvalidArgument):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

var errInvalidArgument = errors.New("invalid argument")
