package errors

import "fmt"

const (
	ErrNotFound          = "NOT_FOUND"
	ErrInvalidTransition = "INVALID_TRANSITION"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrForbidden         = "FORBIDDEN"
	ErrConflict          = "CONFLICT"
	ErrValidation        = "VALIDATION"
	ErrRouting           = "ROUTING"
	ErrInternal          = "INTERNAL"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func Wrap(code, msg string, err error) *DomainError {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// --- Generic ---

func NewNotFound(entity, id string) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

func NewInvalidTransition(from, to string) *DomainError {
	return &DomainError{Code: ErrInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

func NewUnauthorized(msg string) *DomainError {
	return &DomainError{Code: ErrUnauthorized, Message: msg}
}

func NewForbidden(msg string) *DomainError {
	return &DomainError{Code: ErrForbidden, Message: msg}
}

func NewConflict(msg string) *DomainError {
	return &DomainError{Code: ErrConflict, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Code: ErrValidation, Message: msg}
}

func NewInternal(msg string, err error) *DomainError {
	return &DomainError{Code: ErrInternal, Message: msg, Err: err}
}

// --- Call ---

func CallNotFound(id string) *DomainError {
	return NewNotFound("call", id)
}

func DuplicateCall() *DomainError {
	return NewConflict("an identical pending call already exists")
}

func TeamCallNotFound(teamID string) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("no accepted call for team %s", teamID)}
}

func CallInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

// --- Team ---

func TeamNotFound(id string) *DomainError {
	return NewNotFound("team", id)
}

func TeamBusy() *DomainError {
	return NewConflict("team has an accepted call")
}

// --- Car ---

func CarNotFound(id string) *DomainError {
	return NewNotFound("car", id)
}

func CarAlreadyExists() *DomainError {
	return NewConflict("car with this number already exists")
}

func CarBusy() *DomainError {
	return NewConflict("car is attached to a team")
}

// --- User ---

func UserNotFound(id string) *DomainError {
	return NewNotFound("user", id)
}

func UserAlreadyExists() *DomainError {
	return NewConflict("user with this login already exists")
}

func WorkerBusy() *DomainError {
	return NewConflict("worker is a member of a team")
}

// --- Patient ---

func PatientNotFound(id string) *DomainError {
	return NewNotFound("patient", id)
}

// --- Routing ---

func RoutingFailure(err error) *DomainError {
	return &DomainError{Code: ErrRouting, Message: "route provider request failed", Err: err}
}
