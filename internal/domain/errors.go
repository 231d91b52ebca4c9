package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s no encontrada", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// PermissionError reports a role/estado gate violation. The UI should not
// offer the control in the first place; this is the authoritative guard.
type PermissionError struct {
	Msg string
	Err error
}

func (e PermissionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "operación no permitida"
}

func (e PermissionError) Unwrap() error { return e.Err }

// StaleError means the settlement changed since the snapshot was read.
// Callers re-fetch and recompute; nothing is retried automatically.
type StaleError struct {
	Resource string
	Err      error
}

func (e StaleError) Error() string {
	if e.Resource == "" {
		return "registro modificado por otro usuario, recarga e intenta de nuevo"
	}
	return fmt.Sprintf("%s modificada por otro usuario, recarga e intenta de nuevo", e.Resource)
}

func (e StaleError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsPermission(err error) bool {
	var target PermissionError
	return errors.As(err, &target)
}

func IsStale(err error) bool {
	var target StaleError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
