package core

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks at the command boundary.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrInvariant  = errors.New("invariant violation")
)

var (
	ErrInvalidAmount = &ValidationError{Field: "amount", Reason: "amount must be positive"}
	ErrEmptyName     = &ValidationError{Field: "name", Reason: "name cannot be empty"}
	ErrEmptyCategory = &ValidationError{Field: "category", Reason: "category cannot be empty"}
)

// ValidationError rejects a command before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError names the missing entity kind and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvariantError is internal only. Seeing one means a delta was lost or applied twice.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Detail
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// Entity kinds used in NotFoundError.
const (
	KindAccount        = "account"
	KindTransaction    = "transaction"
	KindCategoryGroup  = "category group"
	KindCategoryBudget = "category budget"
)

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
