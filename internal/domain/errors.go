package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors surfaced by use cases and repository implementations.
// The transport layer maps each one to a user-visible status; the domain
// never formats user-facing strings beyond these.

var (
	// ErrListNotFound indicates the referenced list does not exist.
	ErrListNotFound = errors.New("list not found")

	// ErrListForbidden indicates the list exists but the caller does not own it.
	ErrListForbidden = errors.New("list does not belong to caller")

	// ErrItemNotFound indicates the referenced item is not present on the list.
	ErrItemNotFound = errors.New("item not found")

	// ErrStatusTransition indicates the operation is invalid for the list's
	// current status / editing combination.
	ErrStatusTransition = errors.New("invalid list status transition")

	// ErrVersionConflict indicates an optimistic-concurrency mismatch on an
	// autosave write. Matched via errors.Is against VersionConflictError.
	ErrVersionConflict = errors.New("autosave version conflict")

	// ErrEditingStateInvariant indicates an inconsistent
	// (status, isEditing, editingTargetListID) triple. Treated as a
	// programming-logic fault if it fires from internal state construction.
	ErrEditingStateInvariant = errors.New("editing state invariant violated")

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates registration with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnauthorized indicates invalid credentials or a bad session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProductNotFound indicates the catalog has no product for the id.
	ErrProductNotFound = errors.New("product not found")
)

// VersionConflictError is returned when an autosave upsert carries a stale
// base version. RemoteUpdatedAt is the authoritative current version token,
// which the client must use to re-fetch before retrying.
type VersionConflictError struct {
	RemoteUpdatedAt time.Time
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("autosave version conflict: remote updated at %s", e.RemoteUpdatedAt.Format(time.RFC3339Nano))
}

// Is makes errors.Is(err, ErrVersionConflict) match.
func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// StatusTransitionError carries the rejected transition for diagnostics.
type StatusTransitionError struct {
	From ListStatus
	To   ListStatus
	Op   string
}

func (e *StatusTransitionError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("%s: transition %s -> %s not allowed", e.Op, e.From, e.To)
	}
	return fmt.Sprintf("%s: not allowed while list is %s", e.Op, e.From)
}

// Is makes errors.Is(err, ErrStatusTransition) match.
func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrStatusTransition
}
