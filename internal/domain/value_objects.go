package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors for value objects.
var (
	ErrTitleTooShort     = errors.New("title must be at least 3 characters")
	ErrTitleTooLong      = errors.New("title must be 35 characters or less")
	ErrItemNameRequired  = errors.New("item name is required")
	ErrInvalidListStatus = errors.New("invalid list status")
)

// Title length bounds for validated entry points. Autosave drafts may
// transiently hold an empty title and bypass this value object.
const (
	TitleMinLen = 3
	TitleMaxLen = 35
)

// Title is a validated list title value object.
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if len([]rune(s)) < TitleMinLen {
		return Title{}, ErrTitleTooShort
	}
	if len([]rune(s)) > TitleMaxLen {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewListStatus validates and creates a ListStatus.
func NewListStatus(s string) (ListStatus, error) {
	status := ListStatus(strings.ToUpper(s))

	switch status {
	case ListStatusDraft, ListStatusActive, ListStatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidListStatus, s)
	}
}

