// Package idgen produces opaque unique identifiers.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces an opaque unique token per call.
type Generator interface {
	NewID() (string, error)
}

type uuidV7 struct{}

// UUIDv7 returns a Generator emitting time-ordered UUIDv7 strings.
// Time ordering keeps freshly inserted rows roughly index-local.
func UUIDv7() Generator { return uuidV7{} }

func (uuidV7) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Sequential is a deterministic Generator for tests: prefix-1, prefix-2, ...
type Sequential struct {
	Prefix string
	n      atomic.Int64
}

// NewID returns the next sequential id.
func (s *Sequential) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1)), nil
}
