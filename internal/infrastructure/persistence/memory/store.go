// Package memory provides an in-memory store used for tests and local
// development. It implements the same repository contracts as the postgres
// store and passes the same compliance suite.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lista-app/lista/internal/domain"
)

// Store holds all state behind a single RWMutex. Every aggregate is deep
// copied on the way in and out so callers never share mutable state with
// the store.
type Store struct {
	mu    sync.RWMutex
	lists map[string]*domain.List
	users map[string]*domain.User
}

func NewStore() *Store {
	return &Store{
		lists: make(map[string]*domain.List),
		users: make(map[string]*domain.User),
	}
}

// FindByID returns the list with the given id.
func (s *Store) FindByID(_ context.Context, id string) (*domain.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return l.Clone(), nil
}

// ListByOwner returns every list owned by the user, autosave drafts
// included, ordered by creation time (id as a tiebreaker for stability).
func (s *Store) ListByOwner(_ context.Context, ownerUserID string) ([]*domain.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.List
	for _, l := range s.lists {
		if l.OwnerUserID == ownerUserID {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Save upserts the full aggregate, replacing any previous item set.
func (s *Store) Save(_ context.Context, l *domain.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[l.ID] = l.Clone()
	return nil
}

// DeleteByID removes the list. Deleting a missing id is a no-op.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, id)
	return nil
}

// CreateUser stores a new account, rejecting duplicate emails.
func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// FindUserByEmail returns the account registered under the email.
func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindUserByID returns the account with the given id.
func (s *Store) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
