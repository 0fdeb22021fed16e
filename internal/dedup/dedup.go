// Package dedup groups names whose compiled predicates are structurally
// identical, so generated matchers emit one arm per distinct predicate.
package dedup

import (
	"errors"
	"fmt"

	"compatgen/internal/util/jsonutil"
)

var ErrDuplicateName = errors.New("duplicate name")

// Group is a set of names sharing one predicate.
type Group[P any] struct {
	Names     []string
	Predicate P
}

// Set accumulates groups in first-insertion order. Predicates are compared by
// their canonical JSON encoding, so P must encode deterministically (slices,
// not maps).
type Set[P any] struct {
	groups []Group[P]
	byKey  map[string]int
	names  map[string]struct{}
}

func New[P any]() *Set[P] {
	return &Set[P]{
		byKey: make(map[string]int),
		names: make(map[string]struct{}),
	}
}

// Add appends name to the group whose predicate equals p, creating a new
// group when none does.
func (s *Set[P]) Add(name string, p P) error {
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	key, err := jsonutil.MarshalNoEscape(p)
	if err != nil {
		return fmt.Errorf("encode predicate for %s: %w", name, err)
	}
	s.names[name] = struct{}{}
	if i, ok := s.byKey[string(key)]; ok {
		s.groups[i].Names = append(s.groups[i].Names, name)
		return nil
	}
	s.byKey[string(key)] = len(s.groups)
	s.groups = append(s.groups, Group[P]{Names: []string{name}, Predicate: p})
	return nil
}

// Groups returns the groups in creation order.
func (s *Set[P]) Groups() []Group[P] {
	return s.groups
}

// Names returns every name added, in insertion order within group order.
func (s *Set[P]) Names() []string {
	out := make([]string, 0, len(s.names))
	for _, g := range s.groups {
		out = append(out, g.Names...)
	}
	return out
}

func (s *Set[P]) Len() int { return len(s.groups) }
