// Package subs manages the set of subreddit subscriptions feeding a run.
package subs

import (
	"context"
	"strings"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// Validity is the tri-state result of subscription validation.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Subscription is one named feed and its validation state. Validation
// failures are recorded here, never raised.
type Subscription struct {
	Name     string
	Validity Validity
}

// Set holds subscriptions with case-insensitively unique names.
type Set struct {
	subs []Subscription
}

func NewSet() *Set {
	return &Set{}
}

// Add inserts a subscription in the unknown state. It reports false for
// blank names and case-insensitive duplicates.
func (s *Set) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || s.find(name) >= 0 {
		return false
	}
	s.subs = append(s.subs, Subscription{Name: name, Validity: ValidityUnknown})
	return true
}

// Remove deletes a subscription by name, case-insensitively.
func (s *Set) Remove(name string) bool {
	i := s.find(name)
	if i < 0 {
		return false
	}
	s.subs = append(s.subs[:i], s.subs[i+1:]...)
	return true
}

// ValidateAll resolves every unknown subscription against the metadata
// endpoint. A fetch failure marks the subscription invalid, the same as a
// missing subreddit.
func (s *Set) ValidateAll(ctx context.Context, v domain.Validator) {
	for i := range s.subs {
		if s.subs[i].Validity != ValidityUnknown {
			continue
		}
		exists, err := v.SubredditExists(ctx, s.subs[i].Name)
		if err == nil && exists {
			s.subs[i].Validity = ValidityValid
		} else {
			s.subs[i].Validity = ValidityInvalid
		}
	}
}

// Validated returns the names cleared for aggregation, in insertion order.
func (s *Set) Validated() []string {
	var names []string
	for _, sub := range s.subs {
		if sub.Validity == ValidityValid {
			names = append(names, sub.Name)
		}
	}
	return names
}

// All returns a copy of every subscription in insertion order.
func (s *Set) All() []Subscription {
	return append([]Subscription(nil), s.subs...)
}

func (s *Set) Len() int {
	return len(s.subs)
}

func (s *Set) find(name string) int {
	for i, sub := range s.subs {
		if strings.EqualFold(sub.Name, name) {
			return i
		}
	}
	return -1
}
