// Package memory is an in-process store for local runs and tests. It keeps
// the same uniqueness and ordering guarantees as the database drivers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	seq          int64
	users        map[string]*userRecord
	jobs         map[string]*jobRecord
	applications map[string]*applicationRecord
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]*userRecord),
		jobs:         make(map[string]*jobRecord),
		applications: make(map[string]*applicationRecord),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) newID() string {
	return uuid.NewString()
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// sortNewestFirst orders by creation time, then by insertion sequence.
func sortNewestFirst[T any](items []T, created func(T) time.Time, seq func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return seq(items[i]) > seq(items[j])
	})
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
