// Package dashboard holds the shared survey state, the section navigation and the views.
package dashboard

import (
	"sync"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

// Reader gives a view read access to the shared table.
type Reader interface {
	Read(fn func(t *dataset.Table) error) error
}

// Writer gives a view exclusive write access to the shared table.
type Writer interface {
	Reader
	Write(fn func(t *dataset.Table) error) error
}

// State is the process-wide survey table. The table is loaded on first use and
// every mutation is visible to all later readers.
type State struct {
	mu  sync.RWMutex
	src *dataset.Source
}

// NewState wraps a memoized source.
func NewState(src *dataset.Source) *State {
	return &State{src: src}
}

// Read runs fn under the read lock.
func (s *State) Read(fn func(t *dataset.Table) error) error {
	t, err := s.src.Table()
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(t)
}

// Write runs fn under the write lock.
func (s *State) Write(fn func(t *dataset.Table) error) error {
	t, err := s.src.Table()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(t)
}
