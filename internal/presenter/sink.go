package presenter

import (
	"sync"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// Sink is the display slot lookups write into. Completions are applied in
// arrival order, so the last lookup to finish wins even if it started first.
type Sink struct {
	mu      sync.Mutex
	current models.Lookup
	seq     uint64
	err     error
}

// Apply stores the outcome of one lookup and returns its completion number.
func (s *Sink) Apply(l models.Lookup, err error) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if err != nil {
		s.err = err
		return s.seq
	}
	s.current = l
	s.err = nil
	return s.seq
}

// Current returns the displayed lookup and the error of the last completion.
func (s *Sink) Current() (models.Lookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.err
}

// Completions reports how many outcomes have been applied.
func (s *Sink) Completions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
