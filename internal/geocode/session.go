package geocode

import "sync"

// Session orders overlapping searches for one input field. Each search takes
// a sequence number from Begin; a completion is applied only when Accept
// still considers it the latest, so a slow response for an earlier keystroke
// can never overwrite a newer one.
type Session struct {
	mu     sync.Mutex
	latest uint64
}

// Begin issues the next sequence number and marks it the latest.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Accept reports whether the search with sequence seq is still the latest
// issued. Stale completions must be discarded.
func (s *Session) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.latest
}
