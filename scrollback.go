package vtcore

import "sync"

// MemoryScrollback is a slice-backed ScrollbackProvider that keeps the last
// MaxLines lines in process memory (every line when MaxLines is zero).
type MemoryScrollback struct {
	mu       sync.RWMutex
	lines    [][]Cell
	maxLines int
}

// NewMemoryScrollback creates an in-memory scrollback store holding up to
// maxLines lines. A negative maxLines is a configuration error: scrollback
// capacity is a count of lines a host can afford to keep, and a negative
// count has no such meaning, so this panics rather than silently clamping
// to zero or treating it as "unlimited".
func NewMemoryScrollback(maxLines int) *MemoryScrollback {
	if maxLines < 0 {
		panic("vtcore: NewMemoryScrollback: negative maxLines")
	}
	return &MemoryScrollback{maxLines: maxLines}
}

func (s *MemoryScrollback) Push(line []Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]Cell, len(line))
	copy(cp, line)
	s.lines = append(s.lines, cp)

	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		excess := len(s.lines) - s.maxLines
		s.lines = s.lines[excess:]
	}
}

func (s *MemoryScrollback) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

func (s *MemoryScrollback) Line(index int) []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.lines) {
		return nil
	}
	return s.lines[index]
}

func (s *MemoryScrollback) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// SetMaxLines changes the capacity, trimming the oldest lines if the store
// currently holds more than the new limit. A negative value is rejected the
// same way the constructor rejects it.
func (s *MemoryScrollback) SetMaxLines(max int) {
	if max < 0 {
		panic("vtcore: MemoryScrollback.SetMaxLines: negative maxLines")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLines = max
	if max > 0 && len(s.lines) > max {
		excess := len(s.lines) - max
		s.lines = s.lines[excess:]
	}
}

func (s *MemoryScrollback) MaxLines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLines
}

var _ ScrollbackProvider = (*MemoryScrollback)(nil)
