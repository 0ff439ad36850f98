package audit

import (
	"context"
	"sync"
)

// MemorySink keeps events per phone. Default sink when kafka is not
// configured; also the test double.
type MemorySink struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make(map[string][]Event)}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Phone] = append(s.events[event.Phone], event)
	return nil
}

func (s *MemorySink) ListByPhone(phone string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[phone]...)
}

func (s *MemorySink) Close() error {
	return nil
}
