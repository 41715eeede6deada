package otp

import (
	"sync"
	"time"
)

// Store keeps at most one code per email
type Store interface {
	Put(entry *Entry)
	Get(email string) (*Entry, bool)
	// DeleteIf removes the email's entry only while it still holds code
	DeleteIf(email, code string) bool
	DeleteExpired(now time.Time) int
}

type memoryStore struct {
	entries map[string]*Entry
	lock    sync.RWMutex
}

var _ Store = (*memoryStore)(nil)

func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]*Entry)}
}

func (s *memoryStore) Put(entry *Entry) {
	s.lock.Lock()
	defer s.lock.Unlock()
	e := *entry
	s.entries[entry.Email] = &e
}

func (s *memoryStore) Get(email string) (*Entry, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	e, ok := s.entries[email]
	if !ok {
		return nil, false
	}
	c := *e
	return &c, true
}

func (s *memoryStore) DeleteIf(email, code string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	e, ok := s.entries[email]
	if !ok || e.Code != code {
		return false
	}
	delete(s.entries, email)
	return true
}

func (s *memoryStore) DeleteExpired(now time.Time) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	removed := 0
	for email, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}
