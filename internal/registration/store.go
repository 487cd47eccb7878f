// Package registration holds pending candidate registrations until HR
// reaches a terminal decision. The store is process-local and in-memory;
// the Store interface keeps it injectable so a multi-instance deployment
// can back it with a shared external store instead.
package registration

import (
	"sync"
	"time"

	"zalo-hr-gateway/internal/models"
)

// Store is the contract the approval state machine depends on.
type Store interface {
	Put(reg models.PendingRegistration)
	// Take atomically removes and returns the registration. Under
	// concurrent APPROVE/DECLINE for the same id, exactly one caller
	// receives it; the rest observe ok == false.
	Take(id string) (models.PendingRegistration, bool)
	Peek(id string) (models.PendingRegistration, bool)
	List() []models.PendingRegistration
	// Restore re-inserts a taken registration after a recoverable
	// account-creation failure so the operator can retry.
	Restore(reg models.PendingRegistration)
}

// MemoryStore is the mutex-guarded in-memory implementation.
type MemoryStore struct {
	mu   sync.Mutex
	regs map[string]models.PendingRegistration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regs: make(map[string]models.PendingRegistration)}
}

func (s *MemoryStore) Put(reg models.PendingRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg.RegistrationID] = reg
}

func (s *MemoryStore) Take(id string) (models.PendingRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[id]
	if !ok {
		return models.PendingRegistration{}, false
	}
	delete(s.regs, id)
	return reg, true
}

func (s *MemoryStore) Peek(id string) (models.PendingRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[id]
	return reg, ok
}

func (s *MemoryStore) List() []models.PendingRegistration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PendingRegistration, 0, len(s.regs))
	for _, reg := range s.regs {
		out = append(out, reg)
	}
	return out
}

func (s *MemoryStore) Restore(reg models.PendingRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg.RegistrationID] = reg
}

// PruneExpired removes registrations created before now-ttl and returns
// them so the caller can notify the affected parties. A ttl of zero
// disables expiry and prunes nothing.
func (s *MemoryStore) PruneExpired(now time.Time, ttl time.Duration) []models.PendingRegistration {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-ttl)
	var expired []models.PendingRegistration
	for id, reg := range s.regs {
		if reg.CreatedAt.Before(cutoff) {
			expired = append(expired, reg)
			delete(s.regs, id)
		}
	}
	return expired
}
