package registration

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"zalo-hr-gateway/internal/models"
)

func reg(id string) models.PendingRegistration {
	return models.PendingRegistration{
		RegistrationID:     id,
		Profile:            models.CandidateProfile{Name: "Nguyễn Văn A"},
		CVFilePath:         "uploads/cvs/u1_123_cv.pdf",
		CandidateChannelID: "u1",
		CreatedAt:          time.Now(),
	}
}

func TestMemoryStore(t *testing.T) {
	t.Run("put then take removes the registration", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(reg("r1"))

		taken, ok := store.Take("r1")
		if !ok || taken.RegistrationID != "r1" {
			t.Fatalf("Take(r1) = %+v, %v", taken, ok)
		}
		if _, ok := store.Take("r1"); ok {
			t.Error("second Take(r1) should report not found")
		}
	})

	t.Run("peek does not remove", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(reg("r1"))

		if _, ok := store.Peek("r1"); !ok {
			t.Fatal("Peek(r1) should find the registration")
		}
		if _, ok := store.Peek("r1"); !ok {
			t.Error("Peek must not consume the registration")
		}
	})

	t.Run("restore makes a taken registration decidable again", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(reg("r1"))

		taken, _ := store.Take("r1")
		store.Restore(taken)

		if _, ok := store.Take("r1"); !ok {
			t.Error("restored registration should be takeable")
		}
	})

	t.Run("concurrent takes succeed exactly once", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(reg("contested"))

		const attempts = 50
		var wins atomic.Int64
		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				if _, ok := store.Take("contested"); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		if got := wins.Load(); got != 1 {
			t.Errorf("expected exactly one successful take, got %d", got)
		}
	})
}

func TestPruneExpired(t *testing.T) {
	t.Run("zero ttl keeps registrations forever", func(t *testing.T) {
		store := NewMemoryStore()
		old := reg("r-old")
		old.CreatedAt = time.Now().Add(-100 * 24 * time.Hour)
		store.Put(old)

		if expired := store.PruneExpired(time.Now(), 0); len(expired) != 0 {
			t.Errorf("ttl 0 must prune nothing, pruned %d", len(expired))
		}
		if _, ok := store.Peek("r-old"); !ok {
			t.Error("registration should survive with ttl 0")
		}
	})

	t.Run("prunes only entries past the ttl", func(t *testing.T) {
		store := NewMemoryStore()
		now := time.Now()
		for i, age := range []time.Duration{time.Hour, 48 * time.Hour, 72 * time.Hour} {
			r := reg(fmt.Sprintf("r%d", i))
			r.CreatedAt = now.Add(-age)
			store.Put(r)
		}

		expired := store.PruneExpired(now, 24*time.Hour)
		if len(expired) != 2 {
			t.Fatalf("expected 2 expired registrations, got %d", len(expired))
		}
		if len(store.List()) != 1 {
			t.Errorf("expected 1 surviving registration, got %d", len(store.List()))
		}
	})
}
