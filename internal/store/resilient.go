package store

import (
	"log/slog"
	"sync"

	"oncology-dashboard/internal/models"
)

// Resilient writes through to a durable store and keeps an in-memory copy.
// When the durable write fails the session carries on in memory for the
// rest of the process; callers never see storage errors. A durable store
// that could not be updated is emptied so an older session cannot come
// back on the next start.
type Resilient struct {
	durable Store
	memory  *MemoryStore

	mu       sync.Mutex
	inMemory bool // the in-memory copy is authoritative for this process
}

// NewResilient wraps durable. A nil durable store means memory only.
func NewResilient(durable Store) *Resilient {
	return &Resilient{durable: durable, memory: NewMemoryStore()}
}

func (r *Resilient) Save(pair models.TokenPair, identity models.Identity) error {
	if err := r.memory.Save(pair, identity); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inMemory = true
	if r.durable == nil {
		return nil
	}
	if err := r.durable.Save(pair, identity); err != nil {
		slog.Warn("session storage unavailable, keeping session in memory", "error", err)
		if err := r.durable.Clear(); err != nil {
			slog.Error("stale stored session could not be cleared", "error", err)
		}
	}
	return nil
}

func (r *Resilient) Load() (Saved, bool) {
	r.mu.Lock()
	inMemory := r.inMemory
	r.mu.Unlock()

	if inMemory || r.durable == nil {
		return r.memory.Load()
	}
	return r.durable.Load()
}

func (r *Resilient) Clear() error {
	_ = r.memory.Clear()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inMemory = true
	if r.durable == nil {
		return nil
	}
	r.forgetDurableLocked()
	return nil
}

// forgetDurableLocked removes the stored session, retrying once and then
// overwriting it with an empty token pair, which never loads.
func (r *Resilient) forgetDurableLocked() {
	err := r.durable.Clear()
	if err == nil {
		return
	}
	slog.Warn("failed to clear stored session, retrying", "error", err)
	if err = r.durable.Clear(); err == nil {
		return
	}
	if err := r.durable.Save(models.TokenPair{}, models.Identity{}); err != nil {
		slog.Error("stored session could not be removed", "error", err)
	}
}
