package entitlement

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// StateKey is the persisted record's key in the client key-value store.
const StateKey = "iching_payment_state_v1"

// KV is the client-side persistence contract. Get returns false when the key
// has never been written.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store owns the entitlement record. The persisted value is the source of
// truth: every mutation writes to the KV first and only adopts the new state
// in memory once the write succeeded, so a crash mid-mutation re-reads a
// consistent record on next load.
type Store struct {
	mu    sync.Mutex
	kv    KV
	mode  Mode
	state State
}

func NewStore(kv KV, mode Mode) *Store {
	s := &Store{kv: kv, mode: mode, state: DefaultState()}

	raw, ok := kv.Get(StateKey)
	if !ok {
		return s
	}
	var stored State
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || !stored.Valid() {
		log.Warn().Err(err).Msg("stored entitlement state unreadable, using defaults")
		return s
	}
	s.state = stored
	return s
}

// State returns a copy of the current record.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) CanUseFree() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FreeUsesRemaining > 0
}

// NeedsPayment reports whether the next divination requires a payment.
func (s *Store) NeedsPayment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.FreeUsesRemaining > 0 {
		return false
	}
	if s.mode == Unlimited {
		return !s.state.HasPaid
	}
	return true
}

// ConsumeFreeUse spends one free use. Returns false, with no mutation, when
// none remain or the new state could not be persisted.
func (s *Store) ConsumeFreeUse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FreeUsesRemaining <= 0 {
		return false
	}
	next := s.state
	next.FreeUsesRemaining--
	next.TotalUses++
	if err := s.persist(next); err != nil {
		log.Error().Err(err).Msg("failed to persist entitlement state")
		return false
	}
	s.state = next
	return true
}

// MarkPaid records one successful payment. Under Unlimited it sets the paid
// flag permanently; under PerUse the flag is meaningless per transaction and
// only the use count moves.
func (s *Store) MarkPaid() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.TotalUses++
	if s.mode == Unlimited {
		next.HasPaid = true
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) persist(next State) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return s.kv.Set(StateKey, string(raw))
}
