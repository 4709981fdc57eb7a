package services

import (
	"context"
	"sync"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// MemoryStore keeps the serialized collection in process memory.
// It stores bytes, not structs, so it behaves like the other backends
// on round-trips and corrupt payloads.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte

	// Err, when set, is returned from every call
	Err error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Name identifies the backend
func (s *MemoryStore) Name() string { return "memory" }

// Load decodes the held value
func (s *MemoryStore) Load(ctx context.Context) ([]models.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()
	return decodeOrders(data, s.Name()), nil
}

// Save replaces the held value
func (s *MemoryStore) Save(ctx context.Context, orders []models.Order) error {
	if s.Err != nil {
		return s.Err
	}
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Clear drops the held value
func (s *MemoryStore) Clear(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// Ping always succeeds unless Err is set
func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.Err
}

// Raw returns a copy of the held bytes (for testing assertions)
func (s *MemoryStore) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// SetRaw replaces the held bytes (for testing corrupt payloads)
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}
