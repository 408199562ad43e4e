package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// StorageKey is the single key under which every backend keeps the
// serialized profile.
const StorageKey = "c_quiz_profile"

// Store loads and saves the profile. A missing profile is not an error:
// Load returns New() instead.
type Store interface {
	Load(ctx context.Context) (UserProfile, error)
	Save(ctx context.Context, p UserProfile) error
}

// Resetter is implemented by stores that can discard the saved profile.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Encode serializes a profile for storage.
func Encode(p UserProfile) ([]byte, error) {
	b, err := json.Marshal(p.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return b, nil
}

// Decode parses a stored profile. Empty input yields the default profile.
func Decode(b []byte) (UserProfile, error) {
	if len(b) == 0 {
		return New(), nil
	}
	var p UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return New(), fmt.Errorf("decode profile: %w", err)
	}
	return p.Normalize(), nil
}

// MemoryStore keeps the profile in process memory. It backs tests and
// stateless runs.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Decode(m.data)
}

func (m *MemoryStore) Save(_ context.Context, p UserProfile) error {
	b, err := Encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = b
	m.saves++
	return nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
