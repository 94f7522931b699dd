package timer

import (
	"encoding/json"
	"fmt"
	gosync "sync"

	"github.com/peterbourgon/diskv/v3"
)

// StateKey is the durable key the timer state lives under.
const StateKey = "timeTracking"

// DiskStore persists timer state as a JSON value in a diskv store.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore opens a flat diskv store rooted at basePath.
func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

// Load reads the saved state. An absent key returns the zero State.
func (s *DiskStore) Load() (State, error) {
	if !s.d.Has(StateKey) {
		return State{}, nil
	}
	raw, err := s.d.Read(StateKey)
	if err != nil {
		return State{}, fmt.Errorf("reading %s: %w", StateKey, err)
	}
	return decodeState(raw)
}

// Save writes the state.
func (s *DiskStore) Save(st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding timer state: %w", err)
	}
	if err := s.d.Write(StateKey, raw); err != nil {
		return fmt.Errorf("writing %s: %w", StateKey, err)
	}
	return nil
}

// MemoryStore keeps timer state in memory. It is used when no data
// directory is available and in tests.
type MemoryStore struct {
	mu  gosync.Mutex
	raw []byte
}

// Load decodes the last saved value. An empty store returns the zero State.
func (m *MemoryStore) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return State{}, nil
	}
	return decodeState(m.raw)
}

// Save encodes and keeps st.
func (m *MemoryStore) Save(st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(raw []byte) {
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
}

func decodeState(raw []byte) (State, error) {
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decoding timer state: %w", err)
	}
	return st, nil
}
