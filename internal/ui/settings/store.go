// Package settings persists the UI preference record to per-device storage.
package settings

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Its-donkey/apex/internal/ui/catalog"
	"github.com/Its-donkey/apex/internal/ui/model"
)

// StorageKey is the key the record is stored under.
const StorageKey = "apex.settings"

// Storage is a string key-value store such as the browser's localStorage.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
}

// Store loads and saves the settings record.
type Store struct {
	storage Storage
}

// New creates a store backed by storage.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load returns the stored record merged over the defaults. Unreadable values
// never surface as errors: anything that is not a JSON object yields the
// defaults, and any field that is missing, mistyped or outside its
// enumeration takes its default.
func (s *Store) Load() model.Settings {
	settings := model.DefaultSettings()
	raw, ok := s.storage.GetItem(StorageKey)
	if !ok {
		return settings
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return settings
	}

	if v, ok := fields["theme"]; ok {
		var theme model.Theme
		if json.Unmarshal(v, &theme) == nil && catalog.IsTheme(theme) {
			settings.Theme = theme
		}
	}
	if v, ok := fields["engine"]; ok {
		var engine model.EngineKey
		if json.Unmarshal(v, &engine) == nil && catalog.IsEngine(engine) {
			settings.Engine = engine
		}
	}
	if v, ok := fields["cloaker"]; ok {
		var cloaker bool
		if json.Unmarshal(v, &cloaker) == nil {
			settings.Cloaker = cloaker
		}
	}
	return settings
}

// Save writes the full record.
func (s *Store) Save(settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Reset persists and returns the default record.
func (s *Store) Reset() (model.Settings, error) {
	settings := model.DefaultSettings()
	return settings, s.Save(settings)
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// GetItem returns the value stored under key.
func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// SetItem stores value under key.
func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
