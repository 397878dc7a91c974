// Package store persists client-local preferences.
//
// Preferences live in a small JSON document under the data directory and are
// read and written as string key/value pairs, one file shared by every
// carlogos process of the user.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// ErrEmptyKey is returned when setting a preference without a key.
var ErrEmptyKey = errors.New("preference key cannot be empty")

// State is the persisted document.
type State struct {
	Preferences   map[string]string `json:"preferences"`
	UpdatedAt     int64             `json:"updated_at,omitempty"`
	SchemaVersion int               `json:"schema_version"`
}

// DefaultState returns an empty state.
func DefaultState() *State {
	return &State{
		Preferences:   make(map[string]string),
		SchemaVersion: CurrentSchemaVersion,
	}
}

// StateFile reads and writes the state document at a fixed path.
type StateFile struct {
	mu   sync.RWMutex
	path string
}

// NewStateFile creates a StateFile for path. Nothing is read or created
// until the first Load or Save.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the file path.
func (f *StateFile) Path() string {
	return f.path
}

// Load reads the state from disk.
// A missing file yields the default state. A corrupted file also yields the
// default state, since preferences are never worth failing over.
func (f *StateFile) Load() (*State, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.load()
}

func (f *StateFile) load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultState(), nil
	}

	if state.Preferences == nil {
		state.Preferences = make(map[string]string)
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	return &state, nil
}

// Save writes the state to disk atomically via a temp file.
func (f *StateFile) Save(state *State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(state)
}

func (f *StateFile) save(state *State) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	state.UpdatedAt = time.Now().Unix()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, f.path)
}

// Get returns the stored value for key.
// Unreadable storage is reported as absent.
func (f *StateFile) Get(key string) (string, bool) {
	state, err := f.Load()
	if err != nil {
		return "", false
	}
	v, ok := state.Preferences[key]
	return v, ok
}

// Set stores value under key, keeping all other preferences.
func (f *StateFile) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		state = DefaultState()
	}
	state.Preferences[key] = value
	return f.save(state)
}

// Delete removes key. Deleting an absent key is not an error.
func (f *StateFile) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := state.Preferences[key]; !ok {
		return nil
	}
	delete(state.Preferences, key)
	return f.save(state)
}
