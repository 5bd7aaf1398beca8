// Package store provides collection-blob persistence for the clinic data
// layer. A Store holds named collections, each an ordered sequence of
// records serialized as JSON. It defines the Store interface, a file-backed
// implementation, and an in-memory implementation suitable for testing.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection names used by the clinic repositories.
const (
	Patients     = "patients"
	Doctors      = "doctors"
	Appointments = "appointments"
	Bills        = "bills"
	Users        = "users"
	Reports      = "reports"
)

// AllCollections lists every collection the system persists.
var AllCollections = []string{Patients, Doctors, Appointments, Bills, Users, Reports}

// Store is the contract for collection persistence. Load unmarshals the
// named collection into out (a pointer to a slice); a missing or corrupt
// collection yields an empty sequence and no error. Save overwrites the
// entire collection in a single blocking write.
type Store interface {
	Load(collection string, out interface{}) error
	Save(collection string, in interface{}) error
}

// ---------------------------------------------------------------------------
// File-backed implementation
// ---------------------------------------------------------------------------

// FileStore persists each collection as a JSON file under a data directory.
// Writes go through a temp file and rename, so readers in the same process
// never observe a partial collection. Writers in other processes are not
// coordinated; the last writer wins.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads the named collection into out. Absent files and unparsable
// content both degrade to an empty sequence by contract.
func (s *FileStore) Load(collection string, out interface{}) error {
	s.mu.Lock()
	data, err := os.ReadFile(s.path(collection))
	s.mu.Unlock()
	if err != nil || len(data) == 0 {
		return json.Unmarshal([]byte("[]"), out)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

// Save overwrites the named collection with in.
func (s *FileStore) Save(collection string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("save %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("save %s: %w", collection, err)
	}
	if err := os.Rename(name, s.path(collection)); err != nil {
		os.Remove(name)
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

// Reset removes every known collection file. Used by the reset command.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range AllCollections {
		if err := os.Remove(s.path(c)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reset %s: %w", c, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// MemStore is a thread-safe, in-memory Store for tests.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore returns a ready-to-use MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Load(collection string, out interface{}) error {
	s.mu.RLock()
	data, ok := s.data[collection]
	s.mu.RUnlock()
	if !ok || len(data) == 0 {
		return json.Unmarshal([]byte("[]"), out)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

func (s *MemStore) Save(collection string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", collection, err)
	}
	s.mu.Lock()
	s.data[collection] = data
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a collection with unparsable bytes. Test helper for
// the degrade-to-empty contract.
func (s *MemStore) Corrupt(collection string) {
	s.mu.Lock()
	s.data[collection] = []byte("{not json")
	s.mu.Unlock()
}
