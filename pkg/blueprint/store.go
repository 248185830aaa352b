package blueprint

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// Store is the interface for keeping blueprints.
// This interface allows for dependency injection and testing.
type Store interface {
	// List returns all blueprints, oldest first.
	List() ([]*Blueprint, error)
	// Get retrieves a blueprint by ID.
	Get(id string) (*Blueprint, error)
	// Create adds a new blueprint.
	Create(b *Blueprint) error
	// Update replaces an existing blueprint.
	Update(b *Blueprint) error
	// Delete removes a blueprint by ID.
	Delete(id string) error
}

func sortBlueprints(list []*Blueprint) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// -----------------------------------------------------------------------------
// In-Memory Store
// -----------------------------------------------------------------------------

// MemoryStore is an in-memory implementation of Store. Blueprints are copied
// on the way in and out.
type MemoryStore struct {
	blueprints map[string]*Blueprint
	mu         sync.RWMutex
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blueprints: make(map[string]*Blueprint),
	}
}

// List returns all blueprints in the store.
func (s *MemoryStore) List() ([]*Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Blueprint, 0, len(s.blueprints))
	for _, b := range s.blueprints {
		list = append(list, b.Clone())
	}
	sortBlueprints(list)
	return list, nil
}

// Get retrieves a blueprint by ID.
func (s *MemoryStore) Get(id string) (*Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blueprints[id]
	if !ok {
		return nil, berrors.BlueprintNotFound(id)
	}
	return b.Clone(), nil
}

// Create adds a new blueprint to the store.
func (s *MemoryStore) Create(b *Blueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blueprints[b.ID]; exists {
		return berrors.Validation(berrors.ErrBlueprintExists, "blueprint already exists").
			WithContext("id", b.ID)
	}
	s.blueprints[b.ID] = b.Clone()
	return nil
}

// Update replaces an existing blueprint in the store.
func (s *MemoryStore) Update(b *Blueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blueprints[b.ID]; !exists {
		return berrors.BlueprintNotFound(b.ID)
	}
	s.blueprints[b.ID] = b.Clone()
	return nil
}

// Delete removes a blueprint from the store.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blueprints[id]; !exists {
		return berrors.BlueprintNotFound(id)
	}
	delete(s.blueprints, id)
	return nil
}

// -----------------------------------------------------------------------------
// File Store
// -----------------------------------------------------------------------------

// FileStore keeps one JSON document per blueprint in a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create store directory").
			WithContext("path", dir)
	}
	return &FileStore{dir: dir}, nil
}

// path maps an ID to its file. IDs that could escape the directory map to
// no file.
func (s *FileStore) path(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", false
	}
	return filepath.Join(s.dir, id+".json"), true
}

func (s *FileStore) exists(id string) bool {
	p, ok := s.path(id)
	if !ok {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// List returns all blueprints in the directory. Unreadable files are skipped.
func (s *FileStore) List() ([]*Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to list store directory")
	}

	list := make([]*Blueprint, 0, len(matches))
	for _, p := range matches {
		b, err := s.read(p)
		if err != nil {
			log.Printf("[store] skipping %s: %v", filepath.Base(p), err)
			continue
		}
		list = append(list, b)
	}
	sortBlueprints(list)
	return list, nil
}

// Get retrieves a blueprint by ID.
func (s *FileStore) Get(id string) (*Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.path(id)
	if !ok {
		return nil, berrors.BlueprintNotFound(id)
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return nil, berrors.BlueprintNotFound(id)
	}
	return s.read(p)
}

// Create writes a new blueprint.
func (s *FileStore) Create(b *Blueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.path(b.ID); !ok {
		return berrors.Validationf(berrors.ErrValidationInvalid, "invalid blueprint id %q", b.ID)
	}
	if s.exists(b.ID) {
		return berrors.Validation(berrors.ErrBlueprintExists, "blueprint already exists").
			WithContext("id", b.ID)
	}
	return s.write(b)
}

// Update overwrites an existing blueprint.
func (s *FileStore) Update(b *Blueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(b.ID) {
		return berrors.BlueprintNotFound(b.ID)
	}
	return s.write(b)
}

// Delete removes a blueprint file.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(id) {
		return berrors.BlueprintNotFound(id)
	}
	p, _ := s.path(id)
	if err := os.Remove(p); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to delete blueprint").
			WithContext("id", id)
	}
	return nil
}

func (s *FileStore) read(p string) (*Blueprint, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to read blueprint").
			WithContext("path", p)
	}
	var b Blueprint
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIODecodeFailed, "failed to decode blueprint").
			WithContext("path", p)
	}
	return &b, nil
}

// write replaces the blueprint file atomically via a temp file and rename.
func (s *FileStore) write(b *Blueprint) error {
	p, _ := s.path(b.ID)

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to encode blueprint")
	}

	tmp, err := os.CreateTemp(s.dir, ".blueprint-*.tmp")
	if err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create temp file").
			WithContext("path", s.dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to write blueprint")
	}
	if err := tmp.Close(); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to write blueprint")
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to replace blueprint").
			WithContext("path", p)
	}
	return nil
}
