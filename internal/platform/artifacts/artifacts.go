// Package artifacts holds generated report files in memory. Artifacts are
// session-scoped by design: a report's metadata row survives a restart in the
// record store, but the bytes behind its locator do not, and downloads of a
// dangling locator must fail with ErrArtifactGone.
package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrArtifactGone = errors.New("artifact is no longer available")

// MaxArtifactSize caps a single stored artifact at 10 MB. Generated PDFs
// are far smaller; the cap guards the in-memory store against runaway
// generation bugs.
const MaxArtifactSize = 10 * 1024 * 1024

var ErrArtifactTooLarge = errors.New("artifact exceeds maximum allowed size")

// Artifact describes one stored file.
type Artifact struct {
	Locator     string    `json:"locator"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"createdAt"`
}

type storedArtifact struct {
	meta    Artifact
	content []byte
}

// Store is an in-memory artifact store. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]storedArtifact
}

func NewStore() *Store {
	return &Store{blobs: make(map[string]storedArtifact)}
}

// Put stores content under a fresh locator and returns the artifact metadata.
func (s *Store) Put(fileName, contentType string, content []byte) (*Artifact, error) {
	if int64(len(content)) > MaxArtifactSize {
		return nil, ErrArtifactTooLarge
	}

	sum := sha256.Sum256(content)
	meta := Artifact{
		Locator:     uuid.NewString(),
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(content)),
		Hash:        hex.EncodeToString(sum[:]),
		CreatedAt:   time.Now().UTC(),
	}

	buf := make([]byte, len(content))
	copy(buf, content)

	s.mu.Lock()
	s.blobs[meta.Locator] = storedArtifact{meta: meta, content: buf}
	s.mu.Unlock()

	return &meta, nil
}

// Get returns the content and metadata behind a locator. A locator minted
// by a previous process is indistinguishable from one that never existed,
// so both return ErrArtifactGone.
func (s *Store) Get(locator string) ([]byte, *Artifact, error) {
	s.mu.RLock()
	stored, ok := s.blobs[locator]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrArtifactGone
	}

	buf := make([]byte, len(stored.content))
	copy(buf, stored.content)
	meta := stored.meta
	return buf, &meta, nil
}

// Delete removes an artifact. Deleting an unknown locator is a no-op.
func (s *Store) Delete(locator string) {
	s.mu.Lock()
	delete(s.blobs, locator)
	s.mu.Unlock()
}

// Len reports the number of stored artifacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
