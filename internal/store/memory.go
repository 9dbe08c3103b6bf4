package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// memoryStore keeps artifacts in a mutex-guarded map. It is the default
// backend and carries the full lifecycle semantics; consistency is
// maintained purely through synchronization on the name-keyed map.
type memoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory creates an empty in-memory artifact store.
func NewMemory() Store {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Put(_ context.Context, name string, data []byte) error {
	// Copy so later caller mutations cannot reach the stored blob.
	blob := make([]byte, len(data))
	copy(blob, data)

	s.mu.Lock()
	s.blobs[name] = blob
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) GetOnce(_ context.Context, name string) (*Retrieval, error) {
	s.mu.Lock()
	blob, ok := s.blobs[name]
	if ok {
		// Claim: remove from visibility so a concurrent retrieval of the
		// same name observes ErrNotFound instead of a second delivery.
		delete(s.blobs, name)
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	return &Retrieval{
		Name:    name,
		Size:    int64(len(blob)),
		Content: blob,
		commit:  func(context.Context) error { return nil },
		abort: func() {
			s.mu.Lock()
			// Restore unless a newer Put took the name (last write wins).
			if _, exists := s.blobs[name]; !exists {
				s.blobs[name] = blob
			}
			s.mu.Unlock()
		},
	}, nil
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.blobs))
	for name := range s.blobs {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names, nil
}

func (s *memoryStore) ArchiveAll(ctx context.Context) (*Archive, error) {
	// Snapshot the name set at call time; artifacts put afterwards are
	// neither included nor deleted by this archive.
	names, _ := s.List(ctx)
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	blobs, included, skipped := collectBlobs(ctx, names, func(_ context.Context, name string) ([]byte, error) {
		s.mu.RLock()
		blob, ok := s.blobs[name]
		s.mu.RUnlock()
		if !ok {
			// Claimed by a concurrent retrieval since the snapshot.
			return nil, ErrNotFound
		}
		return blob, nil
	})
	if len(blobs) == 0 {
		return nil, ErrEmpty
	}

	data, err := buildZip(blobs)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Data:     data,
		Included: included,
		Skipped:  skipped,
		commit: func(context.Context) error {
			s.mu.Lock()
			for _, b := range blobs {
				// Delete only what was archived: a Put that overwrote the
				// name after the snapshot must survive the commit.
				if cur, ok := s.blobs[b.name]; ok && bytes.Equal(cur, b.data) {
					delete(s.blobs, b.name)
				}
			}
			s.mu.Unlock()
			return nil
		},
	}, nil
}

func (s *memoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	s.blobs = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	s.blobs = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}
