// Package store holds the current snapshot.
package store

import (
	"sync/atomic"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// SnapshotStore holds the latest snapshot behind an atomic pointer.
// Replace swaps in a whole new snapshot; readers that captured the previous one
// keep a valid, unchanged view of it. No locking is needed on the read path.
type SnapshotStore struct {
	current atomic.Pointer[models.Snapshot]
	version atomic.Uint64
}

// NewSnapshotStore creates an empty store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the latest snapshot, nil before the first refresh.
// Callers should capture the result once per query and reuse it.
func (s *SnapshotStore) Current() *models.Snapshot {
	return s.current.Load()
}

// Replace makes snap the current snapshot and returns the new version number
func (s *SnapshotStore) Replace(snap *models.Snapshot) uint64 {
	s.current.Store(snap)
	return s.version.Add(1)
}

// Version returns how many times the snapshot has been replaced
func (s *SnapshotStore) Version() uint64 {
	return s.version.Load()
}
