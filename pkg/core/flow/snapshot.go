package flow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// SnapshotVersion is the schema version of the durable record. Bump it when
// the snapshot shape changes; stale records are discarded on load, never
// migrated.
const SnapshotVersion = 1

// ErrNotFound is returned by a Store when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Store is the durable key/value interface the snapshot adapter writes to.
// Implementations may be Redis-backed, file-based or in-memory.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Del(ctx context.Context, key string) error
}

// Snapshot is the resumable subset of the navigation context.
type Snapshot struct {
	Version            int     `json:"version"`
	CurrentSectionIdx  int     `json:"current_section_idx"`
	CurrentQuestionIdx int     `json:"current_question_idx"`
	Answers            Answers `json:"answers"`
}

// Snapshots persists the machine's resumable state under one fixed key.
// Every operation is best-effort: a storage failure is logged and swallowed,
// since losing resumability is non-fatal for the session in progress.
type Snapshots struct {
	store Store
	key   string
}

// NewSnapshots creates an adapter writing to the given store under key.
func NewSnapshots(store Store, key string) *Snapshots {
	return &Snapshots{store: store, key: key}
}

// Save writes the resumable fields of the context as a single versioned
// record.
func (s *Snapshots) Save(ctx context.Context, c Context) {
	data, err := json.Marshal(Snapshot{
		Version:            SnapshotVersion,
		CurrentSectionIdx:  c.CurrentSectionIdx,
		CurrentQuestionIdx: c.CurrentQuestionIdx,
		Answers:            c.Answers,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to marshal snapshot", slog.Any("error", err))
		return
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		slog.WarnContext(ctx, "failed to save snapshot", slog.Any("error", err))
	}
}

// Load reads the record back. It returns false when there is no record, the
// record cannot be decoded, or its version does not match the current schema.
func (s *Snapshots) Load(ctx context.Context) (Snapshot, bool) {
	data, err := s.store.Get(ctx, s.key)

	switch {
	case errors.Is(err, ErrNotFound):
		return Snapshot{}, false
	case err != nil:
		slog.WarnContext(ctx, "failed to load snapshot", slog.Any("error", err))
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.WarnContext(ctx, "failed to decode snapshot", slog.Any("error", err))
		return Snapshot{}, false
	}

	if snap.Version != SnapshotVersion {
		slog.InfoContext(ctx, "discarding snapshot with stale version",
			slog.Int("version", snap.Version),
			slog.Int("want", SnapshotVersion),
		)

		return Snapshot{}, false
	}

	return snap, true
}

// Clear removes the record. Invoked on completion and available for explicit
// reset.
func (s *Snapshots) Clear(ctx context.Context) {
	if err := s.store.Del(ctx, s.key); err != nil {
		slog.WarnContext(ctx, "failed to clear snapshot", slog.Any("error", err))
	}
}
