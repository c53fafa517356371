package flow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	data map[string][]byte
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}

	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	return data, nil
}

func (m *memStore) Set(_ context.Context, key string, data []byte) error {
	if m.err != nil {
		return m.err
	}

	m.data[key] = data

	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}

	delete(m.data, key)

	return nil
}

func TestSnapshots_RoundTrip(t *testing.T) {
	store := newMemStore()
	snapshots := NewSnapshots(store, "session:42")

	c := NewContext(demoSurvey())
	c.CurrentSectionIdx = 2
	c.CurrentQuestionIdx = 1
	c.Answers = Answers{"screening-q-0": 1}

	snapshots.Save(context.Background(), c)

	snap, ok := snapshots.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, 2, snap.CurrentSectionIdx)
	assert.Equal(t, 1, snap.CurrentQuestionIdx)
	assert.Equal(t, float64(1), snap.Answers["screening-q-0"])
}

func TestSnapshots_VersionMismatchDiscarded(t *testing.T) {
	store := newMemStore()
	snapshots := NewSnapshots(store, "session:42")

	stale, err := json.Marshal(Snapshot{
		Version:           SnapshotVersion + 1,
		CurrentSectionIdx: 1,
		Answers:           Answers{},
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "session:42", stale))

	_, ok := snapshots.Load(context.Background())
	assert.False(t, ok)
}

func TestSnapshots_MissingRecord(t *testing.T) {
	snapshots := NewSnapshots(newMemStore(), "session:42")

	_, ok := snapshots.Load(context.Background())
	assert.False(t, ok)
}

func TestSnapshots_CorruptRecordDiscarded(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "session:42", []byte("{not json")))

	snapshots := NewSnapshots(store, "session:42")

	_, ok := snapshots.Load(context.Background())
	assert.False(t, ok)
}

func TestSnapshots_StorageFailureSwallowed(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("storage down")

	snapshots := NewSnapshots(store, "session:42")

	// None of these may panic or surface the error.
	snapshots.Save(context.Background(), NewContext(demoSurvey()))
	snapshots.Clear(context.Background())

	_, ok := snapshots.Load(context.Background())
	assert.False(t, ok)
}

func TestSnapshots_Clear(t *testing.T) {
	store := newMemStore()
	snapshots := NewSnapshots(store, "session:42")

	snapshots.Save(context.Background(), NewContext(demoSurvey()))
	require.Contains(t, store.data, "session:42")

	snapshots.Clear(context.Background())
	assert.NotContains(t, store.data, "session:42")
}
