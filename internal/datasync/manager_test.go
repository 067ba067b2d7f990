package datasync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ForViewerRequiresIdentity(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, store, store)

	_, err := manager.ForViewer("")
	assert.ErrorIs(t, err, ErrNoViewer)
}

func TestManager_ForViewerLoadsOnFirstUse(t *testing.T) {
	store := newFakeStore(song(1, 1, "a", 5, 0))
	manager := NewManager(store, store, store)

	lib, err := manager.ForViewer(testViewer)
	require.NoError(t, err)

	snap := lib.Snapshot()
	assert.Len(t, snap.Songs, 1)

	again, err := manager.ForViewer(testViewer)
	require.NoError(t, err)
	assert.Same(t, lib, again, "one library per viewer")
}

func TestManager_ReleaseFlushesSessionAndDropsState(t *testing.T) {
	store := newFakeStore(song(1, 1, "a", 5, 0))
	manager := NewManager(store, store, store)

	lib, err := manager.ForViewer(testViewer)
	require.NoError(t, err)

	clock := &fakeClock{current: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	lib.now = clock.now
	require.NoError(t, lib.RecordListeningStart("1"))
	clock.advance(2 * time.Minute)

	manager.Release(testViewer)

	require.Len(t, store.accumulated, 1)
	assert.Equal(t, 2.0, store.accumulated[0].minutes)

	fresh, err := manager.ForViewer(testViewer)
	require.NoError(t, err)
	assert.NotSame(t, lib, fresh, "sign-out discards the old library")
}
