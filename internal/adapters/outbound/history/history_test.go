package history_test

import (
	"path/filepath"
	"testing"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/history"
	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	h := history.New(t.TempDir())

	entry := domain.HistoryEntry{
		Timestamp:     "2026-08-25T10:00:00Z",
		DroneSlug:     "shredder",
		CommitHash:    "abc1234",
		CriticalCount: 1,
		WarningCount:  2,
		SafeToFly:     false,
	}

	require.NoError(t, h.Save(entry))

	entries, err := h.Load("shredder")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].CriticalCount)
	assert.Equal(t, "abc1234", entries[0].CommitHash)
	assert.NotEmpty(t, entries[0].ID, "an ID is assigned on save")
}

func TestHistory_FiltersBySlug(t *testing.T) {
	h := history.New(t.TempDir())

	require.NoError(t, h.Save(domain.HistoryEntry{Timestamp: "t1", DroneSlug: "shredder", SafeToFly: true}))
	require.NoError(t, h.Save(domain.HistoryEntry{Timestamp: "t2", DroneSlug: "whoop", SafeToFly: false}))
	require.NoError(t, h.Save(domain.HistoryEntry{Timestamp: "t3", DroneSlug: "shredder", SafeToFly: false}))

	entries, err := h.Load("shredder")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "t1", entries[0].Timestamp)
	assert.Equal(t, "t3", entries[1].Timestamp)

	all, err := h.Load("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistory_LoadEmpty(t *testing.T) {
	h := history.New(t.TempDir())
	entries, err := h.Load("shredder")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "deep", "nested")
	h := history.New(nested)

	require.NoError(t, h.Save(domain.HistoryEntry{Timestamp: "t1", DroneSlug: "shredder"}))

	entries, err := h.Load("shredder")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
