package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryKeepsOrderAndIDs(t *testing.T) {
	repo := NewHistoryRepository(10)

	first := repo.AddConversion(";1/2", `\frac{1}{2}`)
	second := repo.AddNotice("추가된 매핑: ;;스타 -> ★")

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	entries := repo.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, `\frac{1}{2}`, entries[0].Text())
	assert.Equal(t, KindNotice, entries[1].Kind)
}

func TestHistoryDropsOldestPastCapacity(t *testing.T) {
	repo := NewHistoryRepository(2)

	repo.AddConversion("a", "A")
	repo.AddConversion("b", "B")
	repo.AddConversion("c", "C")

	entries := repo.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Output)
	assert.Equal(t, "C", entries[1].Output)
	assert.Equal(t, 1, repo.GetStats().Dropped)
}

func TestHistoryLatestConversionSkipsNotices(t *testing.T) {
	repo := NewHistoryRepository(5)

	_, ok := repo.GetLatestConversion()
	assert.False(t, ok)

	repo.AddConversion("x", "X")
	repo.AddNotice("saved")

	latest, ok := repo.GetLatestConversion()
	require.True(t, ok)
	assert.Equal(t, "X", latest.Output)

	stats := repo.GetStats()
	assert.Equal(t, 1, stats.Conversions)
	assert.Equal(t, 1, stats.Notices)
}

func TestHistoryGetEntryBounds(t *testing.T) {
	repo := NewHistoryRepository(3)
	repo.AddConversion("x", "X")

	_, ok := repo.GetEntry(-1)
	assert.False(t, ok)
	_, ok = repo.GetEntry(1)
	assert.False(t, ok)

	e, ok := repo.GetEntry(0)
	require.True(t, ok)
	assert.Equal(t, "X", e.Output)

	repo.Clear()
	assert.Zero(t, repo.Len())
}
