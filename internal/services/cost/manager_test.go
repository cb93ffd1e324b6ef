package cost

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestManager(t *testing.T, now time.Time) *Manager {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestNewManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")

	m, err := NewManager(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.json"), m.historyPath)
	assert.DirExists(t, dir)
}

func TestManager_SaveAndLoadActivity(t *testing.T) {
	// Arrange
	m := setupTestManager(t, time.Now())
	record := ActivityRecord{
		Timestamp:    time.Now(),
		Command:      "generate",
		Provider:     "groq",
		Model:        "llama-3.3-70b-versatile",
		TokensInput:  1000,
		TokensOutput: 500,
		CostUSD:      0.001,
	}

	// Act
	err := m.SaveActivity(record)

	// Assert
	require.NoError(t, err)
	history, err := m.GetHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "groq", history[0].Provider)
	assert.Equal(t, 500, history[0].TokensOutput)
}

func TestManager_Summaries(t *testing.T) {
	// Arrange
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	m := setupTestManager(t, now)
	records := []ActivityRecord{
		{Timestamp: now, TokensInput: 100, TokensOutput: 50, CostUSD: 0.5},
		{Timestamp: now.Add(-time.Hour), CacheHit: true},
		{Timestamp: now.AddDate(0, 0, -3), TokensInput: 10, CostUSD: 0.25},
		{Timestamp: now.AddDate(0, -1, 0), CostUSD: 9},
	}
	for _, r := range records {
		require.NoError(t, m.SaveActivity(r))
	}

	// Act
	today, err := m.Today()
	require.NoError(t, err)
	month, err := m.ThisMonth()
	require.NoError(t, err)

	// Assert
	assert.Equal(t, Summary{Generations: 2, CacheHits: 1, TokensInput: 100, TokensOutput: 50, CostUSD: 0.5}, today)
	assert.Equal(t, 3, month.Generations)
	assert.InDelta(t, 0.75, month.CostUSD, 1e-9)
}

func TestManager_ConcurrentSaves(t *testing.T) {
	m := setupTestManager(t, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.SaveActivity(ActivityRecord{Timestamp: time.Now(), Command: "batch"})
		}()
	}
	wg.Wait()

	history, err := m.GetHistory()
	require.NoError(t, err)
	assert.Len(t, history, 10)
}

func TestManager_CorruptHistory(t *testing.T) {
	m := setupTestManager(t, time.Now())
	require.NoError(t, os.WriteFile(m.historyPath, []byte("{not json"), 0644))

	_, err := m.GetHistory()

	assert.Error(t, err)
}
