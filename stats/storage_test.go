package stats

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir, nil)
	require.NoError(t, err)
	t.Cleanup(storage.Shutdown)

	t.Run("Add", func(t *testing.T) {
		storage.Add(Usage{ReportsGenerated: 1, ReportsFailed: 2, MetricsMissing: 3, ChatMessages: 4})
		stats := storage.GetCurrentStats()

		assert.Equal(t, 1, stats.ReportsGenerated)
		assert.Equal(t, 2, stats.ReportsFailed)
		assert.Equal(t, 3, stats.MetricsMissing)
		assert.Equal(t, 4, stats.ChatMessages)
		assert.False(t, stats.LastUpdated.IsZero())
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, storage.Flush())

		storage2, err := NewStorage(tempDir, nil)
		require.NoError(t, err)
		defer storage2.Shutdown()

		assert.Equal(t, 1, storage2.GetCurrentStats().ReportsGenerated)
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{ReportsGenerated: 100}
		storage.mutex.Unlock()

		storage.Cleanup(1)

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old stats should have been cleaned up")
		assert.Equal(t, []string{time.Now().Format("2006-01")}, storage.GetAllMonths())
	})

	t.Run("FileSize", func(t *testing.T) {
		require.NoError(t, storage.Flush())

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(1024))
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.GetCurrentStats()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					storage.Add(Usage{ChatMessages: 1, LlmsTxtGenerated: 1})
					storage.GetCurrentStats()
				}
			}()
		}
		wg.Wait()

		after := storage.GetCurrentStats()
		assert.Equal(t, before.ChatMessages+1000, after.ChatMessages)
		assert.Equal(t, before.LlmsTxtGenerated+1000, after.LlmsTxtGenerated)
	})
}

func TestStorage_ShutdownPersists(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir, nil)
	require.NoError(t, err)
	storage.Add(Usage{ChatFailures: 7})
	storage.Shutdown()
	storage.Shutdown()

	reloaded, err := NewStorage(tempDir, nil)
	require.NoError(t, err)
	defer reloaded.Shutdown()
	assert.Equal(t, 7, reloaded.GetCurrentStats().ChatFailures)
}
