package services

import (
	"testing"
	"time"

	"event-wall-backend/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls   int
	maxIdle time.Duration
}

func (c *countingCleaner) Cleanup(maxIdle time.Duration) int {
	c.calls++
	c.maxIdle = maxIdle
	return 2
}

func TestMaintenanceCron_scheduleInvalide(t *testing.T) {
	mc := NewMaintenanceCron(database.NewMemoryStore(), nil, nil, "pas un cron")
	assert.Error(t, mc.Start())
}

func TestMaintenanceCron_StartStop(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	mc := NewMaintenanceCron(database.NewMemoryStore(), NewThumbnailGenerator(s), &countingCleaner{}, "@every 1h")
	require.NoError(t, mc.Start())
	assert.Len(t, mc.cron.Entries(), 2)

	select {
	case <-mc.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("Stop() n'a pas rendu la main")
	}
}

func TestMaintenanceCron_cleanupLimiter(t *testing.T) {
	cleaner := &countingCleaner{}
	mc := NewMaintenanceCron(database.NewMemoryStore(), nil, cleaner, "")

	mc.cleanupLimiter()
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, limiterMaxIdle, cleaner.maxIdle)
}
