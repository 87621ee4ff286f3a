package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	runs   atomic.Int32
	dryRun atomic.Bool
}

func (c *countingProcessor) ProcessMatches(dryRun bool) {
	c.dryRun.Store(dryRun)
	c.runs.Add(1)
}

func TestRegisterMatchProcessing(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)

	proc := &countingProcessor{}
	job, err := RegisterMatchProcessing(svc, proc, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "process_matches", job.Name())

	svc.Start()
	require.Eventually(t, func() bool { return proc.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, svc.Stop())
	assert.False(t, proc.dryRun.Load())

	// Stop is idempotent.
	assert.NoError(t, svc.Stop())
}

func TestEvery_Validation(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)
	defer svc.Stop()

	_, err = svc.Every("  ", time.Second, func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = svc.Every("job", 0, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
