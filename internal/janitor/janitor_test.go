package janitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls  int
	maxAge time.Duration
	err    error
}

func (f *fakeSweeper) Sweep(maxAge time.Duration) error {
	f.calls++
	f.maxAge = maxAge
	return f.err
}

func TestSweepPassesMaxAge(t *testing.T) {
	sw := &fakeSweeper{}
	j, err := New(sw, time.Minute, 2*time.Hour)
	require.NoError(t, err)

	j.sweep()

	assert.Equal(t, 1, sw.calls)
	assert.Equal(t, 2*time.Hour, sw.maxAge)
}

func TestSweepLogsErrorWithoutPanic(t *testing.T) {
	sw := &fakeSweeper{err: errors.New("disk gone")}
	j, err := New(sw, time.Minute, time.Hour)
	require.NoError(t, err)

	assert.NotPanics(t, func() { j.sweep() })
}

func TestStartStop(t *testing.T) {
	sw := &fakeSweeper{}
	j, err := New(sw, time.Hour, time.Hour)
	require.NoError(t, err)

	require.NoError(t, j.Start())
	require.NoError(t, j.Stop())
}
