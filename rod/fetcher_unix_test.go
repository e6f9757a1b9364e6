//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/AndreyKolygin/jobgrab/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Close_KillsLauncherProcess(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid, "launcher PID should be set")

	// On Unix, FindProcess always succeeds, so probe with signal 0.
	err = syscall.Kill(pid, syscall.Signal(0))
	require.NoError(t, err, "launcher process should be running before Close()")

	require.NoError(t, fetcher.Close())

	time.Sleep(100 * time.Millisecond)

	err = syscall.Kill(pid, syscall.Signal(0))
	assert.Error(t, err, "launcher process should be terminated after Close()")
}
