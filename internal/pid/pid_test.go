package pid

import (
	"os"
	"strconv"
	"testing"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	require.NoError(t, Write())

	data, err := os.ReadFile(Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// Rewriting our own PID is allowed.
	require.NoError(t, Write())

	require.NoError(t, Remove())
	assert.NoFileExists(t, Path())
	require.NoError(t, Remove())
}

func TestWriteAlreadyRunning(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	// The parent process (the test runner) is alive.
	require.NoError(t, os.WriteFile(Path(), []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))

	// Someone else's file is left alone.
	require.NoError(t, Remove())
	assert.FileExists(t, Path())
}

func TestWriteReplacesGarbage(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	require.NoError(t, os.WriteFile(Path(), []byte("not a pid"), 0o600))

	require.NoError(t, Write())

	pid, err := readPID(Path())
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}
