package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	f := pid.New(t.TempDir())

	require.NoError(t, f.Write())
	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// The file now names this live process
	err = f.Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))

	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Remove(), "removing a missing file is not an error")
}

func TestWriteReplacesStaleFile(t *testing.T) {
	dir := t.TempDir()
	f := pid.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overtake.pid"), []byte("0\n"), 0o600))

	require.NoError(t, f.Write())
}

func TestWriteRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	f := pid.New(dir)
	require.NoError(t, os.WriteFile(f.Path(), []byte("not a pid"), 0o600))

	err := f.Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInternal))
}

func TestDefaultDirectory(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "overtake.pid"), pid.New("").Path())
}
