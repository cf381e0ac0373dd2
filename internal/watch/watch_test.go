package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

func TestCheckForChangesInitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	changed, threshold := CheckForChanges(time.Time{}, []string{dir}, 5*time.Second, discard)
	assert.True(t, changed, "a zero threshold always reports the first scan as changed")
	assert.False(t, threshold.IsZero())
}

func TestCheckForChangesDebounce(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, threshold := CheckForChanges(time.Time{}, []string{dir}, 5*time.Second, discard)

	// Touching the file inside the debounce window stays below the
	// future-dated threshold.
	now := time.Now()
	require.NoError(t, os.Chtimes(file, now, now))
	changed, next := CheckForChanges(threshold, []string{dir}, 5*time.Second, discard)
	assert.False(t, changed)
	assert.Equal(t, threshold, next, "threshold unchanged when nothing is newer")

	// A write past the threshold triggers, and pushes the threshold out
	// another wait period.
	later := threshold.Add(time.Second)
	require.NoError(t, os.Chtimes(file, later, later))
	changed, next = CheckForChanges(threshold, []string{dir}, 5*time.Second, discard)
	assert.True(t, changed)
	assert.Equal(t, later.Add(5*time.Second).Unix(), next.Unix())
}

func TestCheckForChangesScanErrorIsNoChange(t *testing.T) {
	threshold := time.Now()
	changed, next := CheckForChanges(threshold, []string{filepath.Join(t.TempDir(), "absent")}, time.Second, discard)
	assert.False(t, changed, "scan failures are warnings, never a change signal")
	assert.Equal(t, threshold, next)
}

func TestScanDirsFindsNewest(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "sub", "fresh.txt")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(fresh), 0o755))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	newest, err := scanDirs([]string{dir})
	require.NoError(t, err)
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), newest)
}
