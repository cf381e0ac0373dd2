package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigModeInvalidMode(t *testing.T) {
	err := runConfigMode(`{"mode":"bogus"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestRunConfigModeBadJSON(t *testing.T) {
	err := runConfigMode(`{not json`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config json")
}

func TestRunConfigModeCls(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(out, 0o755))

	blob := fmt.Sprintf(`{"mode":"cls","curdir":%q}`, root)
	require.NoError(t, runConfigMode(blob))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
