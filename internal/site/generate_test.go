package site

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogen/picogen/internal/config"
	"github.com/picogen/picogen/internal/page"
)

func TestGenerateEndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pages", "home.go"), []byte("package pages\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "static", "style.css"), []byte("body{}"), 0o644))

	page.Register("home", "Home", func() page.Page {
		return queryPage{data: page.Record{"title": "Home"}, tpl: "<html>{{title}}</html>"}
	})

	cfg := &config.Config{
		Page:   "pages",
		Static: "static",
		Output: "dist",
		CurDir: root,
	}
	require.NoError(t, Generate(cfg, slog.New(slog.DiscardHandler)))

	html, err := os.ReadFile(filepath.Join(root, "dist", "home.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>Home</html>\n", string(html))

	css, err := os.ReadFile(filepath.Join(root, "dist", "static", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
}

func TestGenerateMissingPageDir(t *testing.T) {
	cfg := &config.Config{Page: "pages", Output: "dist", CurDir: t.TempDir()}
	err := Generate(cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page directory does not exist")
}
