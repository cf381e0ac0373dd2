package site

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/picogen/picogen/internal/config"
)

// WriteTree mirrors a content tree onto the directory rooted at dir. Pages
// become <key>.html files, non-empty subtrees become subdirectories. Empty
// subtrees are skipped so no empty directories appear in the output.
func WriteTree(dir string, content ContentDir) error {
	for key, node := range content {
		switch n := node.(type) {
		case ContentDir:
			if len(n) == 0 {
				continue
			}
			sub := filepath.Join(dir, key)
			if err := os.MkdirAll(sub, os.ModePerm); err != nil {
				return fmt.Errorf("create output directory %s: %w", sub, err)
			}
			if err := WriteTree(sub, n); err != nil {
				return err
			}
		case ContentPage:
			target := filepath.Join(dir, key+".html")
			if err := os.WriteFile(target, []byte(n), 0o644); err != nil {
				return fmt.Errorf("write output file %s: %w", target, err)
			}
		}
	}
	return nil
}

// CopyStatic copies the static asset tree verbatim into dst.
func CopyStatic(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, os.ModePerm); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// ClearOutput deletes the output tree. Missing trees are fine.
func ClearOutput(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove output directory %s: %w", path, err)
	}
	return nil
}

// BuildContent runs route discovery and content generation for the
// configured page root, returning the in-memory content tree.
func BuildContent(cfg *config.Config, log *slog.Logger) (ContentDir, error) {
	pageRoot := cfg.PagePath()
	if st, err := os.Stat(pageRoot); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("page directory does not exist: %s", pageRoot)
	}

	b := &Builder{
		Root:   pageRoot,
		Static: cfg.Static,
		Input:  cfg.Input,
		Log:    log,
	}
	routes, err := b.Build()
	if err != nil {
		return nil, err
	}
	return Traverse(routes)
}

// Generate runs one full build pass: route discovery, content generation,
// file emission and the static-asset copy.
func Generate(cfg *config.Config, log *slog.Logger) error {
	content, err := BuildContent(cfg, log)
	if err != nil {
		return err
	}

	out := cfg.OutputPath()
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("create output directory %s: %w", out, err)
	}
	if err := WriteTree(out, content); err != nil {
		return err
	}

	static := cfg.StaticPath()
	if st, err := os.Stat(static); err == nil && st.IsDir() {
		if err := CopyStatic(static, filepath.Join(out, cfg.Static)); err != nil {
			return fmt.Errorf("copy static assets: %w", err)
		}
	}
	return nil
}
