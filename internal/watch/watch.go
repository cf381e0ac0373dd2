// Package watch supervises the dev server: it polls the source trees for
// modification-time changes and restarts the managed server subprocess so a
// relaunched instance serves freshly generated content with its reload flag
// pre-armed.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/picogen/picogen/internal/config"
)

// scanDirs returns the newest file modification time under the given
// directories.
func scanDirs(dirs []string) (time.Time, error) {
	var newest time.Time
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.ModTime().After(newest) {
				newest = info.ModTime()
			}
			return nil
		})
		if err != nil {
			return time.Time{}, err
		}
	}
	return newest, nil
}

// CheckForChanges reports whether any watched file is newer than the
// threshold. On a change the returned threshold moves wait past the newest
// mtime, so the flurry of writes around one save triggers a single relaunch.
// Scan failures are logged and treated as no change for this iteration.
func CheckForChanges(threshold time.Time, dirs []string, wait time.Duration, log *slog.Logger) (bool, time.Time) {
	newest, err := scanDirs(dirs)
	if err != nil {
		log.Warn("update check warning", "error", err)
		return false, threshold
	}
	if newest.After(threshold) {
		return true, newest.Add(wait)
	}
	return false, threshold
}

// Run launches the managed dev server and relaunches it whenever the watched
// trees change. It returns when the server exits on its own or the context
// is canceled (interactive interrupt), stopping the child first.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.CurDir != "" {
		if err := os.Chdir(cfg.CurDir); err != nil {
			return fmt.Errorf("change directory: %w", err)
		}
	}

	pageDir := cfg.PagePath()
	if st, err := os.Stat(pageDir); err != nil || !st.IsDir() {
		return fmt.Errorf("page directory does not exist: %s", pageDir)
	}

	dirs := []string{pageDir}
	for _, extra := range []string{cfg.StaticPath(), cfg.LibPath()} {
		if st, err := os.Stat(extra); err == nil && st.IsDir() {
			dirs = append(dirs, extra)
		}
	}

	wait := time.Duration(cfg.Wait) * time.Second
	var threshold time.Time
	if !cfg.NoReload {
		_, threshold = CheckForChanges(time.Time{}, dirs, wait, log)
	}

	proc, err := launchServer(cfg, false)
	if err != nil {
		return err
	}

	if !cfg.NoOpen {
		url := fmt.Sprintf("http://localhost:%d/%s/", cfg.Port, cfg.Output)
		if err := OpenBrowser(url); err != nil {
			log.Warn("open browser", "url", url, "error", err)
		}
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			proc.stop()
			fmt.Println("Server stopped.")
			proc.dumpOutput()
			return nil
		case <-proc.done:
			fmt.Println("Server stopped.")
			proc.dumpOutput()
			return nil
		case <-ticker.C:
			if cfg.NoReload {
				continue
			}
			changed, next := CheckForChanges(threshold, dirs, wait, log)
			threshold = next
			if !changed {
				continue
			}
			fmt.Println("File changed. Reloading...")
			proc.stop()
			time.Sleep(time.Second)
			if proc, err = launchServer(cfg, true); err != nil {
				return err
			}
		}
	}
}
