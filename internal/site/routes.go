// Package site implements the generation pipeline: route discovery over the
// page-source tree, content generation per page, and emission of the result
// to disk.
package site

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/picogen/picogen/internal/page"
)

// ErrNoPages is returned when a walk over the page source tree resolves to
// zero registered pages.
var ErrNoPages = errors.New("no page definitions found")

// RouteNode is one entry in the route tree: a RouteDir mirroring a source
// directory (or a multi-page unit) or a RouteLeaf holding a page factory.
type RouteNode interface{ routeNode() }

// RouteDir maps a path segment to its subtree.
type RouteDir map[string]RouteNode

// RouteLeaf is a single page definition discovered under its source unit.
type RouteLeaf struct {
	Name string // registered page name, for diagnostics
	New  page.Factory
}

func (RouteDir) routeNode()  {}
func (RouteLeaf) routeNode() {}

// Builder walks a page-source directory tree and resolves every eligible
// source file against the page registry.
type Builder struct {
	Root     string // absolute page-source root
	Static   string // static directory base name; reserved, may not collide
	Input    string // optional single-unit filter (path with or without extension)
	Registry *page.Registry
	Log      *slog.Logger
}

// Build produces the route tree. Registry handle memoization is suspended
// for the duration of the walk and restored on every exit path.
func (b *Builder) Build() (RouteDir, error) {
	restore := b.registry().DisableMemoize()
	defer restore()

	routes := RouteDir{}
	count := 0
	if err := b.walk(b.Root, "", routes, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoPages, b.Root)
	}
	return routes, nil
}

func (b *Builder) walk(dir, rel string, current RouteDir, count *int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read page directory %s: %w", dir, err)
	}

	var files, subdirs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if strings.HasPrefix(name, ".") || name == "testdata" {
				continue
			}
			subdirs = append(subdirs, name)
		} else if eligibleSource(name) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	sort.Strings(subdirs)

	if conflicts := duplicateNames(files, subdirs); len(conflicts) > 0 {
		at := rel
		if at == "" {
			at = "."
		}
		return fmt.Errorf("file and directory names conflict: %s in %s", strings.Join(conflicts, ", "), at)
	}
	if b.Static != "" && rel == b.Static {
		return fmt.Errorf("static directory name conflict: %s", dir)
	}

	for _, name := range files {
		if b.Input != "" && !matchesInput(rel, name, b.Input) {
			continue
		}
		base := baseName(name)
		if b.Static != "" && rel == "" && base == b.Static {
			return fmt.Errorf("static directory name conflict: %s", filepath.Join(dir, name))
		}

		unit := path.Join(rel, base)
		pages := b.registry().Lookup(unit)
		*count += len(pages)
		switch len(pages) {
		case 0:
			b.logger().Warn("no page registered for source file", "path", filepath.Join(dir, name))
		case 1:
			for pageName, fn := range pages {
				current[base] = RouteLeaf{Name: pageName, New: fn}
			}
		default:
			set := RouteDir{}
			for pageName, fn := range pages {
				set[pageName] = RouteLeaf{Name: pageName, New: fn}
			}
			current[base] = set
		}
	}

	for _, name := range subdirs {
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		child := RouteDir{}
		current[name] = child
		if err := b.walk(filepath.Join(dir, name), childRel, child, count); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) registry() *page.Registry {
	if b.Registry != nil {
		return b.Registry
	}
	return page.Default()
}

func (b *Builder) logger() *slog.Logger {
	if b.Log != nil {
		return b.Log
	}
	return slog.Default()
}

// eligibleSource reports whether a file name counts as a page source unit.
// Test files and the package doc file never define routes.
func eligibleSource(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != "doc.go"
}

func baseName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// duplicateNames returns every base name claimed by both a file and a
// sibling directory, sorted.
func duplicateNames(files, dirs []string) []string {
	bases := map[string]bool{}
	for _, f := range files {
		bases[baseName(f)] = true
	}
	var conflicts []string
	for _, d := range dirs {
		if bases[d] {
			conflicts = append(conflicts, d)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

// matchesInput compares a walked file against the --input filter, extension
// insensitive and separator normalized.
func matchesInput(rel, file, input string) bool {
	got := path.Join(rel, baseName(file))

	want := strings.ReplaceAll(input, "\\", "/")
	want = strings.TrimPrefix(want, "./")
	if ext := path.Ext(want); ext != "" {
		want = strings.TrimSuffix(want, ext)
	}
	return got == want
}
