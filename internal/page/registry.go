package page

import (
	"path"
	"strings"
	"sync"
)

// Factory constructs a page handle.
type Factory func() Page

// Registry maps source-unit paths to the pages registered for each unit. A
// unit path is the source file's path relative to the page root, slash
// separated, without extension ("index", "blog/post"). One unit may define
// several pages, each under its own name.
//
// The registry memoizes constructed handles by default; the route builder
// disables memoization for the duration of a walk so every generation pass
// works on fresh, stateless handles.
type Registry struct {
	mu      sync.Mutex
	units   map[string]map[string]Factory
	memoize bool
	cache   map[string]Page
}

func NewRegistry() *Registry {
	return &Registry{
		units:   map[string]map[string]Factory{},
		memoize: true,
		cache:   map[string]Page{},
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that package-level Register
// feeds. The route builder falls back to it when none is supplied.
func Default() *Registry { return defaultRegistry }

// Register binds a page constructor to a source unit, typically from the
// init func of the file the unit names. Registering the same unit and name
// twice keeps the later constructor (last registration wins).
func Register(unit, name string, fn Factory) { defaultRegistry.Register(unit, name, fn) }

func (r *Registry) Register(unit, name string, fn Factory) {
	unit = normalizeUnit(unit)
	key := unit + "\x00" + name

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.units[unit] == nil {
		r.units[unit] = map[string]Factory{}
	}
	r.units[unit][name] = func() Page {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.memoize {
			return fn()
		}
		if p, ok := r.cache[key]; ok {
			return p
		}
		p := fn()
		r.cache[key] = p
		return p
	}
}

// Lookup returns the pages registered for a unit, keyed by page name. The
// result is a copy; mutating it does not affect the registry.
func (r *Registry) Lookup(unit string) map[string]Factory {
	unit = normalizeUnit(unit)

	r.mu.Lock()
	defer r.mu.Unlock()
	pages := make(map[string]Factory, len(r.units[unit]))
	for name, fn := range r.units[unit] {
		pages[name] = fn
	}
	return pages
}

// DisableMemoize turns off handle caching until the returned restore func
// runs. Callers must pair the two (defer restore()) so the previous setting
// is reinstated on every exit path, error or not.
func (r *Registry) DisableMemoize() (restore func()) {
	r.mu.Lock()
	prev := r.memoize
	r.memoize = false
	r.cache = map[string]Page{}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.memoize = prev
		r.mu.Unlock()
	}
}

func normalizeUnit(unit string) string {
	unit = strings.ReplaceAll(unit, "\\", "/")
	unit = strings.TrimPrefix(unit, "./")
	if ext := path.Ext(unit); ext != "" {
		unit = strings.TrimSuffix(unit, ext)
	}
	return strings.Trim(unit, "/")
}
