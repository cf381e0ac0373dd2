// Package page defines the page-definition contract of the generator: a page
// fetches data records, supplies a template string and renders each record to
// HTML. Concrete pages register themselves under the path of the source file
// that defines them, and the route builder resolves the page tree from those
// registrations.
package page

import (
	"github.com/picogen/picogen/internal/render"
)

// Record is one flat data record handed to templating. Values must be
// JSON-serializable scalars (or at least have a sensible textual form).
type Record map[string]any

// Result pairs query data with the record field used to name each output
// file when the query yields multiple records. Return it from Query to pick
// a slug field; records missing the field fall back to their 1-based ordinal.
type Result struct {
	Data    any
	SlugKey string
}

// Page is one page definition. Query may return a Record (single page), a
// []Record (one output per record) or a Result wrapping either. A handle is
// constructed once per generation pass and discarded afterwards; it must not
// hold state across passes.
type Page interface {
	Query() (any, error)
	Template() (string, error)
	Render(tpl string, data Record) (string, error)
	Translate(src string) (string, error)
}

// Base supplies the default page behaviors: an empty single record, template
// substitution for Render and a passthrough Translate. Embed it and implement
// Template; override Translate for post-processing such as Markdown.
type Base struct{}

func (Base) Query() (any, error) { return Record{}, nil }

func (Base) Render(tpl string, data Record) (string, error) {
	return render.Substitute(tpl, map[string]any(data)), nil
}

func (Base) Translate(src string) (string, error) { return src, nil }
