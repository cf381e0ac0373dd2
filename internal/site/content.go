package site

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/picogen/picogen/internal/page"
	"github.com/picogen/picogen/internal/render"
)

// ErrQueryShape flags a Query return value that is neither a record, a list
// of records, nor a Result wrapping one of those.
var ErrQueryShape = errors.New("query must return a record or a list of records")

// ContentNode is one entry of the generated content tree: a ContentDir or a
// final ContentPage HTML string.
type ContentNode interface{ contentNode() }

// ContentDir maps a path segment (or slug) to its generated subtree.
type ContentDir map[string]ContentNode

// ContentPage is one rendered HTML document.
type ContentPage string

func (ContentDir) contentNode()  {}
func (ContentPage) contentNode() {}

// Traverse walks the route tree, instantiates every page leaf and renders
// its content. The result mirrors the route tree; entries whose pages
// produced no output are omitted.
func Traverse(routes RouteDir) (ContentDir, error) {
	return traverse(routes, "")
}

func traverse(routes RouteDir, at string) (ContentDir, error) {
	result := ContentDir{}
	for key, node := range routes {
		childPath := at + "/" + key
		switch n := node.(type) {
		case RouteDir:
			sub, err := traverse(n, childPath)
			if err != nil {
				return nil, err
			}
			result[key] = sub
		case RouteLeaf:
			content, err := createContent(n.New(), childPath)
			if err != nil {
				return nil, err
			}
			if content != nil {
				result[key] = content
			}
		}
	}
	return result, nil
}

// createContent runs one page definition: query, render each record, collect
// the non-empty results. A single-record query unwraps to a bare page; a
// multi-record query keys each page by the slug field when present, else by
// the record's 1-based ordinal. Returns nil when the page produced nothing.
func createContent(p page.Page, at string) (ContentNode, error) {
	data, err := p.Query()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", at, err)
	}

	slugKey := ""
	if res, ok := data.(page.Result); ok {
		data = res.Data
		slugKey = res.SlugKey
	}

	var records []page.Record
	single := false
	switch d := data.(type) {
	case page.Record:
		records = []page.Record{d}
		slugKey = ""
		single = true
	case map[string]any:
		records = []page.Record{page.Record(d)}
		slugKey = ""
		single = true
	case []page.Record:
		if len(d) == 0 {
			return nil, nil
		}
		records = d
	case []any:
		if len(d) == 0 {
			return nil, nil
		}
		for _, el := range d {
			switch rec := el.(type) {
			case page.Record:
				records = append(records, rec)
			case map[string]any:
				records = append(records, page.Record(rec))
			default:
				return nil, fmt.Errorf("page %s: %w", at, ErrQueryShape)
			}
		}
	default:
		return nil, fmt.Errorf("page %s: %w", at, ErrQueryShape)
	}

	result := ContentDir{}
	for i, rec := range records {
		key := strconv.Itoa(i + 1)
		if slugKey != "" {
			if v, ok := rec[slugKey]; ok {
				key = render.Stringify(v)
			}
		}

		tpl, err := p.Template()
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", at, err)
		}
		rendered, err := p.Render(tpl, rec)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", at, err)
		}
		html, err := p.Translate(strings.TrimSpace(rendered) + "\n")
		if err != nil {
			return nil, fmt.Errorf("translate %s: %w", at, err)
		}
		if html != "" {
			result[key] = ContentPage(html)
		}
	}

	if len(result) == 0 {
		return nil, nil
	}
	if single {
		return result["1"], nil
	}
	return result, nil
}
