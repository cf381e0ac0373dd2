package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogen/picogen/internal/page"
)

type queryPage struct {
	page.Base
	data any
	tpl  string
}

func (p queryPage) Query() (any, error)       { return p.data, nil }
func (p queryPage) Template() (string, error) { return p.tpl, nil }

func leafFor(p page.Page) RouteDir {
	return RouteDir{"unit": RouteLeaf{Name: "Test", New: func() page.Page { return p }}}
}

func TestTraverseSinglePage(t *testing.T) {
	routes := leafFor(queryPage{
		data: page.Record{"title": "Home"},
		tpl:  "<html>{{title}}</html>",
	})

	content, err := Traverse(routes)
	require.NoError(t, err)
	assert.Equal(t, ContentPage("<html>Home</html>\n"), content["unit"],
		"single-record mode unwraps to a bare page with a trailing newline")
}

func TestTraverseMultiRecordSlugKeys(t *testing.T) {
	routes := leafFor(queryPage{
		data: page.Result{
			Data:    []page.Record{{"id": "a"}, {"id": "b"}},
			SlugKey: "id",
		},
		tpl: "<html>{{id}}</html>",
	})

	content, err := Traverse(routes)
	require.NoError(t, err)
	pages, ok := content["unit"].(ContentDir)
	require.True(t, ok)
	assert.Contains(t, pages, "a")
	assert.Contains(t, pages, "b")
	assert.NotContains(t, pages, "1")
	assert.Equal(t, ContentPage("<html>a</html>\n"), pages["a"])
}

func TestTraverseMultiRecordOrdinalKeys(t *testing.T) {
	routes := leafFor(queryPage{
		data: []page.Record{{"t": "x"}, {"t": "y"}},
		tpl:  "<p>{{t}}</p>",
	})

	content, err := Traverse(routes)
	require.NoError(t, err)
	pages := content["unit"].(ContentDir)
	assert.Equal(t, ContentPage("<p>x</p>\n"), pages["1"])
	assert.Equal(t, ContentPage("<p>y</p>\n"), pages["2"])
}

func TestTraverseSlugFallsBackToOrdinal(t *testing.T) {
	routes := leafFor(queryPage{
		data: page.Result{
			Data:    []page.Record{{"id": "a"}, {"t": "no slug field"}},
			SlugKey: "id",
		},
		tpl: "<p>x</p>",
	})

	content, err := Traverse(routes)
	require.NoError(t, err)
	pages := content["unit"].(ContentDir)
	assert.Contains(t, pages, "a")
	assert.Contains(t, pages, "2")
}

func TestTraverseEmptyListOmitsEntry(t *testing.T) {
	routes := leafFor(queryPage{data: []page.Record{}, tpl: "<p>x</p>"})

	content, err := Traverse(routes)
	require.NoError(t, err)
	assert.NotContains(t, content, "unit")
}

func TestTraverseEmptyRendersDropped(t *testing.T) {
	routes := leafFor(trimPage{queryPage{
		data: []page.Record{{"t": ""}, {"t": "keep"}},
		tpl:  "{{t}}",
	}})

	content, err := Traverse(routes)
	require.NoError(t, err)
	pages := content["unit"].(ContentDir)
	assert.NotContains(t, pages, "1", "record whose translate result is empty is dropped")
	assert.Equal(t, ContentPage("keep"), pages["2"])
}

// trimPage is a translate override that discards whitespace-only output.
type trimPage struct {
	queryPage
}

func (trimPage) Translate(src string) (string, error) {
	return strings.TrimSpace(src), nil
}

func TestTraverseAllEmptyOmitsEntry(t *testing.T) {
	routes := leafFor(dropAllPage{})
	content, err := Traverse(routes)
	require.NoError(t, err)
	assert.NotContains(t, content, "unit")
}

// dropAllPage renders every record to an empty string via Translate.
type dropAllPage struct {
	page.Base
}

func (dropAllPage) Query() (any, error)       { return []page.Record{{"a": "1"}, {"a": "2"}}, nil }
func (dropAllPage) Template() (string, error) { return "ignored", nil }
func (dropAllPage) Translate(string) (string, error) {
	return "", nil
}

func TestTraverseBadQueryShape(t *testing.T) {
	routes := leafFor(queryPage{data: "not a record", tpl: "<p></p>"})

	_, err := Traverse(routes)
	require.ErrorIs(t, err, ErrQueryShape)
	assert.Contains(t, err.Error(), "/unit", "error names the offending page")
}

func TestTraverseBadListElement(t *testing.T) {
	routes := leafFor(queryPage{data: []any{page.Record{"ok": true}, "bad"}, tpl: "<p></p>"})

	_, err := Traverse(routes)
	assert.ErrorIs(t, err, ErrQueryShape)
}

func TestTraverseRecurses(t *testing.T) {
	routes := RouteDir{
		"blog": RouteDir{
			"post": RouteLeaf{Name: "Post", New: func() page.Page {
				return queryPage{data: page.Record{"t": "hi"}, tpl: "<p>{{t}}</p>"}
			}},
		},
	}

	content, err := Traverse(routes)
	require.NoError(t, err)
	blog := content["blog"].(ContentDir)
	assert.Equal(t, ContentPage("<p>hi</p>\n"), blog["post"])
}

func TestTraverseQueryErrorPropagates(t *testing.T) {
	routes := leafFor(errorPage{})
	_, err := Traverse(routes)
	assert.ErrorIs(t, err, assert.AnError)
}

type errorPage struct {
	page.Base
}

func (errorPage) Query() (any, error)       { return nil, assert.AnError }
func (errorPage) Template() (string, error) { return "", nil }
