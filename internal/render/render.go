// Package render implements the flat {{key}} placeholder substitution used
// by page templates, plus small helpers for embedding template fragments.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Substitute replaces every {{key}} or {{ key }} placeholder whose identifier
// matches a key in data with the textual form of that key's value. Keys are
// applied one at a time, in sorted order, against the current string, so a
// value introduced by an earlier key is visible to later key matching.
// Placeholders with no matching key are left verbatim.
func Substitute(src string, data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := src
	for _, k := range keys {
		pattern := regexp.MustCompile(`\{\{\s?` + regexp.QuoteMeta(k) + `\s?\}\}`)
		result = pattern.ReplaceAllLiteralString(result, Stringify(data[k]))
	}
	return result
}

// Stringify converts a record value to its template form. Integers render
// base-10, everything else takes its natural fmt representation.
func Stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Indent dedents src, trims surrounding whitespace, re-indents every line by
// n spaces and appends a trailing newline. Intended for page authors nesting
// a fragment inside an outer template.
func Indent(src string, n int) string {
	trimmed := strings.TrimSpace(Dedent(src))
	if trimmed == "" {
		return "\n"
	}
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Dedent removes the longest common leading whitespace from every non-blank
// line of src.
func Dedent(src string) string {
	lines := strings.Split(src, "\n")

	margin := ""
	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			margin = indent
			found = true
			continue
		}
		for !strings.HasPrefix(line, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	if margin == "" {
		return src
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}
