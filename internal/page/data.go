package page

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// RecordsFromYAML loads a list of records from a YAML file. The document
// must be a sequence of flat mappings.
func RecordsFromYAML(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	var records []Record
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return records, nil
}

// RecordsFromJSON loads a list of records from a JSON file holding an array
// of objects.
func RecordsFromJSON(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return records, nil
}

// RecordsFromMarkdownDir loads every .md file directly under dir as one
// record: the frontmatter fields, plus "body" (the raw Markdown after the
// frontmatter), "slug" (the file base name) and "title" (derived from the
// slug when the frontmatter supplies none). Files are ordered by name so the
// result is stable.
func RecordsFromMarkdownDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		full := filepath.Join(dir, name)
		f, err := os.Open(full)
		if err != nil {
			return nil, fmt.Errorf("open content file %s: %w", full, err)
		}
		fields := map[string]any{}
		body, err := frontmatter.Parse(f, &fields)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse frontmatter in %s: %w", full, err)
		}

		rec := Record{}
		for k, v := range fields {
			rec[k] = v
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))
		if _, ok := rec["slug"]; !ok {
			rec["slug"] = slug
		}
		if _, ok := rec["title"]; !ok {
			rec["title"] = TitleFromSlug(slug)
		}
		rec["body"] = string(body)
		records = append(records, rec)
	}
	return records, nil
}

var titleCaser = cases.Title(language.English)

// TitleFromSlug turns a file base name like "getting-started" into a
// readable title ("Getting Started").
func TitleFromSlug(slug string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return titleCaser.String(spaced)
}
