package definition

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog is an immutable, in-memory set of forms loaded from documents.
type Catalog struct {
	forms   map[string]Form
	sources map[string]string
}

// LoadFS walks fsys and parses every JSON/YAML file as a form definition.
// When fsys is nil the returned catalog is empty. Two files declaring the
// same form id are an error.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{
		forms:   make(map[string]Form),
		sources: make(map[string]string),
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}

		form, err := Parse(data, path)
		if err != nil {
			return err
		}
		if previous, exists := catalog.sources[form.ID]; exists {
			return fmt.Errorf("definition: duplicate form %q (files %s and %s)", form.ID, previous, path)
		}
		catalog.forms[form.ID] = form
		catalog.sources[form.ID] = path
		return nil
	})
	if err != nil {
		return nil, err
	}

	return catalog, nil
}

// Form returns the form with id.
func (c *Catalog) Form(id string) (Form, bool) {
	if c == nil {
		return Form{}, false
	}
	form, ok := c.forms[id]
	return form, ok
}

// Source returns the path the form was loaded from.
func (c *Catalog) Source(id string) string {
	if c == nil {
		return ""
	}
	return c.sources[id]
}

// IDs returns the form ids in lexical order.
func (c *Catalog) IDs() []string {
	if c == nil || len(c.forms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(c.forms))
	for id := range c.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many forms the catalog holds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.forms)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
