package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryType names a category the remote market is seeded with.
type CategoryType struct {
	Name  string `json:"name" yaml:"name"`
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

const (
	CategoryFood       = "food"
	CategoryElectronic = "electronic"
)

var (
	Food       = CategoryType{Name: CategoryFood, ID: 1, Title: "Food"}
	Electronic = CategoryType{Name: CategoryElectronic, ID: 2, Title: "Electronic"}
)

// Catalog indexes known categories by name.
type Catalog struct {
	byName map[string]CategoryType
}

type catalogFile struct {
	Categories []CategoryType `json:"categories" yaml:"categories"`
}

// DefaultCatalog returns the categories the market ships with.
func DefaultCatalog() *Catalog {
	c, _ := newCatalog([]CategoryType{Food, Electronic})
	return c
}

// LoadCatalog reads a YAML or JSON category file. An empty path yields DefaultCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	file, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Categories) == 0 {
		return nil, errors.New("categories file contains no categories entries")
	}
	return newCatalog(file.Categories)
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return catalogFile{}, errors.New("categories file format not recognized (expected YAML or JSON)")
}

func newCatalog(categories []CategoryType) (*Catalog, error) {
	idx := make(map[string]CategoryType, len(categories))
	for i, c := range categories {
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		c.Title = strings.TrimSpace(c.Title)
		if c.Name == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
		if c.Title == "" {
			return nil, fmt.Errorf("title is required for category %q", c.Name)
		}
		if _, exists := idx[c.Name]; exists {
			return nil, fmt.Errorf("duplicate category name %q", c.Name)
		}
		idx[c.Name] = c
	}
	return &Catalog{byName: idx}, nil
}

// Lookup returns the category registered under name.
func (c *Catalog) Lookup(name string) (CategoryType, bool) {
	if c == nil {
		return CategoryType{}, false
	}
	ct, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return ct, ok
}

// MustLookup is Lookup for names the catalog is expected to carry.
func (c *Catalog) MustLookup(name string) CategoryType {
	ct, ok := c.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("category %q not in catalog", name))
	}
	return ct
}

// All returns the categories ordered by id.
func (c *Catalog) All() []CategoryType {
	if c == nil {
		return nil
	}
	out := make([]CategoryType, 0, len(c.byName))
	for _, ct := range c.byName {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
