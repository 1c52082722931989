// Package catalog holds the static, ordered list of wines poured in a session.
// The catalog is read-only: lookups return copies so a tasting note can carry
// its own reveal flag without touching the catalog entry.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed wines.yaml
var defaultWinesYAML []byte

// WineType is the style of a wine.
type WineType string

const (
	TypeRed       WineType = "tinto"
	TypeWhite     WineType = "blanco"
	TypeRose      WineType = "rosado"
	TypeSparkling WineType = "espumoso"
)

// Valid reports whether t is one of the known styles.
func (t WineType) Valid() bool {
	switch t {
	case TypeRed, TypeWhite, TypeRose, TypeSparkling:
		return true
	}
	return false
}

// Wine is a catalog descriptor. Optional fields are nil/empty when unknown.
type Wine struct {
	ID       string   `json:"id"                 yaml:"id"`
	Label    string   `json:"label"              yaml:"label"`
	Winery   string   `json:"winery"             yaml:"winery"`
	Year     *int     `json:"year,omitempty"     yaml:"year,omitempty"`
	Price    *float64 `json:"price,omitempty"    yaml:"price,omitempty"`
	Type     WineType `json:"type"               yaml:"type"`
	Region   string   `json:"region,omitempty"   yaml:"region,omitempty"`
	Grapes   []string `json:"grapes,omitempty"   yaml:"grapes,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// Clone returns a deep copy of w.
func (w Wine) Clone() Wine {
	out := w
	if w.Year != nil {
		y := *w.Year
		out.Year = &y
	}
	if w.Price != nil {
		p := *w.Price
		out.Price = &p
	}
	if w.Grapes != nil {
		out.Grapes = append([]string(nil), w.Grapes...)
	}
	return out
}

// Catalog is an ordered, fixed list of wines indexed by id.
type Catalog struct {
	wines []Wine
	byID  map[string]int
}

type catalogFile struct {
	Wines []Wine `yaml:"wines"`
}

// New builds a Catalog, rejecting empty or duplicate ids and unknown styles.
func New(wines []Wine) (*Catalog, error) {
	c := &Catalog{
		wines: make([]Wine, 0, len(wines)),
		byID:  make(map[string]int, len(wines)),
	}
	for i, w := range wines {
		if w.ID == "" {
			return nil, fmt.Errorf("catalog: wine at position %d has no id", i+1)
		}
		if _, dup := c.byID[w.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate wine id %q", w.ID)
		}
		if !w.Type.Valid() {
			return nil, fmt.Errorf("catalog: wine %q has unknown type %q", w.ID, w.Type)
		}
		c.byID[w.ID] = len(c.wines)
		c.wines = append(c.wines, w.Clone())
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if len(f.Wines) == 0 {
		return nil, fmt.Errorf("catalog: no wines defined")
	}
	return New(f.Wines)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultWinesYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Lookup returns a copy of the wine with the given id.
func (c *Catalog) Lookup(id string) (Wine, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Wine{}, false
	}
	return c.wines[i].Clone(), true
}

// At returns the wine poured in the given 1-based round.
func (c *Catalog) At(round int) (Wine, bool) {
	if round < 1 || round > len(c.wines) {
		return Wine{}, false
	}
	return c.wines[round-1].Clone(), true
}

// All returns copies of every wine in tasting order.
func (c *Catalog) All() []Wine {
	out := make([]Wine, len(c.wines))
	for i, w := range c.wines {
		out[i] = w.Clone()
	}
	return out
}

// Len is the number of tasting rounds.
func (c *Catalog) Len() int {
	return len(c.wines)
}
