// Package ratings holds the Portsmouth handicap table.
//
// A Table is built once at startup, either from the embedded default or from
// a YAML file, and is read-only afterwards. Lookups ignore case and repeated
// whitespace so "laser  ii" finds "Laser II".
package ratings

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// DefaultRating is the neutral rating used for boat types missing from the
// table (multiplier 1.0).
const DefaultRating = 100.0

//go:embed portsmouth.yaml
var embeddedTable []byte

// Rating is one row of the table.
type Rating struct {
	Name   string  `yaml:"name" json:"name"`
	Rating float64 `yaml:"rating" json:"rating"`
}

// Multiplier returns 100/rating.
func (r Rating) Multiplier() float64 { return DefaultRating / r.Rating }

// document is the on-disk YAML shape.
type document struct {
	DefaultRating float64  `yaml:"default_rating"`
	Boats         []Rating `yaml:"boats"`
}

// Table maps boat types to Portsmouth ratings.
type Table struct {
	byKey    map[string]Rating
	sorted   []Rating
	fallback float64
}

// New validates entries and builds a table. fallback <= 0 selects
// DefaultRating.
func New(entries []Rating, fallback float64) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	if fallback <= 0 {
		fallback = DefaultRating
	}
	t := &Table{
		byKey:    make(map[string]Rating, len(entries)),
		sorted:   make([]Rating, 0, len(entries)),
		fallback: fallback,
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty boat type name", ErrInvalidRating)
		}
		if e.Rating <= 0 {
			return nil, fmt.Errorf("%w: %q has rating %v", ErrInvalidRating, name, e.Rating)
		}
		key := normalize(name)
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBoat, name)
		}
		r := Rating{Name: name, Rating: e.Rating}
		t.byKey[key] = r
		t.sorted = append(t.sorted, r)
	}
	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].Name < t.sorted[j].Name })
	return t, nil
}

// Parse builds a table from YAML.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return New(doc.Boats, doc.DefaultRating)
}

// Load reads a YAML table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ratings %q: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded club table.
func Default() *Table {
	t, err := Parse(embeddedTable)
	if err != nil {
		panic("embedded portsmouth table is invalid: " + err.Error())
	}
	return t
}

// LoadOrDefault loads path, or the embedded table when path is empty.
func LoadOrDefault(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Lookup returns the rating for boatType and whether it is listed. Unlisted
// types get the fallback rating.
func (t *Table) Lookup(boatType string) (float64, bool) {
	if r, ok := t.byKey[normalize(boatType)]; ok {
		return r.Rating, true
	}
	return t.fallback, false
}

// Canonical returns the table spelling of boatType, or boatType unchanged if
// it is not listed.
func (t *Table) Canonical(boatType string) string {
	if r, ok := t.byKey[normalize(boatType)]; ok {
		return r.Name
	}
	return strings.TrimSpace(boatType)
}

// Known reports whether boatType is listed.
func (t *Table) Known(boatType string) bool {
	_, ok := t.byKey[normalize(boatType)]
	return ok
}

// Fallback returns the rating used for unlisted boat types.
func (t *Table) Fallback() float64 { return t.fallback }

// Len returns the number of listed boat types.
func (t *Table) Len() int { return len(t.sorted) }

// Ratings returns a copy of the table sorted by boat type name.
func (t *Table) Ratings() []Rating {
	out := make([]Rating, len(t.sorted))
	copy(out, t.sorted)
	return out
}

func normalize(name string) string {
	// A Caser keeps state between calls, so one is made per lookup.
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
