// Package catalog is the read-only store of juices, dishes and custom-juice
// options. The data is embedded at build time and never mutated.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"livwell/models"
)

//go:embed catalog.yaml
var defaultData []byte

type document struct {
	Juices []models.Juice       `yaml:"juices"`
	Dishes []models.Dish        `yaml:"dishes"`
	Blend  models.BlendOptions `yaml:"blend"`
}

// Store holds the catalog in memory
type Store struct {
	juices     []models.Juice
	dishes     []models.Dish
	blend      models.BlendOptions
	juiceIndex map[string]int
	dishIndex  map[string]int
}

// Default loads the embedded catalog
func Default() (*Store, error) {
	return Parse(defaultData)
}

// Load reads a catalog document from r
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	s := &Store{
		juices:     doc.Juices,
		dishes:     doc.Dishes,
		blend:      doc.Blend,
		juiceIndex: make(map[string]int, len(doc.Juices)),
		dishIndex:  make(map[string]int, len(doc.Dishes)),
	}

	var errs []error
	for i, j := range doc.Juices {
		if _, dup := s.juiceIndex[j.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate juice id %q", j.ID))
		}
		if !j.Price.IsPositive() {
			errs = append(errs, fmt.Errorf("juice %q: price must be positive", j.ID))
		}
		s.juiceIndex[j.ID] = i
	}
	for i, d := range doc.Dishes {
		if _, dup := s.dishIndex[d.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate dish id %q", d.ID))
		}
		if !d.Price.IsPositive() {
			errs = append(errs, fmt.Errorf("dish %q: price must be positive", d.ID))
		}
		s.dishIndex[d.ID] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Juices returns every juice in catalog order
func (s *Store) Juices() []models.Juice {
	return append([]models.Juice(nil), s.juices...)
}

// Dishes returns every dish in catalog order
func (s *Store) Dishes() []models.Dish {
	return append([]models.Dish(nil), s.dishes...)
}

func (s *Store) Juice(id string) (models.Juice, bool) {
	i, ok := s.juiceIndex[id]
	if !ok {
		return models.Juice{}, false
	}
	return s.juices[i], true
}

func (s *Store) Dish(id string) (models.Dish, bool) {
	i, ok := s.dishIndex[id]
	if !ok {
		return models.Dish{}, false
	}
	return s.dishes[i], true
}

// ItemName is the product name of a cart line, its custom name for blends,
// or the raw id when the product is gone from the catalog
func (s *Store) ItemName(item models.CartItem) string {
	if item.IsCustom {
		return item.CustomName
	}
	if j, ok := s.Juice(item.JuiceID); ok {
		return j.Name
	}
	if d, ok := s.Dish(item.DishID); ok {
		return d.Name
	}
	return item.JuiceID + item.DishID
}

// BlendOptions is the option table of the custom juice builder
func (s *Store) BlendOptions() models.BlendOptions {
	return s.blend
}

// JuiceCategories lists the distinct juice categories, sorted
func (s *Store) JuiceCategories() []string {
	cats := make([]string, 0, len(s.juices))
	for _, j := range s.juices {
		cats = append(cats, j.Category)
	}
	return distinct(cats)
}

// DishCategories lists the distinct dish categories, sorted
func (s *Store) DishCategories() []string {
	cats := make([]string, 0, len(s.dishes))
	for _, d := range s.dishes {
		cats = append(cats, d.Category)
	}
	return distinct(cats)
}

func distinct(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
