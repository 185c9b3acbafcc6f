package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"livwell/models"
)

// Dietary flags understood by Filter.Dietary
const (
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
	DietGlutenFree = "glutenFree"
	DietDairyFree  = "dairyFree"
)

// Tabs understood by Filter.Tab
const (
	TabAll      = "all"
	TabFeatured = "featured"
	TabPopular  = "popular"
	TabNew      = "new"
)

// Filter narrows a product listing. Zero values match everything.
type Filter struct {
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Categories []string
	Dietary    []string // dishes only; every flag must hold
	Tab        string
}

func (f Filter) matchesText(name, description string) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(description), term)
}

func (f Filter) matchesPrice(price decimal.Decimal) bool {
	if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func (f Filter) matchesCategory(category string) bool {
	return len(f.Categories) == 0 || slices.Contains(f.Categories, category)
}

func (f Filter) matchesTab(featured, popular, isNew bool) bool {
	switch f.Tab {
	case "", TabAll:
		return true
	case TabFeatured:
		return featured
	case TabPopular:
		return popular
	case TabNew:
		return isNew
	}
	return true
}

func matchesDiet(d models.Dish, flags []string) bool {
	for _, flag := range flags {
		switch flag {
		case DietVegetarian:
			if !d.Vegetarian {
				return false
			}
		case DietVegan:
			if !d.Vegan {
				return false
			}
		case DietGlutenFree:
			if !d.GlutenFree {
				return false
			}
		case DietDairyFree:
			if !d.DairyFree {
				return false
			}
		}
	}
	return true
}

// FilterJuices returns the juices matching f, in catalog order
func (s *Store) FilterJuices(f Filter) []models.Juice {
	out := []models.Juice{}
	for _, j := range s.juices {
		if f.matchesText(j.Name, j.Description) &&
			f.matchesPrice(j.Price) &&
			f.matchesCategory(j.Category) &&
			f.matchesTab(j.Featured, j.Popular, j.New) {
			out = append(out, j)
		}
	}
	return out
}

// FilterDishes returns the dishes matching f, in catalog order
func (s *Store) FilterDishes(f Filter) []models.Dish {
	out := []models.Dish{}
	for _, d := range s.dishes {
		if f.matchesText(d.Name, d.Description) &&
			f.matchesPrice(d.Price) &&
			f.matchesCategory(d.Category) &&
			matchesDiet(d, f.Dietary) &&
			f.matchesTab(d.Featured, d.Popular, d.New) {
			out = append(out, d)
		}
	}
	return out
}
