// Package blend prices custom juices. A blend is a base liquid, one or more
// fruits, and optional vegetables and boosters; its price is the plain sum of
// the unit prices of everything selected.
package blend

import (
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"livwell/models"
)

// ErrNoFruit is returned when a blend without fruit is committed
var ErrNoFruit = errors.New("select at least one fruit")

type table map[string]models.BlendOption

func index(opts []models.BlendOption) table {
	t := make(table, len(opts))
	for _, o := range opts {
		t[o.ID] = o
	}
	return t
}

// unknown ids yield the zero option: no name, no price
func (t table) get(id string) models.BlendOption {
	return t[id]
}

// Engine prices selections against a fixed option table
type Engine struct {
	options    models.BlendOptions
	bases      table
	fruits     table
	vegetables table
	boosters   table
}

func NewEngine(options models.BlendOptions) *Engine {
	return &Engine{
		options:    options,
		bases:      index(options.Bases),
		fruits:     index(options.Fruits),
		vegetables: index(options.Vegetables),
		boosters:   index(options.Boosters),
	}
}

func (e *Engine) Options() models.BlendOptions {
	return e.options
}

// unique drops repeated ids, keeping the first occurrence
func unique(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Normalize turns the group lists into sets, in selection order
func Normalize(sel models.BlendSelection) models.BlendSelection {
	return models.BlendSelection{
		Base:       sel.Base,
		Fruits:     unique(sel.Fruits),
		Vegetables: unique(sel.Vegetables),
		Boosters:   unique(sel.Boosters),
	}
}

// Price sums the unit price of every selected id. Unknown ids add nothing and
// repeated ids count once.
func (e *Engine) Price(sel models.BlendSelection) decimal.Decimal {
	sel = Normalize(sel)
	total := decimal.Zero
	if sel.Base != "" {
		total = total.Add(e.bases.get(sel.Base).Price)
	}
	for _, id := range sel.Fruits {
		total = total.Add(e.fruits.get(id).Price)
	}
	for _, id := range sel.Vegetables {
		total = total.Add(e.vegetables.get(id).Price)
	}
	for _, id := range sel.Boosters {
		total = total.Add(e.boosters.get(id).Price)
	}
	return total
}

// Ingredients lists base, fruit, vegetable and booster names in selection
// order, skipping anything without a name.
func (e *Engine) Ingredients(sel models.BlendSelection) []string {
	sel = Normalize(sel)
	names := []string{e.bases.get(sel.Base).Name}
	for _, id := range sel.Fruits {
		names = append(names, e.fruits.get(id).Name)
	}
	for _, id := range sel.Vegetables {
		names = append(names, e.vegetables.get(id).Name)
	}
	for _, id := range sel.Boosters {
		names = append(names, e.boosters.get(id).Name)
	}
	return slices.DeleteFunc(names, func(n string) bool { return n == "" })
}

// Name returns the trimmed custom name, or "Custom <first fruit> Juice"
func (e *Engine) Name(sel models.BlendSelection, custom string) string {
	if name := strings.TrimSpace(custom); name != "" {
		return name
	}
	first := ""
	if len(sel.Fruits) > 0 {
		first = e.fruits.get(sel.Fruits[0]).Name
	}
	return "Custom " + first + " Juice"
}

// Ready reports whether the selection can go into the cart
func (e *Engine) Ready(sel models.BlendSelection) bool {
	return len(sel.Fruits) > 0
}

// Commit turns a selection into a custom cart line (without a line id; the
// cart assigns one).
func (e *Engine) Commit(sel models.BlendSelection, name string) (models.CartItem, error) {
	if !e.Ready(sel) {
		return models.CartItem{}, ErrNoFruit
	}
	return models.CartItem{
		Quantity:          1,
		Price:             e.Price(sel),
		IsCustom:          true,
		CustomName:        e.Name(sel, name),
		CustomIngredients: e.Ingredients(sel),
	}, nil
}
