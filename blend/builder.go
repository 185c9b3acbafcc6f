package blend

import (
	"slices"

	"github.com/shopspring/decimal"

	"livwell/models"
)

// Builder steps
const (
	StepBase = iota + 1
	StepFruits
	StepVegetables
	StepBoosters
	StepReview
)

// Builder accumulates a selection one choice at a time
type Builder struct {
	engine *Engine
	sel    models.BlendSelection
}

func (e *Engine) NewBuilder() *Builder {
	return &Builder{engine: e}
}

// Resume replays a selection made elsewhere onto a fresh builder
func (e *Engine) Resume(sel models.BlendSelection) *Builder {
	sel = Normalize(sel)
	b := e.NewBuilder()
	b.SelectBase(sel.Base)
	for _, id := range sel.Fruits {
		b.ToggleFruit(id)
	}
	for _, id := range sel.Vegetables {
		b.ToggleVegetable(id)
	}
	for _, id := range sel.Boosters {
		b.ToggleBooster(id)
	}
	return b
}

// SelectBase replaces any earlier base
func (b *Builder) SelectBase(id string) {
	b.sel.Base = id
}

func (b *Builder) ToggleFruit(id string)     { b.sel.Fruits = toggle(b.sel.Fruits, id) }
func (b *Builder) ToggleVegetable(id string) { b.sel.Vegetables = toggle(b.sel.Vegetables, id) }
func (b *Builder) ToggleBooster(id string)   { b.sel.Boosters = toggle(b.sel.Boosters, id) }

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

func (b *Builder) Selection() models.BlendSelection {
	return models.BlendSelection{
		Base:       b.sel.Base,
		Fruits:     slices.Clone(b.sel.Fruits),
		Vegetables: slices.Clone(b.sel.Vegetables),
		Boosters:   slices.Clone(b.sel.Boosters),
	}
}

func (b *Builder) Price() decimal.Decimal {
	return b.engine.Price(b.sel)
}

// StepReady gates moving past a step: the base step needs a base, the fruit
// step a fruit. Vegetables and boosters are optional.
func (b *Builder) StepReady(step int) bool {
	switch step {
	case StepBase:
		return b.sel.Base != ""
	case StepFruits:
		return len(b.sel.Fruits) > 0
	}
	return true
}

// Steps reports StepReady for every step in order
func (b *Builder) Steps() []bool {
	steps := make([]bool, 0, StepReview)
	for step := StepBase; step <= StepReview; step++ {
		steps = append(steps, b.StepReady(step))
	}
	return steps
}

// Commit builds the cart line and resets the builder
func (b *Builder) Commit(name string) (models.CartItem, error) {
	item, err := b.engine.Commit(b.sel, name)
	if err != nil {
		return models.CartItem{}, err
	}
	b.sel = models.BlendSelection{}
	return item, nil
}
