package blend

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livwell/catalog"
	"livwell/models"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	s, err := catalog.Default()
	require.NoError(t, err)
	return NewEngine(s.BlendOptions())
}

func TestPrice(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		sel  models.BlendSelection
		want string
	}{
		{"empty", models.BlendSelection{}, "0"},
		{"base only", models.BlendSelection{Base: "almond"}, "20"},
		{"all groups", models.BlendSelection{
			Base:       "coconut",
			Fruits:     []string{"apple", "kiwi"},
			Vegetables: []string{"kale"},
			Boosters:   []string{"chia", "honey"},
		}, "110"},
		{"unknown ids add nothing", models.BlendSelection{
			Base:     "lava",
			Fruits:   []string{"durian", "banana"},
			Boosters: []string{"gold"},
		}, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, e.Price(tt.sel).Equal(decimal.RequireFromString(tt.want)), "got %s", e.Price(tt.sel))
		})
	}
}

func TestCommit(t *testing.T) {
	e := newEngine(t)
	sel := models.BlendSelection{
		Base:       "water",
		Fruits:     []string{"orange", "mango", "nope"},
		Vegetables: []string{"carrot"},
		Boosters:   []string{"ginger"},
	}

	item, err := e.Commit(sel, "  ")
	require.NoError(t, err)
	assert.True(t, item.IsCustom)
	assert.Empty(t, item.JuiceID)
	assert.Empty(t, item.DishID)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "Custom Orange Juice", item.CustomName)
	assert.Equal(t, []string{"Water", "Orange", "Mango", "Carrot", "Ginger"}, item.CustomIngredients)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(70)))

	named, err := e.Commit(sel, " Sunrise ")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise", named.CustomName)
}

func TestCommitRequiresFruit(t *testing.T) {
	e := newEngine(t)
	_, err := e.Commit(models.BlendSelection{Base: "oat", Boosters: []string{"protein"}}, "x")
	assert.ErrorIs(t, err, ErrNoFruit)
}

func TestBuilder(t *testing.T) {
	b := newEngine(t).NewBuilder()

	assert.False(t, b.StepReady(StepBase))
	b.SelectBase("water")
	b.SelectBase("oat")
	assert.True(t, b.StepReady(StepBase))
	assert.Equal(t, "oat", b.Selection().Base)

	assert.False(t, b.StepReady(StepFruits))
	b.ToggleFruit("apple")
	b.ToggleFruit("kiwi")
	b.ToggleFruit("apple")
	b.ToggleFruit("banana")
	assert.Equal(t, []string{"kiwi", "banana"}, b.Selection().Fruits)
	assert.True(t, b.StepReady(StepFruits))
	assert.True(t, b.StepReady(StepVegetables))
	assert.True(t, b.StepReady(StepBoosters))

	b.ToggleBooster("flax")
	assert.True(t, b.Price().Equal(decimal.NewFromInt(80)))

	item, err := b.Commit("")
	require.NoError(t, err)
	assert.Equal(t, "Custom Kiwi Juice", item.CustomName)
	assert.Equal(t, []string{"Oat Milk", "Kiwi", "Banana", "Flax Seeds"}, item.CustomIngredients)

	assert.Equal(t, models.BlendSelection{}, b.Selection())
}

func TestRepeatedIdsCountOnce(t *testing.T) {
	e := newEngine(t)
	sel := models.BlendSelection{
		Base:     "water",
		Fruits:   []string{"apple", "apple", "kiwi", "apple"},
		Boosters: []string{"chia", "chia"},
	}

	assert.True(t, e.Price(sel).Equal(decimal.NewFromInt(85)), "got %s", e.Price(sel))
	assert.Equal(t, []string{"Water", "Apple", "Kiwi", "Chia Seeds"}, e.Ingredients(sel))

	item, err := e.Commit(sel, "")
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(85)))
}

func TestResume(t *testing.T) {
	e := newEngine(t)

	b := e.Resume(models.BlendSelection{Fruits: []string{"mango", "mango"}, Vegetables: []string{"kale"}})
	assert.Equal(t, []bool{false, true, true, true, true}, b.Steps())
	assert.Equal(t, []string{"mango"}, b.Selection().Fruits)
	assert.True(t, b.Price().Equal(decimal.NewFromInt(45)))

	empty := e.Resume(models.BlendSelection{Base: "coconut"})
	assert.Equal(t, []bool{true, false, true, true, true}, empty.Steps())
	_, err := empty.Commit("x")
	assert.ErrorIs(t, err, ErrNoFruit)
}
