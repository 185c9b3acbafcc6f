package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"livwell/blend"
	"livwell/models"
)

// BlendController serves the custom juice builder
type BlendController struct {
	Engine *blend.Engine
}

func NewBlendController(engine *blend.Engine) *BlendController {
	return &BlendController{Engine: engine}
}

type blendRequest struct {
	models.BlendSelection
	Name string `json:"name"`
}

type blendQuote struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Ingredients []string        `json:"ingredients"`
	Ready       bool            `json:"ready"`
	Steps       []bool          `json:"steps"`
}

// GetOptions returns the ingredient table
func (bc *BlendController) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bc.Engine.Options())
}

// Quote prices a selection without adding it to the cart. Steps holds the
// readiness of the base, fruit, vegetable, booster and review steps.
func (bc *BlendController) Quote(w http.ResponseWriter, r *http.Request) {
	var req blendRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	b := bc.Engine.Resume(req.BlendSelection)
	sel := b.Selection()
	ready := bc.Engine.Ready(sel)
	name := ""
	if ready {
		name = bc.Engine.Name(sel, req.Name)
	}
	writeJSON(w, http.StatusOK, blendQuote{
		Name:        name,
		Price:       b.Price(),
		Ingredients: bc.Engine.Ingredients(sel),
		Ready:       ready,
		Steps:       b.Steps(),
	})
}
