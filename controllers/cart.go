package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"livwell/blend"
	"livwell/cart"
	"livwell/catalog"
	"livwell/checkout"
	"livwell/middleware"
	"livwell/models"
	"livwell/promo"
)

// Quoter prices a cart with shipping and a promo code
type Quoter interface {
	Quote(items []models.CartItem, promoCode string) (checkout.Quote, error)
}

// CartController handles cart-related requests for guests and users alike
type CartController struct {
	Cart    *cart.Ledger
	Catalog *catalog.Store
	Blend   *blend.Engine
	Quoter  Quoter
	Log     *logrus.Logger
}

// NewCartController creates a new CartController
func NewCartController(ledger *cart.Ledger, store *catalog.Store, engine *blend.Engine, quoter Quoter, log *logrus.Logger) *CartController {
	return &CartController{
		Cart:    ledger,
		Catalog: store,
		Blend:   engine,
		Quoter:  quoter,
		Log:     log,
	}
}

type cartResponse struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Shipping   decimal.Decimal   `json:"shipping"`
	Discount   decimal.Decimal   `json:"discount"`
	Total      decimal.Decimal   `json:"total"`
	Promo      *promo.Result     `json:"promo,omitempty"`
	PromoError string            `json:"promoError,omitempty"`
}

func newCartResponse(items []models.CartItem, quote checkout.Quote) cartResponse {
	summary := cart.Summarize(items)
	resp := cartResponse{
		Items:      summary.Items,
		TotalItems: summary.TotalItemCount,
		Subtotal:   summary.Subtotal,
		Shipping:   quote.Shipping,
		Discount:   quote.Discount,
		Total:      quote.Total,
	}
	if quote.Promo.Applied {
		p := quote.Promo
		resp.Promo = &p
	}
	return resp
}

// respond writes the cart priced with promoCode. An unusable code is reported
// next to the undiscounted totals.
func (cc *CartController) respond(w http.ResponseWriter, status int, items []models.CartItem, promoCode string) {
	quote, err := cc.Quoter.Quote(items, promoCode)
	promoErr := ""
	if err != nil {
		promoErr = err.Error()
		quote, _ = cc.Quoter.Quote(items, "")
	}
	resp := newCartResponse(items, quote)
	resp.PromoError = promoErr
	writeJSON(w, status, resp)
}

func (cc *CartController) storageError(w http.ResponseWriter, owner models.CartOwner, err error) {
	cc.Log.WithError(err).WithField("owner", owner.Key()).Error("cart storage failed")
	http.Error(w, "Error accessing cart", http.StatusInternalServerError)
}

// GetCart returns the lines, counts and totals; ?promo= previews a code
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	owner := middleware.CartOwner(r.Context())
	items, err := cc.Cart.Items(r.Context(), owner)
	if err != nil {
		cc.storageError(w, owner, err)
		return
	}
	cc.respond(w, http.StatusOK, items, r.URL.Query().Get("promo"))
}

type addItemRequest struct {
	JuiceID  string `json:"juiceId"`
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

// AddToCart adds a catalog juice or dish at its current price
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item := models.CartItem{JuiceID: req.JuiceID, DishID: req.DishID, Quantity: req.Quantity}
	switch {
	case req.JuiceID != "" && req.DishID != "":
		http.Error(w, cart.ErrInvalidItem.Error(), http.StatusBadRequest)
		return
	case req.JuiceID != "":
		juice, ok := cc.Catalog.Juice(req.JuiceID)
		if !ok {
			http.Error(w, "Juice not found", http.StatusNotFound)
			return
		}
		item.Price = juice.Price
	case req.DishID != "":
		dish, ok := cc.Catalog.Dish(req.DishID)
		if !ok {
			http.Error(w, "Dish not found", http.StatusNotFound)
			return
		}
		item.Price = dish.Price
	}

	cc.add(w, r, item)
}

type addCustomRequest struct {
	models.BlendSelection
	Name string `json:"name"`
}

// AddCustomToCart builds a custom juice from a selection and adds it
func (cc *CartController) AddCustomToCart(w http.ResponseWriter, r *http.Request) {
	var req addCustomRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	item, err := cc.Blend.Resume(req.BlendSelection).Commit(req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cc.add(w, r, item)
}

func (cc *CartController) add(w http.ResponseWriter, r *http.Request, item models.CartItem) {
	owner := middleware.CartOwner(r.Context())
	items, err := cc.Cart.AddItem(r.Context(), owner, item)
	if errors.Is(err, cart.ErrInvalidItem) || errors.Is(err, cart.ErrInvalidQuantity) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		cc.storageError(w, owner, err)
		return
	}
	cc.respond(w, http.StatusCreated, items, "")
}

// UpdateQuantity sets the quantity of a line
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	owner := middleware.CartOwner(r.Context())
	items, err := cc.Cart.UpdateQuantity(r.Context(), owner, mux.Vars(r)["id"], req.Quantity)
	if errors.Is(err, cart.ErrInvalidQuantity) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		cc.storageError(w, owner, err)
		return
	}
	cc.respond(w, http.StatusOK, items, "")
}

// RemoveFromCart removes a line; unknown lines are ignored
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	owner := middleware.CartOwner(r.Context())
	items, err := cc.Cart.RemoveItem(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		cc.storageError(w, owner, err)
		return
	}
	cc.respond(w, http.StatusOK, items, "")
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	owner := middleware.CartOwner(r.Context())
	if err := cc.Cart.Clear(r.Context(), owner); err != nil {
		cc.storageError(w, owner, err)
		return
	}
	cc.respond(w, http.StatusOK, []models.CartItem{}, "")
}

// ApplyPromo prices the cart with a promo code
func (cc *CartController) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	owner := middleware.CartOwner(r.Context())
	items, err := cc.Cart.Items(r.Context(), owner)
	if err != nil {
		cc.storageError(w, owner, err)
		return
	}

	quote, err := cc.Quoter.Quote(items, req.Code)
	if errors.Is(err, promo.ErrEmptyCode) || errors.Is(err, promo.ErrInvalidCode) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		http.Error(w, "Error applying promo code", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(items, quote))
}
