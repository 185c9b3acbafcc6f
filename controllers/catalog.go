package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"livwell/catalog"
)

// CatalogController serves juices and dishes
type CatalogController struct {
	Catalog *catalog.Store
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(store *catalog.Store) *CatalogController {
	return &CatalogController{Catalog: store}
}

// listParam reads a parameter given either repeated or comma separated
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func priceParam(q url.Values, key string) (*decimal.Decimal, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseFilter(q url.Values) (catalog.Filter, error) {
	lo, err := priceParam(q, "minPrice")
	if err != nil {
		return catalog.Filter{}, err
	}
	hi, err := priceParam(q, "maxPrice")
	if err != nil {
		return catalog.Filter{}, err
	}
	return catalog.Filter{
		Search:     q.Get("search"),
		MinPrice:   lo,
		MaxPrice:   hi,
		Categories: listParam(q, "category"),
		Dietary:    listParam(q, "diet"),
		Tab:        q.Get("tab"),
	}, nil
}

// GetJuices lists juices, narrowed by the query filters
func (cc *CatalogController) GetJuices(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid price filter", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"juices":     cc.Catalog.FilterJuices(filter),
		"categories": cc.Catalog.JuiceCategories(),
	})
}

// GetJuice retrieves a single juice
func (cc *CatalogController) GetJuice(w http.ResponseWriter, r *http.Request) {
	juice, ok := cc.Catalog.Juice(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Juice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, juice)
}

// GetDishes lists dishes, narrowed by the query filters
func (cc *CatalogController) GetDishes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid price filter", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dishes":     cc.Catalog.FilterDishes(filter),
		"categories": cc.Catalog.DishCategories(),
	})
}

// GetDish retrieves a single dish
func (cc *CatalogController) GetDish(w http.ResponseWriter, r *http.Request) {
	dish, ok := cc.Catalog.Dish(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Dish not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}
