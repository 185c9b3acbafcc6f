// controllers/order.go
package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"livwell/middleware"
	"livwell/orders"
)

// OrderController serves a user's order history
type OrderController struct {
	Orders *orders.Ledger
	Log    *logrus.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(ledger *orders.Ledger, log *logrus.Logger) *OrderController {
	return &OrderController{Orders: ledger, Log: log}
}

// GetOrders lists the signed-in user's orders, oldest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := oc.Orders.ForUser(r.Context(), claims.UserID)
	if err != nil {
		oc.Log.WithError(err).WithField("user_id", claims.UserID).Error("failed to list orders")
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetOrder retrieves one of the signed-in user's orders
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, found, err := oc.Orders.Get(r.Context(), claims.UserID, mux.Vars(r)["id"])
	if err != nil {
		oc.Log.WithError(err).WithField("user_id", claims.UserID).Error("failed to fetch order")
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
