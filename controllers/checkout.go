package controllers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"livwell/checkout"
	"livwell/middleware"
	"livwell/models"
	"livwell/payment"
	"livwell/promo"
)

// CheckoutController drives the checkout flow of the signed-in user
type CheckoutController struct {
	Flow *checkout.Flow
	Log  *logrus.Logger
}

func NewCheckoutController(flow *checkout.Flow, log *logrus.Logger) *CheckoutController {
	return &CheckoutController{Flow: flow, Log: log}
}

type checkoutResponse struct {
	checkout.Result
	Error string `json:"error,omitempty"`
}

func (cc *CheckoutController) fail(w http.ResponseWriter, res checkout.Result, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidPaymentMethod),
		errors.Is(err, checkout.ErrMissingDetails),
		errors.Is(err, promo.ErrEmptyCode),
		errors.Is(err, promo.ErrInvalidCode):
		status = http.StatusBadRequest
	case errors.Is(err, checkout.ErrUnknownCheckout):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrSignatureMismatch):
		status = http.StatusUnauthorized
	case errors.Is(err, payment.ErrGateway):
		status = http.StatusBadGateway
	default:
		cc.Log.WithError(err).Error("checkout failed")
	}
	writeJSON(w, status, checkoutResponse{Result: res, Error: err.Error()})
}

// Submit places a cash-on-delivery order or starts a gateway payment
func (cc *CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req checkout.Request
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		req.Email = claims.Email
	}

	res, err := cc.Flow.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		cc.fail(w, res, err)
		return
	}
	status := http.StatusOK
	if res.Order != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, checkoutResponse{Result: res})
}

// Confirm is called with the gateway's success response
func (cc *CheckoutController) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var resp models.GatewayResponse
	if err := decode(r, &resp); err != nil || resp.OrderID == "" || resp.PaymentID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	res, err := cc.Flow.Confirm(r.Context(), claims.UserID, resp)
	if err != nil {
		cc.fail(w, res, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{Result: res})
}

// Cancel is called when the payment widget is dismissed
func (cc *CheckoutController) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Result: cc.Flow.Cancel(r.Context(), claims.UserID, req.OrderID)})
}

// Status reports where the user's checkout stands
func (cc *CheckoutController) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]checkout.State{"state": cc.Flow.State(claims.UserID)})
}
