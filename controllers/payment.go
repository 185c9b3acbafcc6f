package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"livwell/models"
	"livwell/payment"
)

// PaymentController exposes gateway order creation
type PaymentController struct {
	Payments *payment.Service
}

func NewPaymentController(svc *payment.Service) *PaymentController {
	return &PaymentController{Payments: svc}
}

// CreateOrder creates a gateway order for an amount already in minor units
func (pc *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount   json.RawMessage `json:"amount"`
		Currency string          `json:"currency"`
		Receipt  string          `json:"receipt"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := payment.ParseAmount(body.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	order, err := pc.Payments.CreateOrder(r.Context(), models.GatewayOrderRequest{
		Amount:   amount,
		Currency: body.Currency,
		Receipt:  body.Receipt,
	})
	if errors.Is(err, payment.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}
