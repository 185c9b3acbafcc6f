package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"livwell/models"
)

// RazorpayGateway creates orders through the Razorpay orders API
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateOrder(_ context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return models.GatewayOrder{}, err
	}
	return decodeOrder(body)
}

func decodeOrder(body map[string]interface{}) (models.GatewayOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return models.GatewayOrder{}, fmt.Errorf("gateway response has no order id")
	}
	currency, _ := body["currency"].(string)

	var amount int64
	switch v := body["amount"].(type) {
	case float64:
		amount = int64(v)
	case int64:
		amount = v
	case int:
		amount = int64(v)
	}
	return models.GatewayOrder{OrderID: id, Amount: amount, Currency: currency}, nil
}
