// Package payment creates orders at the payment gateway and checks the
// signatures the gateway hands back after a successful payment.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rzputils "github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"livwell/models"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrGateway           = errors.New("payment gateway error")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
)

// Gateway creates an order at the payment provider
type Gateway interface {
	CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error)
}

// GatewayFunc adapts a function to Gateway
type GatewayFunc func(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error)

func (f GatewayFunc) CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
	return f(ctx, req)
}

// Unconfigured is used when no gateway credentials are set; every order fails
var Unconfigured = GatewayFunc(func(context.Context, models.GatewayOrderRequest) (models.GatewayOrder, error) {
	return models.GatewayOrder{}, errors.New("payment gateway is not configured")
})

type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type Service struct {
	gateway Gateway
	cfg     Config
	log     *logrus.Logger
	now     func() time.Time
}

func NewService(gateway Gateway, cfg Config, log *logrus.Logger) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Service{gateway: gateway, cfg: cfg, log: log, now: time.Now}
}

// KeyID is the public key the hosted payment widget is opened with
func (s *Service) KeyID() string {
	return s.cfg.KeyID
}

// CreateOrder passes the amount through unchanged; it is already in minor
// units. Currency and receipt get defaults when empty.
func (s *Service) CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
	if req.Amount <= 0 {
		return models.GatewayOrder{}, ErrInvalidAmount
	}
	if req.Currency == "" {
		req.Currency = s.cfg.Currency
	}
	if req.Receipt == "" {
		req.Receipt = fmt.Sprintf("order_receipt_%d", s.now().UnixMilli())
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("receipt", req.Receipt).Error("failed to create gateway order")
		return models.GatewayOrder{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	s.log.WithFields(logrus.Fields{"gateway_order_id": order.OrderID, "amount": order.Amount}).Info("gateway order created")
	return order, nil
}

// VerifySignature checks the gateway's signature of "orderID|paymentID"
// under the key secret. Without a configured secret there is nothing to
// check against and every signature is accepted.
func (s *Service) VerifySignature(orderID, paymentID, signature string) error {
	if s.cfg.KeySecret == "" {
		return nil
	}
	attrs := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !rzputils.VerifyPaymentSignature(attrs, signature, s.cfg.KeySecret) {
		return ErrSignatureMismatch
	}
	return nil
}

// ToMinorUnits converts a major-unit amount to minor units, rounding half up
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ParseAmount accepts a JSON number that is a positive integer
func ParseAmount(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, ErrInvalidAmount
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, ErrInvalidAmount
	}
	amount, err := n.Int64()
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}
