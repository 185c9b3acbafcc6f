// Package checkout turns a user's cart into an order, either directly (cash
// on delivery) or after a payment at the gateway (UPI).
//
// A checkout moves through these states:
//
//	cart -> order_created -> cart_cleared                     (cod)
//	cart -> awaiting_gateway_order -> gateway_redirect
//	     -> confirm: order_created -> cart_cleared            (upi, paid)
//	     -> cancel or gateway failure: cart                    (upi, not paid)
//
// No order exists until the gateway reports a successful payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"livwell/cart"
	"livwell/models"
	"livwell/payment"
	"livwell/promo"
)

type State string

const (
	StateCart                 State = "cart"
	StateAwaitingGatewayOrder State = "awaiting_gateway_order"
	StateGatewayRedirect      State = "gateway_redirect"
	StateOrderCreated         State = "order_created"
	StateCartCleared          State = "cart_cleared"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrUnknownCheckout      = errors.New("unknown checkout")
	ErrInvalidPaymentMethod = errors.New("payment method must be cod or upi")
	ErrMissingDetails       = errors.New("phone, address, city and zip code are required")
	ErrSignatureMismatch    = payment.ErrSignatureMismatch
)

// Carts is the read side of the cart ledger
type Carts interface {
	Items(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
}

// Orders records orders and clears the buyer's cart
type Orders interface {
	Create(ctx context.Context, in models.NewOrder) (models.Order, error)
}

type Payments interface {
	CreateOrder(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}

type Notifier interface {
	SendOrderConfirmationEmail(toEmail string, order models.Order) error
}

type Config struct {
	Shipping    decimal.Decimal
	StoreName   string
	ThemeColor  string
	Description string
}

// Request is the checkout form
type Request struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PromoCode     string               `json:"promoCode,omitempty"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	ZipCode       string               `json:"zipCode"`
}

// FormattedAddress is the single-line delivery address stored on the order
func (r Request) FormattedAddress() string {
	return fmt.Sprintf("%s, %s, %s", strings.TrimSpace(r.Address), strings.TrimSpace(r.City), strings.TrimSpace(r.ZipCode))
}

func (r Request) validate() error {
	if !r.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	for _, field := range []string{r.Phone, r.Address, r.City, r.ZipCode} {
		if strings.TrimSpace(field) == "" {
			return ErrMissingDetails
		}
	}
	return nil
}

// Quote is the price breakdown of a cart
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Promo    promo.Result    `json:"promo"`
}

// Result is where a checkout step left things
type Result struct {
	State   State                   `json:"state"`
	Quote   Quote                   `json:"quote"`
	Order   *models.Order           `json:"order,omitempty"`
	Payment *models.CheckoutOptions `json:"payment,omitempty"`
}

type pendingCheckout struct {
	userID  string
	items   []models.CartItem
	quote   Quote
	request Request
}

// Flow runs checkouts. Pending gateway payments are held in memory until they
// are confirmed or cancelled.
type Flow struct {
	carts    Carts
	orders   Orders
	payments Payments
	promos   *promo.Engine
	notifier Notifier
	cfg      Config
	log      *logrus.Logger

	mu       sync.Mutex
	pending  map[string]pendingCheckout
	inflight map[string]int

	notifications sync.WaitGroup
}

func NewFlow(carts Carts, orders Orders, payments Payments, promos *promo.Engine, notifier Notifier, cfg Config, log *logrus.Logger) *Flow {
	if cfg.Description == "" {
		cfg.Description = "Food Order Payment"
	}
	return &Flow{
		carts:    carts,
		orders:   orders,
		payments: payments,
		promos:   promos,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		pending:  make(map[string]pendingCheckout),
		inflight: make(map[string]int),
	}
}

// Quote prices items with shipping and an optional promo code. A bad code is
// an error; an empty one means no discount.
func (f *Flow) Quote(items []models.CartItem, promoCode string) (Quote, error) {
	q := Quote{
		Subtotal: cart.Subtotal(items),
		Shipping: f.cfg.Shipping,
		Discount: decimal.Zero,
	}
	if strings.TrimSpace(promoCode) != "" {
		res, err := f.promos.Apply(promoCode, q.Subtotal)
		if err != nil {
			return Quote{}, err
		}
		q.Promo = res
		q.Discount = res.Discount
	}
	q.Total = q.Subtotal.Add(q.Shipping).Sub(q.Discount)
	return q, nil
}

var tracer = otel.Tracer("livwell/checkout")

func endSpan(span trace.Span, res Result, err error) {
	span.SetAttributes(attribute.String("checkout.state", string(res.State)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Submit starts a checkout of the user's cart
func (f *Flow) Submit(ctx context.Context, userID string, req Request) (res Result, err error) {
	ctx, span := tracer.Start(ctx, "checkout.Submit", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("checkout.payment_method", string(req.PaymentMethod)),
	))
	defer func() { endSpan(span, res, err) }()

	if err := req.validate(); err != nil {
		return Result{State: StateCart}, err
	}

	items, err := f.carts.Items(ctx, models.Authenticated(userID))
	if err != nil {
		return Result{State: StateCart}, err
	}
	if len(items) == 0 {
		return Result{State: StateCart}, ErrEmptyCart
	}

	quote, err := f.Quote(items, req.PromoCode)
	if err != nil {
		return Result{State: StateCart}, err
	}

	if req.PaymentMethod == models.PaymentCOD {
		return f.place(ctx, pendingCheckout{userID: userID, items: items, quote: quote, request: req}, models.StatusPending, "")
	}
	return f.redirect(ctx, pendingCheckout{userID: userID, items: items, quote: quote, request: req})
}

// redirect creates the gateway order and remembers the checkout under its id
func (f *Flow) redirect(ctx context.Context, pc pendingCheckout) (Result, error) {
	f.mu.Lock()
	f.inflight[pc.userID]++
	f.mu.Unlock()

	gw, err := f.payments.CreateOrder(ctx, models.GatewayOrderRequest{
		Amount: payment.ToMinorUnits(pc.quote.Total),
	})

	f.mu.Lock()
	if f.inflight[pc.userID]--; f.inflight[pc.userID] == 0 {
		delete(f.inflight, pc.userID)
	}
	if err == nil {
		f.pending[gw.OrderID] = pc
	}
	f.mu.Unlock()

	if err != nil {
		return Result{State: StateCart, Quote: pc.quote}, err
	}

	f.log.WithFields(logrus.Fields{"user_id": pc.userID, "gateway_order_id": gw.OrderID}).Info("awaiting payment")

	return Result{
		State: StateGatewayRedirect,
		Quote: pc.quote,
		Payment: &models.CheckoutOptions{
			Key:         f.payments.KeyID(),
			Amount:      gw.Amount,
			Currency:    gw.Currency,
			Name:        f.cfg.StoreName,
			Description: f.cfg.Description,
			OrderID:     gw.OrderID,
			Prefill: models.Prefill{
				Name:    pc.request.Name,
				Email:   pc.request.Email,
				Contact: pc.request.Phone,
			},
			Theme: models.Theme{Color: f.cfg.ThemeColor},
		},
	}, nil
}

// State reports where the user's checkout stands: waiting on the gateway to
// create an order, redirected to the payment widget, or back at the cart
func (f *Flow) State(userID string) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inflight[userID] > 0 {
		return StateAwaitingGatewayOrder
	}
	for _, pc := range f.pending {
		if pc.userID == userID {
			return StateGatewayRedirect
		}
	}
	return StateCart
}

// Confirm completes a gateway checkout after a successful payment. The order
// holds the lines that were in the cart when the payment was started.
func (f *Flow) Confirm(ctx context.Context, userID string, resp models.GatewayResponse) (res Result, err error) {
	ctx, span := tracer.Start(ctx, "checkout.Confirm", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("checkout.gateway_order_id", resp.OrderID),
	))
	defer func() { endSpan(span, res, err) }()

	f.mu.Lock()
	pc, ok := f.pending[resp.OrderID]
	if !ok || pc.userID != userID {
		f.mu.Unlock()
		return Result{State: StateCart}, ErrUnknownCheckout
	}
	if err := f.payments.VerifySignature(resp.OrderID, resp.PaymentID, resp.Signature); err != nil {
		f.mu.Unlock()
		f.log.WithFields(logrus.Fields{"user_id": userID, "gateway_order_id": resp.OrderID}).Warn("rejected payment confirmation")
		return Result{State: StateGatewayRedirect, Quote: pc.quote}, err
	}
	// claimed while the order is written so a concurrent callback cannot
	// place it twice
	delete(f.pending, resp.OrderID)
	f.mu.Unlock()

	res, err = f.place(ctx, pc, models.StatusCompleted, resp.PaymentID)
	if err != nil {
		// the payment went through; keep the checkout so the callback can be retried
		f.mu.Lock()
		f.pending[resp.OrderID] = pc
		f.mu.Unlock()
		f.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "gateway_order_id": resp.OrderID}).Error("paid checkout not recorded")
		res.State = StateGatewayRedirect
		return res, err
	}
	return res, nil
}

// Cancel abandons a gateway checkout. The cart is left as it is and cancelling
// an unknown checkout does nothing.
func (f *Flow) Cancel(_ context.Context, userID, gatewayOrderID string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pc, ok := f.pending[gatewayOrderID]; ok && pc.userID == userID {
		delete(f.pending, gatewayOrderID)
		f.log.WithFields(logrus.Fields{"user_id": userID, "gateway_order_id": gatewayOrderID}).Info("checkout cancelled")
	}
	return Result{State: StateCart}
}

func (f *Flow) place(ctx context.Context, pc pendingCheckout, status models.OrderStatus, paymentID string) (Result, error) {
	order, err := f.orders.Create(ctx, models.NewOrder{
		UserID:        pc.userID,
		Items:         pc.items,
		Subtotal:      pc.quote.Subtotal,
		Shipping:      pc.quote.Shipping,
		Discount:      pc.quote.Discount,
		PromoCode:     pc.quote.Promo.Code,
		Total:         pc.quote.Total,
		Status:        status,
		PaymentMethod: pc.request.PaymentMethod,
		PaymentID:     paymentID,
		Address:       pc.request.FormattedAddress(),
		Phone:         strings.TrimSpace(pc.request.Phone),
	})
	if err != nil {
		return Result{State: StateCart, Quote: pc.quote}, err
	}
	f.log.WithFields(logrus.Fields{"order_id": order.ID, "state": StateOrderCreated}).Debug("checkout placed order")

	f.notify(pc.request.Email, order)
	return Result{State: StateCartCleared, Quote: pc.quote, Order: &order}, nil
}

func (f *Flow) notify(email string, order models.Order) {
	if f.notifier == nil || email == "" {
		return
	}
	f.notifications.Add(1)
	go func() {
		defer f.notifications.Done()
		if err := f.notifier.SendOrderConfirmationEmail(email, order); err != nil {
			f.log.WithError(err).WithField("order_id", order.ID).Warn("failed to send order confirmation")
		}
	}()
}

// Wait blocks until every confirmation email has been handed off
func (f *Flow) Wait() {
	f.notifications.Wait()
}
