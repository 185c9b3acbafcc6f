package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livwell/cart"
	"livwell/models"
	"livwell/orders"
	"livwell/payment"
	"livwell/payment/paymenttest"
	"livwell/promo"
	"livwell/session"
	"livwell/store"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string]string
}

func (n *recordingNotifier) SendOrderConfirmationEmail(to string, order models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[order.ID] = to
	return nil
}

type fixture struct {
	flow     *Flow
	carts    *cart.Ledger
	orders   *orders.Ledger
	notifier *recordingNotifier
	gateway  func(context.Context, models.GatewayOrderRequest) (models.GatewayOrder, error)
	requests []models.GatewayOrderRequest
}

const userID = "user-1"

func newFixture(t *testing.T, secret string) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	fx := &fixture{notifier: &recordingNotifier{sent: map[string]string{}}}
	fx.gateway = func(_ context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
		return models.GatewayOrder{OrderID: "order_gw1", Amount: req.Amount, Currency: req.Currency}, nil
	}
	gw := payment.GatewayFunc(func(ctx context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
		fx.requests = append(fx.requests, req)
		return fx.gateway(ctx, req)
	})

	fx.carts = cart.NewLedger(session.NewMemoryStore())
	fx.orders = orders.NewLedger(store.NewMemoryOrderRepository(), fx.carts, log)
	payments := payment.NewService(gw, payment.Config{KeyID: "rzp_test", KeySecret: secret}, log)
	fx.flow = NewFlow(fx.carts, fx.orders, payments, promo.NewEngine(promo.DefaultCodes), fx.notifier, Config{
		Shipping:   decimal.RequireFromString("5.99"),
		StoreName:  "Livwell",
		ThemeColor: "#4CAF50",
	}, log)
	return fx
}

func (fx *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	owner := models.Authenticated(userID)
	_, err := fx.carts.AddItem(ctx, owner, models.CartItem{JuiceID: "1", Quantity: 2, Price: decimal.RequireFromString("69.99")})
	require.NoError(t, err)
	_, err = fx.carts.AddItem(ctx, owner, models.CartItem{
		IsCustom: true, Quantity: 1, Price: decimal.NewFromInt(45),
		CustomName: "Custom Apple Juice", CustomIngredients: []string{"Water", "Apple"},
	})
	require.NoError(t, err)
}

func (fx *fixture) cartItems(t *testing.T) []models.CartItem {
	t.Helper()
	items, err := fx.carts.Items(context.Background(), models.Authenticated(userID))
	require.NoError(t, err)
	return items
}

func (fx *fixture) orderCount(t *testing.T) int {
	t.Helper()
	list, err := fx.orders.ForUser(context.Background(), userID)
	require.NoError(t, err)
	return len(list)
}

func form(method models.PaymentMethod, code string) Request {
	return Request{
		PaymentMethod: method,
		PromoCode:     code,
		Name:          "John Doe",
		Email:         "john@example.com",
		Phone:         "9999999999",
		Address:       "12 MG Road",
		City:          "Pune",
		ZipCode:       "411001",
	}
}

func TestQuoteScenario(t *testing.T) {
	fx := newFixture(t, "")
	fx.fillCart(t)

	q, err := fx.flow.Quote(fx.cartItems(t), "WELCOME20")
	require.NoError(t, err)
	assert.Equal(t, "184.98", q.Subtotal.String())
	assert.Equal(t, "36.996", q.Discount.String())
	assert.Equal(t, "5.99", q.Shipping.String())
	assert.Equal(t, "153.974", q.Total.String())

	q, err = fx.flow.Quote(fx.cartItems(t), "")
	require.NoError(t, err)
	assert.Equal(t, "190.97", q.Total.String())

	_, err = fx.flow.Quote(fx.cartItems(t), "bogus")
	assert.ErrorIs(t, err, promo.ErrInvalidCode)
}

func TestSubmitCOD(t *testing.T) {
	fx := newFixture(t, "")
	fx.fillCart(t)

	res, err := fx.flow.Submit(context.Background(), userID, form(models.PaymentCOD, "welcome20"))
	require.NoError(t, err)
	fx.flow.Wait()

	assert.Equal(t, StateCartCleared, res.State)
	require.NotNil(t, res.Order)
	assert.Equal(t, models.StatusPending, res.Order.Status)
	assert.Equal(t, "153.974", res.Order.Total.String())
	assert.Equal(t, "WELCOME20", res.Order.PromoCode)
	assert.Equal(t, "12 MG Road, Pune, 411001", res.Order.Address)
	assert.Len(t, res.Order.Items, 2)
	assert.Empty(t, res.Order.PaymentID)

	assert.Empty(t, fx.cartItems(t))
	assert.Empty(t, fx.requests, "cash on delivery never touches the gateway")
	assert.Equal(t, "john@example.com", fx.notifier.sent[res.Order.ID])
}

func TestSubmitValidation(t *testing.T) {
	fx := newFixture(t, "")

	_, err := fx.flow.Submit(context.Background(), userID, form(models.PaymentCOD, ""))
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = fx.flow.Submit(context.Background(), userID, form("card", ""))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	req := form(models.PaymentCOD, "")
	req.City = " "
	_, err = fx.flow.Submit(context.Background(), userID, req)
	assert.ErrorIs(t, err, ErrMissingDetails)

	fx.fillCart(t)
	res, err := fx.flow.Submit(context.Background(), userID, form(models.PaymentCOD, "nope"))
	assert.ErrorIs(t, err, promo.ErrInvalidCode)
	assert.Equal(t, StateCart, res.State)
	assert.Len(t, fx.cartItems(t), 2)
	assert.Zero(t, fx.orderCount(t))
}

func TestSubmitUPIThenConfirm(t *testing.T) {
	fx := newFixture(t, "secret")
	fx.fillCart(t)
	ctx := context.Background()

	res, err := fx.flow.Submit(ctx, userID, form(models.PaymentUPI, "WELCOME20"))
	require.NoError(t, err)
	assert.Equal(t, StateGatewayRedirect, res.State)
	require.Len(t, fx.requests, 1)
	assert.Equal(t, int64(15397), fx.requests[0].Amount)

	require.NotNil(t, res.Payment)
	assert.Equal(t, "rzp_test", res.Payment.Key)
	assert.Equal(t, int64(15397), res.Payment.Amount)
	assert.Equal(t, "INR", res.Payment.Currency)
	assert.Equal(t, "order_gw1", res.Payment.OrderID)
	assert.Equal(t, "Livwell", res.Payment.Name)
	assert.Equal(t, "9999999999", res.Payment.Prefill.Contact)
	assert.Equal(t, "#4CAF50", res.Payment.Theme.Color)

	assert.Equal(t, StateGatewayRedirect, fx.flow.State(userID))
	assert.Zero(t, fx.orderCount(t), "no order before payment")
	assert.Len(t, fx.cartItems(t), 2)

	_, err = fx.flow.Confirm(ctx, userID, models.GatewayResponse{OrderID: "order_gw1", PaymentID: "pay_1", Signature: "forged"})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Zero(t, fx.orderCount(t))

	_, err = fx.flow.Confirm(ctx, "user-2", models.GatewayResponse{OrderID: "order_gw1", PaymentID: "pay_1"})
	assert.ErrorIs(t, err, ErrUnknownCheckout)

	res, err = fx.flow.Confirm(ctx, userID, models.GatewayResponse{
		OrderID:   "order_gw1",
		PaymentID: "pay_1",
		Signature: paymenttest.Sign("secret", "order_gw1", "pay_1"),
	})
	require.NoError(t, err)
	fx.flow.Wait()

	assert.Equal(t, StateCartCleared, res.State)
	require.NotNil(t, res.Order)
	assert.Equal(t, models.StatusCompleted, res.Order.Status)
	assert.Equal(t, "pay_1", res.Order.PaymentID)
	assert.Equal(t, models.PaymentUPI, res.Order.PaymentMethod)
	assert.Empty(t, fx.cartItems(t))
	assert.Equal(t, StateCart, fx.flow.State(userID))

	_, err = fx.flow.Confirm(ctx, userID, models.GatewayResponse{OrderID: "order_gw1", PaymentID: "pay_1"})
	assert.ErrorIs(t, err, ErrUnknownCheckout, "a checkout completes once")
}

func TestSubmitUPIGatewayFailure(t *testing.T) {
	fx := newFixture(t, "")
	fx.fillCart(t)
	fx.gateway = func(context.Context, models.GatewayOrderRequest) (models.GatewayOrder, error) {
		return models.GatewayOrder{}, errors.New("gateway down")
	}

	res, err := fx.flow.Submit(context.Background(), userID, form(models.PaymentUPI, ""))
	assert.ErrorIs(t, err, payment.ErrGateway)
	assert.Equal(t, StateCart, res.State)
	assert.Nil(t, res.Payment)
	assert.Len(t, fx.cartItems(t), 2)
	assert.Zero(t, fx.orderCount(t))
	assert.Equal(t, StateCart, fx.flow.State(userID))
}

func TestCancelLeavesCartAlone(t *testing.T) {
	fx := newFixture(t, "")
	fx.fillCart(t)
	ctx := context.Background()

	_, err := fx.flow.Submit(ctx, userID, form(models.PaymentUPI, ""))
	require.NoError(t, err)

	res := fx.flow.Cancel(ctx, userID, "order_gw1")
	assert.Equal(t, StateCart, res.State)
	assert.Len(t, fx.cartItems(t), 2)
	assert.Zero(t, fx.orderCount(t))

	_, err = fx.flow.Confirm(ctx, userID, models.GatewayResponse{OrderID: "order_gw1", PaymentID: "pay_1"})
	assert.ErrorIs(t, err, ErrUnknownCheckout)

	assert.Equal(t, StateCart, fx.flow.Cancel(ctx, userID, "order_gw1").State)
}

func TestStateWhileAwaitingGateway(t *testing.T) {
	fx := newFixture(t, "")
	fx.fillCart(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	fx.gateway = func(_ context.Context, req models.GatewayOrderRequest) (models.GatewayOrder, error) {
		close(entered)
		<-release
		return models.GatewayOrder{OrderID: "order_gw2", Amount: req.Amount, Currency: req.Currency}, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fx.flow.Submit(context.Background(), userID, form(models.PaymentUPI, ""))
	}()

	<-entered
	assert.Equal(t, StateAwaitingGatewayOrder, fx.flow.State(userID))
	close(release)
	<-done
	assert.Equal(t, StateGatewayRedirect, fx.flow.State(userID))
}

type flakyOrders struct {
	next  Orders
	fails int
}

func (o *flakyOrders) Create(ctx context.Context, in models.NewOrder) (models.Order, error) {
	if o.fails > 0 {
		o.fails--
		return models.Order{}, errors.New("mongo down")
	}
	return o.next.Create(ctx, in)
}

func TestConfirmRetriesAfterOrderStoreFailure(t *testing.T) {
	fx := newFixture(t, "secret")
	fx.flow.orders = &flakyOrders{next: fx.orders, fails: 1}
	fx.fillCart(t)
	ctx := context.Background()

	_, err := fx.flow.Submit(ctx, userID, form(models.PaymentUPI, ""))
	require.NoError(t, err)

	paid := models.GatewayResponse{
		OrderID:   "order_gw1",
		PaymentID: "pay_1",
		Signature: paymenttest.Sign("secret", "order_gw1", "pay_1"),
	}
	res, err := fx.flow.Confirm(ctx, userID, paid)
	assert.ErrorContains(t, err, "mongo down")
	assert.Equal(t, StateGatewayRedirect, res.State)
	assert.Equal(t, StateGatewayRedirect, fx.flow.State(userID))
	assert.Zero(t, fx.orderCount(t))
	assert.Len(t, fx.cartItems(t), 2)

	res, err = fx.flow.Confirm(ctx, userID, paid)
	require.NoError(t, err)
	fx.flow.Wait()
	assert.Equal(t, StateCartCleared, res.State)
	require.NotNil(t, res.Order)
	assert.Equal(t, "pay_1", res.Order.PaymentID)
	assert.Equal(t, 1, fx.orderCount(t))
	assert.Empty(t, fx.cartItems(t))
}
