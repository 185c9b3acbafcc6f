// routes/routes.go
package routes

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"livwell/controllers"
	"livwell/middleware"
)

// Controllers groups every controller the router serves
type Controllers struct {
	User     *controllers.UserController
	Catalog  *controllers.CatalogController
	Blend    *controllers.BlendController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Checkout *controllers.CheckoutController
	Payment  *controllers.PaymentController
}

func protected(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(h)
}

func optional(h http.HandlerFunc) http.Handler {
	return middleware.OptionalAuth(h)
}

// RegisterRoutes sets up all the routes for the application. Every client
// gets a session cookie; sessionTTL bounds its lifetime (0 for a browser
// session cookie).
func RegisterRoutes(router *mux.Router, c Controllers, sessionTTL time.Duration) {
	router.Use(middleware.SessionMiddleware(sessionTTL))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	// Catalog routes
	router.HandleFunc("/juices", c.Catalog.GetJuices).Methods("GET")
	router.HandleFunc("/juices/{id}", c.Catalog.GetJuice).Methods("GET")
	router.HandleFunc("/dishes", c.Catalog.GetDishes).Methods("GET")
	router.HandleFunc("/dishes/{id}", c.Catalog.GetDish).Methods("GET")
	router.HandleFunc("/blend/options", c.Blend.GetOptions).Methods("GET")
	router.HandleFunc("/blend/quote", c.Blend.Quote).Methods("POST")
	router.HandleFunc("/nutrition/calories", controllers.Calories).Methods("POST")

	// Account routes
	router.HandleFunc("/register", c.User.Register).Methods("POST")
	router.HandleFunc("/login", c.User.Login).Methods("POST")
	router.HandleFunc("/logout", c.User.Logout).Methods("POST")
	router.HandleFunc("/session", c.User.Session).Methods("GET")
	router.Handle("/profile", protected(c.User.GetProfile)).Methods("GET")
	router.Handle("/profile", protected(c.User.UpdateProfile)).Methods("PUT")

	// Cart routes, for guests and signed-in users
	router.Handle("/cart", optional(c.Cart.GetCart)).Methods("GET")
	router.Handle("/cart", optional(c.Cart.ClearCart)).Methods("DELETE")
	router.Handle("/cart/items", optional(c.Cart.AddToCart)).Methods("POST")
	router.Handle("/cart/custom", optional(c.Cart.AddCustomToCart)).Methods("POST")
	router.Handle("/cart/items/{id}", optional(c.Cart.UpdateQuantity)).Methods("PATCH")
	router.Handle("/cart/items/{id}", optional(c.Cart.RemoveFromCart)).Methods("DELETE")
	router.Handle("/cart/promo", optional(c.Cart.ApplyPromo)).Methods("POST")

	// Checkout and order routes
	router.Handle("/checkout", protected(c.Checkout.Status)).Methods("GET")
	router.Handle("/checkout", protected(c.Checkout.Submit)).Methods("POST")
	router.Handle("/checkout/confirm", protected(c.Checkout.Confirm)).Methods("POST")
	router.Handle("/checkout/cancel", protected(c.Checkout.Cancel)).Methods("POST")
	router.Handle("/orders", protected(c.Order.GetOrders)).Methods("GET")
	router.Handle("/orders/{id}", protected(c.Order.GetOrder)).Methods("GET")

	// Payment gateway
	router.HandleFunc("/api/create-order", c.Payment.CreateOrder).Methods("POST")
}
