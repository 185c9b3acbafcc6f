// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"livwell/accounts"
	"livwell/blend"
	"livwell/cart"
	"livwell/catalog"
	"livwell/checkout"
	"livwell/config"
	"livwell/controllers"
	"livwell/orders"
	"livwell/payment"
	"livwell/promo"
	"livwell/routes"
	"livwell/session"
	"livwell/store"
	"livwell/telemetry"
	"livwell/utils"
)

const (
	serviceName       = "livwell"
	readTimeout       = 1 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 1 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// Load environment variables from .env file
	cfg, dotenv, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	log, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}
	if !dotenv {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	shutdownTracing, err := telemetry.Setup(serviceName, cfg.TraceStdout, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("failed to flush traces")
		}
	}()

	catalogStore, err := catalog.Default()
	if err != nil {
		return err
	}

	sessions, closeSessions, err := openSessions(cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	users, orderRepo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	accountStore := accounts.NewStore(users)
	if cfg.StoreDriver == config.DriverMemory {
		if err := accounts.Seed(ctx, accountStore, accounts.DemoUsers); err != nil {
			return err
		}
	}

	// Initialize EmailService
	emailService, err := utils.NewEmailService(utils.EmailConfig{
		Provider:      cfg.EmailProvider,
		PostmarkToken: cfg.PostmarkAPIToken,
		SendgridKey:   cfg.SendgridAPIKey,
		Sender:        cfg.EmailSender,
		StoreName:     cfg.StoreName,
		Currency:      cfg.Currency,
		Items:         catalogStore,
	}, log)
	if err != nil {
		return err
	}

	var gateway payment.Gateway = payment.Unconfigured
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		log.Warn("RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set, online payments are disabled")
	}

	mergePolicy, err := cart.ParseMergePolicy(cfg.CartMerge)
	if err != nil {
		return err
	}

	cartLedger := cart.NewLedger(sessions)
	orderLedger := orders.NewLedger(orderRepo, cartLedger, log)
	payments := payment.NewService(gateway, payment.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Currency:  cfg.Currency,
	}, log)
	blendEngine := blend.NewEngine(catalogStore.BlendOptions())
	flow := checkout.NewFlow(cartLedger, orderLedger, payments, promo.NewEngine(promo.DefaultCodes), emailService, checkout.Config{
		Shipping:   cfg.ShippingFee,
		StoreName:  cfg.StoreName,
		ThemeColor: cfg.ThemeColor,
	}, log)
	defer flow.Wait()

	// Initialize controllers
	ctrls := routes.Controllers{
		User:     controllers.NewUserController(accounts.NewService(accountStore, log), cartLedger, sessions, mergePolicy, log),
		Catalog:  controllers.NewCatalogController(catalogStore),
		Blend:    controllers.NewBlendController(blendEngine),
		Cart:     controllers.NewCartController(cartLedger, catalogStore, blendEngine, flow, log),
		Order:    controllers.NewOrderController(orderLedger, log),
		Checkout: controllers.NewCheckoutController(flow, log),
		Payment:  controllers.NewPaymentController(payments),
	}

	// Set up the router
	router := mux.NewRouter()
	router.Use(telemetry.Middleware(serviceName, otel.GetTracerProvider()))
	routes.RegisterRoutes(router, ctrls, cfg.SessionTTL)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server is running")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-done:
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openSessions(cfg config.Config, log *logrus.Logger) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, keeping sessions in memory")
		return session.NewMemoryStore(), func() {}, nil
	}
	rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis")
		}
	}, nil
}

func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (store.UserRepository, store.OrderRepository, func(), error) {
	if cfg.StoreDriver != config.DriverMongo {
		return store.NewMemoryUserRepository(), store.NewMemoryOrderRepository(), func() {}, nil
	}

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("failed to disconnect from mongo")
		}
	}

	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return store.NewMongoUserRepository(db), store.NewMongoOrderRepository(db), closeFn, nil
}
