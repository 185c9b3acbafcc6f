// Package config reads the service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage drivers for users and orders
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

type Config struct {
	Port      string
	JWTSecret string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string

	RedisURL   string
	SessionTTL time.Duration
	CartMerge  string

	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string
	ShippingFee       decimal.Decimal
	StoreName         string
	ThemeColor        string

	EmailProvider    string
	PostmarkAPIToken string
	SendgridAPIKey   string
	EmailSender      string

	LogLevel    string
	LogFormat   string
	TraceStdout bool
}

// Load reads .env (if any) and then the environment. Every invalid value is
// reported in the returned error.
func Load(envFiles ...string) (Config, bool, error) {
	dotenv := godotenv.Load(envFiles...) == nil
	cfg, err := FromEnv(os.Getenv)
	return cfg, dotenv, err
}

// FromEnv builds a Config from getenv
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:              get("PORT", "8000"),
		JWTSecret:         getenv("JWT_SECRET"),
		StoreDriver:       get("STORE_DRIVER", DriverMemory),
		MongoURI:          get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     get("MONGO_DATABASE", "livwell"),
		RedisURL:          getenv("REDIS_URL"),
		CartMerge:         get("CART_MERGE", "none"),
		RazorpayKeyID:     getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: getenv("RAZORPAY_KEY_SECRET"),
		Currency:          get("CURRENCY", "INR"),
		StoreName:         get("STORE_NAME", "Livwell"),
		ThemeColor:        get("THEME_COLOR", "#4CAF50"),
		EmailProvider:     getenv("EMAIL_PROVIDER"),
		PostmarkAPIToken:  getenv("POSTMARK_API_TOKEN"),
		SendgridAPIKey:    getenv("SENDGRID_API_KEY"),
		EmailSender:       get("EMAIL_SENDER", "orders@livwell.example"),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogFormat:         get("LOG_FORMAT", "text"),
	}

	var errs []error

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver))
	}

	ttl, err := time.ParseDuration(get("SESSION_TTL", "0s"))
	if err != nil || ttl < 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL: invalid duration %q", getenv("SESSION_TTL")))
	}
	cfg.SessionTTL = ttl

	fee, err := decimal.NewFromString(get("SHIPPING_FEE", "5.99"))
	if err != nil || fee.IsNegative() {
		errs = append(errs, fmt.Errorf("SHIPPING_FEE: invalid amount %q", getenv("SHIPPING_FEE")))
	}
	cfg.ShippingFee = fee

	trace, err := strconv.ParseBool(get("TRACE_STDOUT", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TRACE_STDOUT: %w", err))
	}
	cfg.TraceStdout = trace

	return cfg, errors.Join(errs...)
}
