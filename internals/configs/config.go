package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] no .env file found, using system ENV")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

/* =========================================================
   Payment gateway config
   Adapters receive this at construction and never read ENV
   at call time.
========================================================= */

type PaymentConfig struct {
	MidtransServerKey string
	MidtransUseProd   bool

	StripeSecretKey     string
	StripeWebhookSecret string

	// Upper bound for a single outbound gateway call.
	GatewayTimeout time.Duration
}

func LoadPaymentConfig() PaymentConfig {
	timeout := 20 * time.Second
	if raw := GetEnv("PAYMENT_GATEWAY_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		} else {
			log.Printf("[WARN] invalid PAYMENT_GATEWAY_TIMEOUT %q, keeping %s", raw, timeout)
		}
	}

	cfg := PaymentConfig{
		MidtransServerKey:   GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:     GetEnvBool("MIDTRANS_USE_PROD", false),
		StripeSecretKey:     GetEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET"),
		GatewayTimeout:      timeout,
	}

	if cfg.MidtransServerKey == "" {
		log.Println("[WARN] MIDTRANS_SERVER_KEY is not set")
	}
	if cfg.StripeSecretKey == "" {
		log.Println("[WARN] STRIPE_SECRET_KEY is not set")
	}

	return cfg
}
