package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// Catalog sources.
const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers      []string
	EventsTopic  string
	CatalogTopic string
	GroupID      string

	TLS           bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the pre-approval cache is switched on.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type PreApprovalConfig struct {
	// URL of the pre-approval endpoint. Empty selects the in-process stub.
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

type PricingConfig struct {
	Currency         money.Currency
	RoundingScale    int32
	RecalcStrategy   valueobject.RecalcStrategy
	SurchargeRate    decimal.Decimal
	InsuranceLoading decimal.Decimal
}

type AuthConfig struct {
	JWTSecret        string
	JWTPublicKey     string
	JWTPublicKeyFile string
}

// Enabled reports whether any verification key was configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWTPublicKey != "" || a.JWTPublicKeyFile != ""
}

type Config struct {
	GRPCPort       int
	GRPCReflection bool
	HTTPPort       int
	HTTPRateLimit  int
	LogLevel       string
	LogFormat      string
	CatalogSource  string
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	PreApproval    PreApprovalConfig
	Pricing        PricingConfig
	Auth           AuthConfig
	OTLPEndpoint   string
	TLSCertFile    string
	TLSKeyFile     string
	ServiceName    string
}

// Validate checks the settings that have no safe default.
func (c Config) Validate() error {
	if c.CatalogSource != CatalogStatic && c.CatalogSource != CatalogPostgres {
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogStatic, CatalogPostgres, c.CatalogSource)
	}
	if c.CatalogSource == CatalogPostgres && c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required for the postgres catalog")
	}
	if c.Pricing.RoundingScale < 0 || c.Pricing.RoundingScale > c.Pricing.Currency.MinorUnit() {
		return fmt.Errorf("ROUNDING_SCALE must be between 0 and %d", c.Pricing.Currency.MinorUnit())
	}
	if c.Pricing.SurchargeRate.IsNegative() || c.Pricing.InsuranceLoading.IsNegative() {
		return fmt.Errorf("SURCHARGE_RATE and INSURANCE_LOADING must not be negative")
	}
	if c.HTTPRateLimit < 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT_RPS must not be negative")
	}
	if c.PreApproval.MaxRetries < 0 {
		return fmt.Errorf("PREAPPROVAL_MAX_RETRIES must not be negative")
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	currency, err := money.Lookup(strings.ToUpper(getEnv("CURRENCY", money.PEN.Code())))
	if err != nil {
		return Config{}, fmt.Errorf("CURRENCY: %w", err)
	}
	strategy, err := valueobject.ParseRecalcStrategy(getEnv("RECALC_STRATEGY", string(valueobject.RecalcRecompute)))
	if err != nil {
		return Config{}, fmt.Errorf("RECALC_STRATEGY: %w", err)
	}
	surcharge, err := getEnvDecimal("SURCHARGE_RATE", "0.18")
	if err != nil {
		return Config{}, err
	}
	loading, err := getEnvDecimal("INSURANCE_LOADING", "0.00058")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9090),
		GRPCReflection: getEnv("GRPC_REFLECTION", "false") == "true",
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		HTTPRateLimit:  getEnvInt("HTTP_RATE_LIMIT_RPS", 0),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CatalogSource:  strings.ToLower(getEnv("CATALOG_SOURCE", CatalogStatic)),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "cuotakiwi"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "cuotakiwi_quotes"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvList("KAFKA_BROKERS"),
			EventsTopic:  getEnv("KAFKA_EVENTS_TOPIC", "quote.events"),
			CatalogTopic: getEnv("KAFKA_CATALOG_TOPIC", "quote.rate-products"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "quote-service"),

			TLS:           getEnv("KAFKA_TLS", "false") == "true",
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("PREAPPROVAL_CACHE_TTL", 2*time.Minute),
		},
		PreApproval: PreApprovalConfig{
			URL:        getEnv("PREAPPROVAL_URL", ""),
			Timeout:    getEnvDuration("PREAPPROVAL_TIMEOUT", 10*time.Second),
			MaxRetries: getEnvInt("PREAPPROVAL_MAX_RETRIES", 3),
		},
		Pricing: PricingConfig{
			Currency:         currency,
			RoundingScale:    int32(getEnvInt("ROUNDING_SCALE", 0)),
			RecalcStrategy:   strategy,
			SurchargeRate:    surcharge,
			InsuranceLoading: loading,
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTPublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
		},
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		ServiceName:  "quote-service",
	}
	return cfg, cfg.Validate()
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
