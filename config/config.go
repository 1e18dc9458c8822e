package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "default_secret_CHANGE_ME"

type Config struct {
	Port              string        `env:"PORT" env-default:"8080"`
	Env               string        `env:"ENV" env-default:"development"`
	LogLevel          string        `env:"LOG_LEVEL" env-default:"info"`
	DBUrl             string        `env:"DB_DSN"`
	JWTSecret         string        `env:"JWT_SECRET" env-default:"default_secret_CHANGE_ME"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"24h"`
	AllowedOrigin     string        `env:"ALLOWED_ORIGIN" env-default:"http://localhost:3000"`
	FrontendURL       string        `env:"FRONTEND_URL" env-default:"http://localhost:3000"` // Storefront base for payment return links

	// DB Config
	DBMaxConns        int32         `env:"DB_MAX_CONNS" env-default:"50"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" env-default:"5"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" env-default:"15m"`
	RunMigrations     bool          `env:"DB_RUN_MIGRATIONS" env-default:"true"`

	// R2 Storage
	R2AccountID       string        `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string        `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string        `env:"R2_ACCESS_KEY_SECRET"`
	R2BucketName      string        `env:"R2_BUCKET_NAME"`
	R2PublicURL       string        `env:"R2_PUBLIC_URL"`
	R2UploadTimeout   time.Duration `env:"R2_UPLOAD_TIMEOUT" env-default:"30s"`
	MaxUploadSizeMB   int64         `env:"MAX_UPLOAD_SIZE_MB" env-default:"10"`

	// Cache
	CacheDeliveryTTL time.Duration `env:"CACHE_DELIVERY_TTL" env-default:"10m"`
	CacheCategoryTTL time.Duration `env:"CACHE_CATEGORY_TTL" env-default:"30m"`
	CacheStatsTTL    time.Duration `env:"CACHE_STATS_TTL" env-default:"30m"`
	CacheCitySearch  time.Duration `env:"CACHE_CITY_SEARCH_TTL" env-default:"1h"`

	// GeoNames
	GeoNamesURL      string        `env:"GEONAMES_URL" env-default:"http://api.geonames.org"`
	GeoNamesUsername string        `env:"GEONAMES_USERNAME" env-default:"demo"`
	GeoNamesTimeout  time.Duration `env:"GEONAMES_TIMEOUT" env-default:"5s"`
	GeoNamesMaxRows  int           `env:"GEONAMES_MAX_ROWS" env-default:"10"`

	// Payment gateway (hosted checkout)
	PaymentAPIURL  string        `env:"PAYMENT_API_URL"`
	PaymentAPIKey  string        `env:"PAYMENT_API_KEY"`
	PaymentTimeout time.Duration `env:"PAYMENT_TIMEOUT" env-default:"15s"`

	// Kafka (optional)
	KafkaBrokers    string `env:"KAFKA_BROKERS"`
	KafkaOrderTopic string `env:"KAFKA_ORDER_TOPIC" env-default:"orders.placed"`

	// Tracing
	OtelEnabled     bool   `env:"OTEL_ENABLED" env-default:"false"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" env-default:"sunushop-api"`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"100"`

	// Business rules
	MaxOrderQuantity int    `env:"MAX_ORDER_QUANTITY" env-default:"100"`
	HomeCountry      string `env:"HOME_COUNTRY" env-default:"SN"`
}

func LoadConfig() *Config {
	// CONFIG_FILE wins; otherwise a local .env is optional
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, relying on system env vars")
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("CRITICAL: failed to read environment: %v", err)
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == defaultJWTSecret {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.PaymentAPIURL == "" {
		log.Println("WARNING: PAYMENT_API_URL not set, online payment methods will be rejected")
	}
	c.HomeCountry = strings.ToUpper(strings.TrimSpace(c.HomeCountry))
}

// KafkaBrokerList splits KAFKA_BROKERS; empty means the publisher is disabled.
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == ""
}
