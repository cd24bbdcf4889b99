package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Cache     CacheConfig
	Checkout  CheckoutConfig
	Kitchen   KitchenConfig
	Settings  SettingsConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// IsDevelopment reports whether the app runs with development logging.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// Enabled is false when no brokers are configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type PrinterConfig struct {
	Type    string // none, usb or network
	USBPath string
	Address string
}

type StoreConfig struct {
	Name           string
	Address        string
	Phone          string
	ReceiptPrefix  string
	CurrencySymbol string
}

type CacheConfig struct {
	Driver string // memory or redis
	TTL    time.Duration
}

type CheckoutConfig struct {
	ConfirmDelay time.Duration
	// CartIdleTTL is how long an untouched terminal cart is kept in memory.
	CartIdleTTL time.Duration
}

type KitchenConfig struct {
	RemovalDelay time.Duration
}

type SettingsConfig struct {
	Dir string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads .env when present and then the environment. A missing .env is not an error.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "mscheesy-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "mscheesy")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Manila")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", []string{})
	viper.SetDefault("KAFKA_ORDER_TOPIC", "pos.orders")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("STORE_NAME", "Ms. Cheesy")
	viper.SetDefault("STORE_ADDRESS", "123 Main Street")
	viper.SetDefault("STORE_PHONE", "(555) 123-4567")
	viper.SetDefault("RECEIPT_PREFIX", "MSC")
	viper.SetDefault("CURRENCY_SYMBOL", "₱")
	viper.SetDefault("CACHE_DRIVER", "memory")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("CHECKOUT_CONFIRM_DELAY_MS", 1500)
	viper.SetDefault("CART_IDLE_TTL_MINUTES", 720)
	viper.SetDefault("KITCHEN_REMOVAL_DELAY_MS", 3000)
	viper.SetDefault("SETTINGS_DIR", "./data/settings")
	viper.SetDefault("METRICS_ENABLED", true)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:    viper.GetStringSlice("KAFKA_BROKERS"),
			OrderTopic: viper.GetString("KAFKA_ORDER_TOPIC"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		Store: StoreConfig{
			Name:           viper.GetString("STORE_NAME"),
			Address:        viper.GetString("STORE_ADDRESS"),
			Phone:          viper.GetString("STORE_PHONE"),
			ReceiptPrefix:  viper.GetString("RECEIPT_PREFIX"),
			CurrencySymbol: viper.GetString("CURRENCY_SYMBOL"),
		},
		Cache: CacheConfig{
			Driver: viper.GetString("CACHE_DRIVER"),
			TTL:    time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Checkout: CheckoutConfig{
			ConfirmDelay: time.Duration(viper.GetInt("CHECKOUT_CONFIRM_DELAY_MS")) * time.Millisecond,
			CartIdleTTL:  time.Duration(viper.GetInt("CART_IDLE_TTL_MINUTES")) * time.Minute,
		},
		Kitchen: KitchenConfig{
			RemovalDelay: time.Duration(viper.GetInt("KITCHEN_REMOVAL_DELAY_MS")) * time.Millisecond,
		},
		Settings: SettingsConfig{
			Dir: viper.GetString("SETTINGS_DIR"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
