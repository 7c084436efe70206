package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration
	API             APIConfig
	Storage         StorageConfig
	Database        DatabaseConfig
	Keys            KeysConfig
	Checkout        CheckoutConfig
	CORS            CORSConfig
	// LocalMenuPath optionally names a JSON file of items sold outside the catalog
	LocalMenuPath   string
}

// APIConfig points at the remote storefront API
type APIConfig struct {
	BaseURL     string
	CallTimeout time.Duration
}

type StorageConfig struct {
	Backend   string // memory, redis or postgres
	RedisAddr string
	RedisDB   int
	// SessionTTL bounds how long a session scoped key survives without writes
	SessionTTL time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL returns the postgres:// form used by golang-migrate
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// KeysConfig names the persisted keys
type KeysConfig struct {
	Cart     string
	User     string
	Checkout string
}

type CheckoutConfig struct {
	RedirectDelay time.Duration
	LoginPath     string
	DonePath      string
	DefaultCity   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:            getEnvOrViper("PORT", "8080"),
		Environment:     getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:        getEnvOrViper("LOG_LEVEL", "info"),
		ShutdownTimeout: getSecondsOrViper("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		API: APIConfig{
			BaseURL:     strings.TrimSuffix(getEnvOrViper("WEMPY_API_BASE_URL", "https://wempy.onrender.com"), "/"),
			CallTimeout: getSecondsOrViper("WEMPY_API_TIMEOUT_SECONDS", 15*time.Second),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnvOrViper("STORAGE_BACKEND", "memory")),
			RedisAddr:  getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			RedisDB:    getIntOrViper("REDIS_DB", 0),
			SessionTTL: getSecondsOrViper("SESSION_TTL_SECONDS", 12*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Keys: KeysConfig{
			Cart:     getEnvOrViper("CART_KEY", "wempyCart"),
			User:     getEnvOrViper("USER_KEY", "wempyUserID"),
			Checkout: getEnvOrViper("CHECKOUT_KEY", "wempyCheckout"),
		},
		Checkout: CheckoutConfig{
			RedirectDelay: time.Duration(getIntOrViper("CHECKOUT_REDIRECT_DELAY_MS", 2000)) * time.Millisecond,
			LoginPath:     getEnvOrViper("CHECKOUT_LOGIN_PATH", "login.html"),
			DonePath:      getEnvOrViper("CHECKOUT_DONE_PATH", "login.html"),
			DefaultCity:   getEnvOrViper("CHECKOUT_DEFAULT_CITY", "الجيزة"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "*")),
		},
		LocalMenuPath: getEnvOrViper("LOCAL_MENU_PATH", ""),
	}

	// Validate required fields
	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("WEMPY_API_BASE_URL must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	switch cfg.Storage.Backend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be memory, redis or postgres, got %q", cfg.Storage.Backend)
	}
	if cfg.API.CallTimeout <= 0 {
		return nil, fmt.Errorf("WEMPY_API_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getIntOrViper(key string, defaultValue int) int {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func getSecondsOrViper(key string, defaultValue time.Duration) time.Duration {
	seconds := getIntOrViper(key, -1)
	if seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
