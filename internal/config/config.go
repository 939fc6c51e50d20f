// Package config provides application configuration loaded from environment variables.
// Use the package-level Get() function to obtain the singleton Config instance.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sub-config structs
// ──────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // e.g. "8080"
	Env            string        // "development" | "production"
	ReadTimeout    time.Duration // default 10s
	WriteTimeout   time.Duration // default 10s
	AllowedOrigins []string      // production CORS + websocket origins
}

// StoreConfig selects where commitments, listings and wallets are read from.
type StoreConfig struct {
	Driver string // "memory" (seeded fixtures) | "postgres"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	DSN             string        // full postgres DSN
	MaxOpenConns    int           // default 25
	MaxIdleConns    int           // default 10
	ConnMaxLifetime time.Duration // default 5m
	MigrationsDir   string        // default "migrations"
}

// RedisConfig holds the optional commitment cache settings.
type RedisConfig struct {
	Addr     string        // "" disables the cache
	Password string
	DB       int
	TTL      time.Duration // default 30s
}

// JWTConfig holds JWT verification settings.
type JWTConfig struct {
	AccessSecret string        // must be set
	AccessTTL    time.Duration // default 15m
}

// WizardConfig holds creation wizard settings.
type WizardConfig struct {
	BalanceSource    string        // "static" | "wallet"
	AvailableBalance float64       // used when BalanceSource = static
	DefaultAsset     string        // default "XLM"
	SessionTTL       time.Duration // idle sessions are evicted after this
}

// ShareConfig holds the URLs used in share links and navigation affordances.
type ShareConfig struct {
	PublicBaseURL   string // e.g. "https://commt.app"
	CommitmentsPath string // where "back" and "not found" lead
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ──────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ──────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for the entire application.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Wizard  WizardConfig
	Share   ShareConfig
	Metrics MetricsConfig
}

// IsProd returns true when running in the production environment.
func (c *Config) IsProd() bool {
	return c.Server.Env == "production"
}

// UsesPostgres returns true when the store driver is postgres.
func (c *Config) UsesPostgres() bool {
	return c.Store.Driver == "postgres"
}

// Validate checks that all required configuration values are present and valid.
// All problems are returned joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET must be set"))
	}

	switch c.Store.Driver {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be memory or postgres, got %q", c.Store.Driver))
	}
	if c.UsesPostgres() && c.DB.DSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must be set when STORE_DRIVER=postgres"))
	}

	switch c.Wizard.BalanceSource {
	case "static":
		if c.Wizard.AvailableBalance < 0 {
			errs = append(errs, fmt.Errorf("WIZARD_AVAILABLE_BALANCE must not be negative, got %.2f", c.Wizard.AvailableBalance))
		}
	case "wallet":
		if !c.UsesPostgres() {
			errs = append(errs, errors.New("WIZARD_BALANCE_SOURCE=wallet requires STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("WIZARD_BALANCE_SOURCE must be static or wallet, got %q", c.Wizard.BalanceSource))
	}
	if c.Wizard.DefaultAsset == "" {
		errs = append(errs, errors.New("WIZARD_DEFAULT_ASSET must not be empty"))
	}
	if c.Wizard.SessionTTL <= 0 {
		errs = append(errs, errors.New("WIZARD_SESSION_TTL must be positive"))
	}

	if c.IsProd() && c.Share.PublicBaseURL == "" {
		errs = append(errs, errors.New("PUBLIC_BASE_URL must be set in production"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Singleton
// ──────────────────────────────────────────────────────────────────────────────

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Get returns the singleton Config, loading it once from environment variables
// (and a .env file in the working directory, if present).
// Panics if loading fails — call this early in main().
func Get() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		instance, loadErr = Load()
	})
	if loadErr != nil {
		panic(fmt.Sprintf("config: failed to load: %v", loadErr))
	}
	return instance
}

// MustLoad loads and validates configuration. Intended for use in main().
func MustLoad() *Config {
	cfg := Get()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: validation failed: %v", err))
	}
	return cfg
}

// ──────────────────────────────────────────────────────────────────────────────
// Loader
// ──────────────────────────────────────────────────────────────────────────────

// Load builds a Config from the current environment without caching it.
func Load() (*Config, error) {
	cfg := &Config{}

	// ── Server ────────────────────────────────────────────────────────────────
	cfg.Server = ServerConfig{
		Port:           getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("ENVIRONMENT", "development"),
		ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		AllowedOrigins: getList("ALLOWED_ORIGINS"),
	}

	cfg.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", "memory"),
	}

	// ── Database ──────────────────────────────────────────────────────────────
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" && cfg.UsesPostgres() {
		// Build DSN from individual components for convenience in dev
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "commt"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}

	cfg.DB = DBConfig{
		DSN:             dsn,
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		MigrationsDir:   getEnv("DB_MIGRATIONS_DIR", "migrations"),
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		TTL:      getDuration("REDIS_COMMITMENT_TTL", 30*time.Second),
	}

	// ── JWT ───────────────────────────────────────────────────────────────────
	cfg.JWT = JWTConfig{
		AccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		AccessTTL:    getDuration("JWT_ACCESS_TTL", 15*time.Minute),
	}

	// ── Wizard ────────────────────────────────────────────────────────────────
	balance, err := getFloat("WIZARD_AVAILABLE_BALANCE", 10000)
	if err != nil {
		return nil, fmt.Errorf("WIZARD_AVAILABLE_BALANCE: %w", err)
	}
	cfg.Wizard = WizardConfig{
		BalanceSource:    getEnv("WIZARD_BALANCE_SOURCE", "static"),
		AvailableBalance: balance,
		DefaultAsset:     getEnv("WIZARD_DEFAULT_ASSET", "XLM"),
		SessionTTL:       getDuration("WIZARD_SESSION_TTL", 30*time.Minute),
	}

	// ── Share / navigation ────────────────────────────────────────────────────
	cfg.Share = ShareConfig{
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		CommitmentsPath: getEnv("COMMITMENTS_PATH", "/commitments"),
	}

	metricsOn, err := getBool("METRICS_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("METRICS_ENABLED: %w", err)
	}
	cfg.Metrics = MetricsConfig{Enabled: metricsOn}

	return cfg, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper functions
// ──────────────────────────────────────────────────────────────────────────────

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q", v)
	}
	return f, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool %q", v)
	}
	return b, nil
}

// getList splits a comma-separated env var, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getDuration parses an env var as a Go duration string (e.g. "15m", "2s").
// Falls back to defaultVal if the variable is unset or unparsable.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
