package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Security   SecurityConfig   `yaml:"security"`
	Reports    ReportsConfig    `yaml:"reports"`
	Events     EventsConfig     `yaml:"events"`
	Logging    LoggingConfig    `yaml:"logging"`
	Pagination PaginationConfig `yaml:"pagination"`
}

type ServerConfig struct {
	Port             string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Host             string        `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	Environment      string        `yaml:"environment" env:"APP_ENV" env-default:"development"`
	ReadTimeout      time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	BodyLimit        string        `yaml:"body_limit" env:"SERVER_BODY_LIMIT" env-default:"1M"`
	CORSAllowOrigins string        `yaml:"cors_allow_origins" env:"CORS_ALLOW_ORIGINS"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"budgetron"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"budgetron"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"budgetron"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	SQLitePath      string        `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"budgetron.db"`
	MaxConnections  int           `yaml:"max_connections" env:"DB_MAX_CONNECTIONS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`
	SeedOnStart     bool          `yaml:"seed_on_start" env:"SEED_DATABASE" env-default:"true"`
}

type JWTConfig struct {
	AccessTokenDuration  time.Duration `yaml:"access_token_duration" env:"JWT_ACCESS_TOKEN_DURATION" env-default:"24h"`
	RefreshTokenDuration time.Duration `yaml:"refresh_token_duration" env:"JWT_REFRESH_TOKEN_DURATION" env-default:"168h"`
	Issuer               string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"budgetron-api"`
	PrivateKeyB64        string        `yaml:"-" env:"JWT_PRIVATE_KEY"`
	PublicKeyB64         string        `yaml:"-" env:"JWT_PUBLIC_KEY"`

	PrivateKey *rsa.PrivateKey `yaml:"-"`
	PublicKey  *rsa.PublicKey  `yaml:"-"`
}

type SecurityConfig struct {
	BCryptCost             int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
	RateLimitPerSecond     int `yaml:"rate_limit_per_second" env:"RATE_LIMIT_PER_SECOND" env-default:"20"`
	AuthRateLimitPerSecond int `yaml:"auth_rate_limit_per_second" env:"AUTH_RATE_LIMIT_PER_SECOND" env-default:"5"`
}

type ReportsConfig struct {
	Directory string `yaml:"directory" env:"REPORTS_DIR" env-default:"static/reports"`
	BaseURL   string `yaml:"base_url" env:"REPORTS_BASE_URL" env-default:"/static/reports"`
}

type EventsConfig struct {
	AMQPURL      string `yaml:"amqp_url" env:"AMQP_URL"`
	ExchangeName string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"budgetron"`
	QueueName    string `yaml:"queue" env:"AMQP_REPORTS_QUEUE" env-default:"reports.generated"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type PaginationConfig struct {
	DefaultPerPage int `yaml:"default_per_page" env:"PAGINATION_DEFAULT_PER_PAGE" env-default:"10"`
	MaxPerPage     int `yaml:"max_per_page" env:"PAGINATION_MAX_PER_PAGE" env-default:"100"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// named by CONFIG_PATH and finally the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var err error
	cfg.JWT.PrivateKey, cfg.JWT.PublicKey, err = cfg.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load for process entry points.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: expected %q or %q", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Pagination.DefaultPerPage < 1 {
		return fmt.Errorf("PAGINATION_DEFAULT_PER_PAGE must be positive")
	}
	if c.Pagination.MaxPerPage < c.Pagination.DefaultPerPage {
		return fmt.Errorf("PAGINATION_MAX_PER_PAGE must be at least PAGINATION_DEFAULT_PER_PAGE")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// MigrationURL is the DSN in URL form, which golang-migrate's postgres driver expects.
func (c *DatabaseConfig) MigrationURL() string {
	if c.Driver == DriverSQLite {
		return "sqlite://" + c.SQLitePath
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS, defaulting to all origins.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.Server.CORSAllowOrigins) == "" {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, defaulting to '*'")
		}
		return []string{"*"}
	}

	origins := strings.Split(c.Server.CORSAllowOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

// loadJWTKeys loads RSA keys for JWT signing and verification.
// Explicit keys always win; production refuses to start without them and
// other environments fall back to an ephemeral keypair.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	if c.JWT.PrivateKeyB64 != "" && c.JWT.PublicKeyB64 != "" {
		return loadKeysFromBase64(c.JWT.PrivateKeyB64, c.JWT.PublicKeyB64)
	}

	if c.IsProduction() {
		return nil, nil, fmt.Errorf("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY environment variables must be set in production environments")
	}

	slog.Info("generating ephemeral RSA keypair for JWT; set JWT_PRIVATE_KEY and JWT_PUBLIC_KEY to persist sessions across restarts")
	return GenerateRSAKeyPair()
}

func loadKeysFromBase64(privateKeyB64, publicKeyB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := loadRSAPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey, err := loadRSAPublicKey(publicKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return privateKey, publicKey, nil
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

func loadRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey, nil
	}

	// PKCS8 as produced by openssl genpkey
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return rsaKey, nil
}

func loadRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
