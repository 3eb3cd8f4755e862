package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tlmonitor/dashboard/internal/models"
)

// Secret backends
const (
	SecretBackendKeyVault = "keyvault"
	SecretBackendKeyring  = "keyring"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\[\]]+$`)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Addr     string
	Password string

	Secrets  SecretsConfig
	Database DatabaseConfig
	Redis    RedisConfig

	// Countries offered in the picker forms, in display order.
	Countries []string
	// JobURLs maps "<JOBTYPE>_URL" to the downstream endpoint.
	JobURLs           map[string]string
	DownstreamTimeout time.Duration

	CORSAllowOrigins []string

	LogLevel  string
	LogFormat string
}

// SecretsConfig selects where database credentials come from.
type SecretsConfig struct {
	Backend        string
	KeyVaultURL    string
	DBSecretName   string
	KeyringService string
	CredentialTTL  time.Duration
}

// DatabaseConfig describes the message table. Credentials live in the vault.
type DatabaseConfig struct {
	Driver       string
	Table        string
	Port         int
	SSLMode      string
	QueryTimeout time.Duration
}

// RedisConfig is optional; an empty Addr disables event publishing.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	countries, err := parseCountries(getEnv("COUNTRIES", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:     getEnv("ADDR", ":8080"),
		Password: os.Getenv("PASSWORD"),
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRET_BACKEND", SecretBackendKeyVault),
			KeyVaultURL:    os.Getenv("KEYVAULT_URL"),
			DBSecretName:   getEnv("DB_SECRET_NAME", "Azure-SQL-Database-secret"),
			KeyringService: getEnv("KEYRING_SERVICE", "tl-dashboard"),
			CredentialTTL:  getEnvAsDuration("CREDENTIAL_TTL", 15*time.Minute),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlserver"),
			Table:        os.Getenv("AZURE_DB_NAME"),
			Port:         getEnvAsInt("DB_PORT", 1433),
			SSLMode:      getEnv("DB_SSLMODE", "require"),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Countries:         countries,
		JobURLs:           make(map[string]string),
		DownstreamTimeout: getEnvAsDuration("DOWNSTREAM_TIMEOUT", 30*time.Second),
		CORSAllowOrigins:  splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	for _, jt := range models.JobTypes() {
		if url := os.Getenv(jt.EnvKey()); url != "" {
			cfg.JobURLs[jt.EnvKey()] = url
		}
	}

	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Password == "" {
		errs = append(errs, errors.New("PASSWORD is required"))
	}

	switch c.Secrets.Backend {
	case SecretBackendKeyVault:
		if c.Secrets.KeyVaultURL == "" {
			errs = append(errs, errors.New("KEYVAULT_URL is required for the keyvault secret backend"))
		}
	case SecretBackendKeyring:
	default:
		errs = append(errs, fmt.Errorf("unsupported SECRET_BACKEND %q", c.Secrets.Backend))
	}

	switch c.Database.Driver {
	case "sqlserver", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if c.Database.Table == "" {
		errs = append(errs, errors.New("AZURE_DB_NAME is required"))
	} else if !tableNamePattern.MatchString(c.Database.Table) {
		errs = append(errs, fmt.Errorf("AZURE_DB_NAME %q is not a valid table name", c.Database.Table))
	}

	for _, country := range c.Countries {
		if _, err := models.LookupCountryCode(country); err != nil {
			errs = append(errs, fmt.Errorf("COUNTRIES: %w", err))
		}
	}

	return errors.Join(errs...)
}

// JobURL returns the downstream endpoint configured for a raw job-type string.
func (c *Config) JobURL(request string) (string, bool) {
	url, ok := c.JobURLs[strings.ToUpper(request)+"_URL"]
	return url, ok
}

func parseCountries(raw string) ([]string, error) {
	if raw == "" {
		return models.CountryNames(), nil
	}
	var countries []string
	if err := json.Unmarshal([]byte(raw), &countries); err != nil {
		return nil, fmt.Errorf("COUNTRIES must be a JSON list of strings: %w", err)
	}
	return countries, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("30s") and falls back on anything unparsable.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
