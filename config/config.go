package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Database DatabaseConfig
	Indexer  IndexerConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
}

type SSLConfig struct {
	Mode     string
	RootCert string
	Cert     string
	Key      string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Timeout  time.Duration
	SSL      SSLConfig
}

// IndexerConfig tunes the validator/forwarder.
type IndexerConfig struct {
	// VectorDim is the embedding dimensionality enforced before forwarding.
	VectorDim int
	// EmptyChunkPolicy is "halt" (stop the record on the first empty-text
	// chunk, the historical behavior) or "skip" (treat it like any other
	// malformed chunk).
	EmptyChunkPolicy string
	StoreTimeout     time.Duration
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

// AuthConfig holds the shared secret used to verify service tokens on the
// mutating HTTP endpoints. Empty disables auth (local development).
type AuthConfig struct {
	ServiceTokenSecret string
}

func Load() (*Config, error) {
	dbConfig := &DatabaseConfig{
		Host:     getEnvRequired("DB_HOST"),
		Port:     getEnvRequired("DB_PORT"),
		Name:     getEnvRequired("DB_NAME"),
		User:     getEnvRequired("EMBEDDING_INDEXER_DB_USER"),
		Password: getEnvRequired("EMBEDDING_INDEXER_DB_PASSWORD"),
		Timeout:  10 * time.Second,
		SSL: SSLConfig{
			Mode:     getEnvOrDefault("DB_SSL_MODE", "prefer"),
			RootCert: getEnvOrDefault("DB_SSL_ROOT_CERT", ""),
			Cert:     getEnvOrDefault("DB_SSL_CERT", ""),
			Key:      getEnvOrDefault("DB_SSL_KEY", ""),
		},
	}

	if err := dbConfig.ValidateSSLConfig(); err != nil {
		slog.Error("Invalid SSL configuration", "error", err)
		return nil, fmt.Errorf("SSL configuration error: %w", err)
	}

	policy := getEnvOrDefault("EMPTY_CHUNK_POLICY", "halt")
	if policy != "halt" && policy != "skip" {
		return nil, fmt.Errorf("invalid EMPTY_CHUNK_POLICY %q: must be halt or skip", policy)
	}

	cfg := &Config{
		Database: *dbConfig,
		Indexer: IndexerConfig{
			VectorDim:        VectorDim,
			EmptyChunkPolicy: policy,
			StoreTimeout:     StoreTimeout,
		},
		HTTP: HTTPConfig{
			Addr:              HTTPAddr,
			ReadHeaderTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			ServiceTokenSecret: getEnvOrDefault("SERVICE_TOKEN_SECRET", ""),
		},
	}

	slog.Info("Configuration loaded",
		"db_host", cfg.Database.Host,
		"db_sslmode", cfg.Database.SSL.Mode,
		"vector_dim", cfg.Indexer.VectorDim,
		"empty_chunk_policy", cfg.Indexer.EmptyChunkPolicy,
	)

	return cfg, nil
}

func (c *DatabaseConfig) GetDatabaseConnectionString() string {
	baseConn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSL.Mode,
	)

	if c.SSL.RootCert != "" {
		baseConn += fmt.Sprintf(" sslrootcert=%s", c.SSL.RootCert)
	}
	if c.SSL.Cert != "" {
		baseConn += fmt.Sprintf(" sslcert=%s", c.SSL.Cert)
	}
	if c.SSL.Key != "" {
		baseConn += fmt.Sprintf(" sslkey=%s", c.SSL.Key)
	}

	return baseConn
}

func (c *DatabaseConfig) GetDatabaseURL() string {
	baseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)

	params := fmt.Sprintf("?sslmode=%s", c.SSL.Mode)

	if c.SSL.RootCert != "" {
		params += fmt.Sprintf("&sslrootcert=%s", c.SSL.RootCert)
	}
	if c.SSL.Cert != "" {
		params += fmt.Sprintf("&sslcert=%s", c.SSL.Cert)
	}
	if c.SSL.Key != "" {
		params += fmt.Sprintf("&sslkey=%s", c.SSL.Key)
	}

	return baseURL + params
}

func (c *DatabaseConfig) ValidateSSLConfig() error {
	switch c.SSL.Mode {
	case "disable":
		return fmt.Errorf("SSL disable mode is not allowed")
	case "allow", "prefer":
		return nil
	case "require":
		return nil
	case "verify-ca", "verify-full":
		if c.SSL.RootCert == "" {
			return fmt.Errorf("SSL root certificate required for mode %s", c.SSL.Mode)
		}
		return nil
	default:
		return fmt.Errorf("invalid SSL mode: %s", c.SSL.Mode)
	}
}

func getEnvRequired(key string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
