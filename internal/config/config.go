package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/secrets"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Market  MarketConfig  `mapstructure:"market"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Logging LoggingConfig `mapstructure:"logging"`
	GCP     GCPConfig     `mapstructure:"gcp"`
}

// ServerConfig is the local dashboard server the browser UI talks to.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type BackendConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	StreamURL    string  `mapstructure:"stream_url"`
	Email        string  `mapstructure:"email"`
	Password     string  `mapstructure:"password"`
	TokenFile    string  `mapstructure:"token_file"`
	Timeout      int     `mapstructure:"timeout"`
	RequestRate  float64 `mapstructure:"request_rate"`
	RequestBurst int     `mapstructure:"request_burst"`
}

type MarketConfig struct {
	CatalogTTL      int `mapstructure:"catalog_ttl"`
	RefreshInterval int `mapstructure:"refresh_interval"`
}

type WalletConfig struct {
	StaleAfter int `mapstructure:"stale_after"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GCPConfig struct {
	ProjectID       string              `mapstructure:"project_id"`
	UseSecrets      bool                `mapstructure:"use_secrets"`
	CredentialsFile string              `mapstructure:"credentials_file"`
	SecretNames     secrets.SecretNames `mapstructure:"secret_names"`
}

func Load(configPath string) (*Config, error) {
	// A .env alongside the binary can carry credentials during development.
	godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tradingctl")
	}

	v.SetEnvPrefix("TRADING")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&config)

	if config.GCP.UseSecrets && config.GCP.ProjectID != "" {
		ctx := context.Background()
		logger := logrus.New()
		if err := loadSecretsFromGCP(ctx, &config, logger); err != nil {
			return nil, fmt.Errorf("error loading secrets from GCP: %w", err)
		}
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:3000")
	v.SetDefault("backend.stream_url", "ws://localhost:3000/stream")
	v.SetDefault("backend.token_file", defaultTokenFile())
	v.SetDefault("backend.timeout", 30)
	v.SetDefault("backend.request_rate", 10.0)
	v.SetDefault("backend.request_burst", 5)

	// Market defaults
	v.SetDefault("market.catalog_ttl", 300)
	v.SetDefault("market.refresh_interval", 300)

	// Wallet defaults
	v.SetDefault("wallet.stale_after", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// GCP defaults
	v.SetDefault("gcp.use_secrets", false)
	v.SetDefault("gcp.project_id", "")

	secretNames := secrets.DefaultSecretNames()
	v.SetDefault("gcp.secret_names.backend_email", secretNames.BackendEmail)
	v.SetDefault("gcp.secret_names.backend_password", secretNames.BackendPassword)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.tradingctl/token.json"
}

func overrideFromEnv(config *Config) {
	if baseURL := os.Getenv("BACKEND_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if streamURL := os.Getenv("BACKEND_STREAM_URL"); streamURL != "" {
		config.Backend.StreamURL = streamURL
	}
	if email := os.Getenv("BACKEND_EMAIL"); email != "" {
		config.Backend.Email = email
	}
	if password := os.Getenv("BACKEND_PASSWORD"); password != "" {
		config.Backend.Password = password
	}

	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		config.GCP.ProjectID = projectID
	}
	if useSecrets := os.Getenv("GCP_USE_SECRETS"); useSecrets == "true" {
		config.GCP.UseSecrets = true
	}
}

func loadSecretsFromGCP(ctx context.Context, config *Config, logger *logrus.Logger) error {
	secretManager, err := secrets.NewGCPSecretManager(ctx, config.GCP.ProjectID, config.GCP.CredentialsFile, logger)
	if err != nil {
		return fmt.Errorf("failed to create secret manager: %w", err)
	}
	defer secretManager.Close()

	// Only load secrets that are not already set
	if config.Backend.Email == "" {
		config.Backend.Email = secretManager.GetSecretWithDefault(ctx,
			config.GCP.SecretNames.BackendEmail, "")
	}
	if config.Backend.Password == "" {
		config.Backend.Password = secretManager.GetSecretWithDefault(ctx,
			config.GCP.SecretNames.BackendPassword, "")
	}

	logger.Info("Successfully loaded secrets from GCP Secret Manager")
	return nil
}
