package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		ClientURL   string `yaml:"client_url" env:"CLIENT_URL"`
		RateLimit   string `yaml:"rate_limit" env:"SERVER_RATE_LIMIT"`
		AuthLimit   string `yaml:"auth_rate_limit" env:"SERVER_AUTH_RATE_LIMIT"`
		TrustedCORS string `yaml:"trusted_cors" env:"SERVER_TRUSTED_CORS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		AccessSecret           string `yaml:"access_secret" env:"JWT_ACCESS_SECRET"`
		RefreshSecret          string `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
		VerificationSecret     string `yaml:"verification_secret" env:"JWT_VERIFICATION_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		VerificationExpiration string `yaml:"verification_expiration" env:"JWT_VERIFICATION_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	PasswordReset struct {
		TokenExpiration string `yaml:"token_expiration" env:"PASSWORD_RESET_TOKEN_EXPIRATION"`
	} `yaml:"password_reset"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      string `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Storage struct {
		UploadDir string `yaml:"upload_dir" env:"STORAGE_UPLOAD_DIR"`
		BaseURL   string `yaml:"base_url" env:"STORAGE_BASE_URL"`
		MaxSizeMB int    `yaml:"max_size_mb" env:"STORAGE_MAX_SIZE_MB"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment variables take precedence over file values
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ClientURL = "http://localhost:3000"
	config.Server.RateLimit = "100-M"
	config.Server.AuthLimit = "10-M"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "driveshare"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "15m"
	config.JWT.RefreshTokenExpiration = "168h"
	config.JWT.VerificationExpiration = "2h"
	config.JWT.Issuer = "driveshare.app"

	config.PasswordReset.TokenExpiration = "10m"

	config.SMTP.Port = "587"
	config.SMTP.FromName = "DriveShare"

	config.Storage.UploadDir = "./uploads"
	config.Storage.BaseURL = "http://localhost:8080/uploads"
	config.Storage.MaxSizeMB = 10

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}

	if config.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT refresh secret is required")
	}

	if config.JWT.VerificationSecret == "" {
		return fmt.Errorf("JWT verification secret is required")
	}

	for name, value := range map[string]string{
		"access token expiration":       config.JWT.AccessTokenExpiration,
		"refresh token expiration":      config.JWT.RefreshTokenExpiration,
		"verification expiration":       config.JWT.VerificationExpiration,
		"password reset token lifetime": config.PasswordReset.TokenExpiration,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CORSOrigins returns the list of allowed CORS origins
func (c *Config) CORSOrigins() []string {
	origins := []string{c.Server.ClientURL}
	if c.Server.TrustedCORS != "" {
		for _, origin := range strings.Split(c.Server.TrustedCORS, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" && origin != c.Server.ClientURL {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool gets an environment variable as a boolean or returns a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.ToLower(GetEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}

	if valueStr == "true" || valueStr == "1" || valueStr == "yes" {
		return true
	}
	if valueStr == "false" || valueStr == "0" || valueStr == "no" {
		return false
	}

	return defaultValue
}
