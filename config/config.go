package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingCredentials means the TMDB base URL or API key is not configured
var ErrMissingCredentials = errors.New("tmdb credentials missing")

// Load loads the configuration from file and environment.
// A missing config file is only an error when configPath was given explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".marquee"))
		}

		// Check /etc
		v.AddConfigPath("/etc/marquee/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults; url and api_key have none on purpose
	v.SetDefault("tmdb.language", "pt-BR")
	v.SetDefault("tmdb.image_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.poster_size", "w500")
	v.SetDefault("tmdb.timeout", "30s")

	// Screen defaults
	v.SetDefault("screen.client_filter", true)
	v.SetDefault("screen.show_endpoint", false)
	v.SetDefault("screen.width", 80)
	v.SetDefault("screen.synopsis_lines", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// bindEnv maps environment variables onto config keys. API_BASE and API_KEY
// keep the names used by the mobile app's .env file.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("tmdb.url", "MARQUEE_TMDB_URL", "API_BASE")
	_ = v.BindEnv("tmdb.api_key", "MARQUEE_TMDB_API_KEY", "API_KEY")
}

// Credentials reports whether both the base URL and the API key are set
func (c TMDBConfig) Credentials() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "tmdb.url (API_BASE)")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "tmdb.api_key (API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks if the configuration is valid. Missing TMDB credentials are
// not a validation failure; see TMDBConfig.Credentials.
func Validate(cfg *Config) error {
	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Screen.Width != 0 && cfg.Screen.Width < 20 {
		return fmt.Errorf("invalid screen.width: %d (must be at least 20)", cfg.Screen.Width)
	}
	if cfg.Screen.SynopsisLines < 0 {
		return fmt.Errorf("invalid screen.synopsis_lines: %d", cfg.Screen.SynopsisLines)
	}

	if cfg.TMDB.Timeout < 0 {
		return fmt.Errorf("invalid tmdb.timeout: %s", cfg.TMDB.Timeout)
	}

	// A blank URL is missing credentials, reported by Credentials instead
	if u := strings.TrimSpace(cfg.TMDB.URL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("invalid tmdb.url: %s (must start with http:// or https://)", u)
	}

	return nil
}
