package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Seerr    SeerrConfig    `mapstructure:"seerr"`
	Images   ImagesConfig   `mapstructure:"images"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	API      APIConfig      `mapstructure:"api"`
	Library  LibraryConfig  `mapstructure:"library"`
	UI       UIConfig       `mapstructure:"ui"`
}

// SeerrConfig holds request-service connection settings
type SeerrConfig struct {
	Service  string `mapstructure:"service"` // jellyseerr or overseerr
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Timeout  int    `mapstructure:"timeout"` // seconds
}

// ImagesConfig holds artwork host settings
type ImagesConfig struct {
	SmallBase string `mapstructure:"small_base"`
	LargeBase string `mapstructure:"large_base"`
}

// DatabaseConfig holds settings-store database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	Path     string `mapstructure:"path"`   // sqlite file path
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	App      LogLevelConfig `mapstructure:"app"`
	Database LogLevelConfig `mapstructure:"database"`
}

// LogLevelConfig represents log level configuration for a specific component
type LogLevelConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// APIConfig holds API server settings
type APIConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LibraryConfig holds host media-library lookup settings
type LibraryConfig struct {
	RPCURL   string `mapstructure:"rpc_url"` // host JSON-RPC endpoint
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

// UIConfig holds presentation preferences relayed to the host UI
type UIConfig struct {
	AskFourK      bool `mapstructure:"ask_4k"`
	MovieViewMode int  `mapstructure:"view_mode_movies"`
	TVViewMode    int  `mapstructure:"view_mode_tvshows"`
}

var cfg *Config

// bindEnvWithAlternatives binds a viper key to environment variables with alternative names.
// This allows supporting both SEERRBRIDGE_SEERR_URL and JELLYSEERR_URL for the same key.
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from file and environment variables
func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/seerrbridge")

	setDefaults()

	viper.SetEnvPrefix("SEERRBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("seerr.service", "SEERR_SERVICE")
	bindEnvWithAlternatives("seerr.url", "JELLYSEERR_URL", "OVERSEERR_URL")
	bindEnvWithAlternatives("seerr.api_key", "JELLYSEERR_API_KEY", "OVERSEERR_API_KEY")
	bindEnvWithAlternatives("seerr.username", "JELLYSEERR_USERNAME")
	bindEnvWithAlternatives("seerr.password", "JELLYSEERR_PASSWORD")
	viper.BindEnv("seerr.timeout")

	viper.BindEnv("images.small_base")
	viper.BindEnv("images.large_base")

	bindEnvWithAlternatives("database.driver", "DB_DRIVER")
	bindEnvWithAlternatives("database.path", "DB_PATH")
	bindEnvWithAlternatives("database.host", "DB_HOST")
	bindEnvWithAlternatives("database.port", "DB_PORT")
	bindEnvWithAlternatives("database.user", "DB_USER")
	bindEnvWithAlternatives("database.password", "DB_PASSWORD")
	bindEnvWithAlternatives("database.dbname", "DB_NAME")
	bindEnvWithAlternatives("database.sslmode", "DB_SSLMODE")

	bindEnvWithAlternatives("logging.app.level", "LOG_LEVEL")
	viper.BindEnv("logging.database.level")

	bindEnvWithAlternatives("api.port", "API_PORT")
	viper.BindEnv("api.cors_origins")

	bindEnvWithAlternatives("library.rpc_url", "KODI_RPC_URL")
	viper.BindEnv("library.username")
	viper.BindEnv("library.password")
	viper.BindEnv("library.enabled")

	viper.BindEnv("ui.ask_4k")
	viper.BindEnv("ui.view_mode_movies")
	viper.BindEnv("ui.view_mode_tvshows")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

// Set replaces the current configuration (primarily for testing)
func Set(c *Config) {
	cfg = c
}

func setDefaults() {
	viper.SetDefault("seerr.service", "jellyseerr")
	viper.SetDefault("seerr.timeout", 15)

	viper.SetDefault("images.small_base", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("images.large_base", "https://image.tmdb.org/t/p/original")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./seerrbridge.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("logging.app.level", "info")
	viper.SetDefault("logging.database.level", "warn")

	viper.SetDefault("api.port", 8585)
	viper.SetDefault("api.cors_origins", []string{"*"})

	viper.SetDefault("library.enabled", false)

	viper.SetDefault("ui.ask_4k", false)
	viper.SetDefault("ui.view_mode_movies", 0)
	viper.SetDefault("ui.view_mode_tvshows", 0)
}

func validate() error {
	if cfg.Seerr.URL == "" {
		return fmt.Errorf("seerr.url is required")
	}
	switch cfg.Seerr.Service {
	case "jellyseerr", "overseerr":
	default:
		return fmt.Errorf("seerr.service must be jellyseerr or overseerr, got %q", cfg.Seerr.Service)
	}
	if cfg.Seerr.APIKey == "" && (cfg.Seerr.Username == "" || cfg.Seerr.Password == "") {
		return fmt.Errorf("either seerr.api_key or seerr.username and seerr.password are required")
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", cfg.Database.Driver)
	}
	return nil
}
