package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// ServerConfig holds the HTTP surface configuration
type ServerConfig struct {
	// Host is the interface the HTTP server binds to
	Host string `json:"host,omitempty" env:"TZCONV_SERVER_HOST"`

	// Port is the HTTP listen port
	Port int `json:"port,omitempty" env:"TZCONV_SERVER_PORT"`

	// PublicURL is the base of generated share links. Derived from Host and Port when empty.
	PublicURL string `json:"public_url,omitempty" env:"TZCONV_SERVER_PUBLIC_URL"`

	// AllowedOrigins is the CORS allow list
	// Environment variable: TZCONV_SERVER_ALLOWED_ORIGINS (comma-separated)
	AllowedOrigins []string `json:"allowed_origins,omitempty" env:"TZCONV_SERVER_ALLOWED_ORIGINS"`

	// ReadTimeoutSec is the HTTP read timeout in seconds
	ReadTimeoutSec int `json:"read_timeout_seconds,omitempty" env:"TZCONV_SERVER_READ_TIMEOUT_SECONDS"`

	// WriteTimeoutSec is the HTTP write timeout in seconds
	WriteTimeoutSec int `json:"write_timeout_seconds,omitempty" env:"TZCONV_SERVER_WRITE_TIMEOUT_SECONDS"`

	// ShutdownTimeoutSec bounds graceful shutdown
	ShutdownTimeoutSec int `json:"shutdown_timeout_seconds,omitempty" env:"TZCONV_SERVER_SHUTDOWN_TIMEOUT_SECONDS"`
}

// BoardConfig holds the timezone board behaviour
type BoardConfig struct {
	// DefaultZones are the abbreviations shown when no share link is given
	// Environment variable: TZCONV_BOARD_DEFAULT_ZONES (comma-separated)
	DefaultZones []string `json:"default_zones,omitempty" env:"TZCONV_BOARD_DEFAULT_ZONES"`

	// MinuteStep is the slider quantization step in minutes
	MinuteStep int `json:"minute_step,omitempty" env:"TZCONV_BOARD_MINUTE_STEP"`

	// TickIntervalSec is the idle row refresh interval in seconds
	TickIntervalSec int `json:"tick_interval_seconds,omitempty" env:"TZCONV_BOARD_TICK_INTERVAL_SECONDS"`

	// Theme is the initial page theme (light or dark)
	Theme string `json:"theme,omitempty" env:"TZCONV_BOARD_THEME"`
}

// CatalogConfig selects where the timezone catalog is read from
type CatalogConfig struct {
	// Source is one of embedded, yaml, sqlite
	Source string `json:"source,omitempty" env:"TZCONV_CATALOG_SOURCE"`

	// Path is the catalog file for the yaml and sqlite sources
	Path string `json:"path,omitempty" env:"TZCONV_CATALOG_PATH"`

	// SortBy orders the catalog dropdown: none, name, offset
	SortBy string `json:"sort_by,omitempty" env:"TZCONV_CATALOG_SORT_BY"`

	// Locale is the BCP 47 tag used to collate names when sorting by name
	Locale string `json:"locale,omitempty" env:"TZCONV_CATALOG_LOCALE"`
}

// PrometheusConfig holds Prometheus integration configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL. Metrics are disabled when empty.
	RemoteWriteURL string `json:"remote_write_url" env:"TZCONV_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username" env:"TZCONV_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password" env:"TZCONV_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// HostLabel is the host label value for metrics
	HostLabel string `json:"host_label,omitempty" env:"TZCONV_PROMETHEUS_HOST_LABEL"`

	// IntervalSec is the interval in seconds between metric pushes
	IntervalSec int `json:"interval_seconds,omitempty" env:"TZCONV_PROMETHEUS_INTERVAL_SECONDS"`

	// TimeoutSec is the timeout in seconds for metric pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"TZCONV_PROMETHEUS_TIMEOUT_SECONDS"`
}

// TrayConfig holds the macOS menu bar configuration
type TrayConfig struct {
	// Enabled starts the menu bar clock alongside the server (macOS only)
	Enabled bool `json:"enabled,omitempty" env:"TZCONV_TRAY_ENABLED"`

	// HideFromDock hides the app from the Dock while the tray runs (macOS only)
	HideFromDock bool `json:"hide_from_dock,omitempty" env:"TZCONV_TRAY_HIDE_FROM_DOCK"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Loki push endpoint URL. Console logging is used when empty.
	URL string `json:"url" env:"TZCONV_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"TZCONV_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"TZCONV_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"TZCONV_LOKI_BATCH_WAIT_SECONDS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"TZCONV_LOG_LEVEL"`

	// Debug enables debug mode with stdout logging
	Debug bool `json:"debug,omitempty" env:"TZCONV_LOG_DEBUG"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// CurrentConfigVersion is the schema version written by this build
const CurrentConfigVersion = 1

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Server holds the HTTP surface configuration
	Server *ServerConfig `json:"server,omitempty"`

	// Board holds the timezone board configuration
	Board *BoardConfig `json:"board,omitempty"`

	// Catalog holds the catalog source configuration
	Catalog *CatalogConfig `json:"catalog,omitempty"`

	// Prometheus holds Prometheus integration configuration
	Prometheus *PrometheusConfig `json:"prometheus,omitempty"`

	// Tray holds menu bar configuration
	Tray *TrayConfig `json:"tray,omitempty"`

	// Logging holds logging configuration
	Logging *LoggingConfig `json:"logging,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: CurrentConfigVersion,
		Server: &ServerConfig{
			Host:               "127.0.0.1",
			Port:               8080,
			PublicURL:          "",
			AllowedOrigins:     []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		},
		Board: &BoardConfig{
			DefaultZones:    []string{"IST", "UTC"},
			MinuteStep:      15,
			TickIntervalSec: 60,
			Theme:           "light",
		},
		Catalog: &CatalogConfig{
			Source: "embedded",
			Path:   "",
			SortBy: "none",
			Locale: "en-US",
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "", // Empty by default, must be set via environment variable or config.json
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			HostLabel:           "",
			IntervalSec:         600, // 10 minutes
			TimeoutSec:          30,
		},
		Tray: &TrayConfig{
			Enabled:      false,
			HideFromDock: false,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the minimal configuration template for initial setup
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: CurrentConfigVersion,
		Server: &ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Board: &BoardConfig{
			DefaultZones: []string{"IST", "UTC"},
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "",
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			HostLabel:           "",
			IntervalSec:         600,
			TimeoutSec:          30,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				Username:         "",
				Password:         "",
				BatchWaitSeconds: 1,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	// Load environment variables using Netflix/go-env
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env.
// Nested sections are unmarshalled one by one; a value set in the environment is
// recorded in ConfigSources.
func (c *AppConfig) LoadFromEnv() error {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if c.Server != nil {
		if _, err := env.UnmarshalFromEnviron(c.Server); err != nil {
			return fmt.Errorf("failed to unmarshal Server environment variables: %w", err)
		}
		// Custom handling for AllowedOrigins slice
		if origins := os.Getenv("TZCONV_SERVER_ALLOWED_ORIGINS"); origins != "" {
			c.Server.AllowedOrigins = splitCommaSeparated(origins)
		}
		c.trackEnvOverrides("Server", map[string]string{
			"Host":               "TZCONV_SERVER_HOST",
			"Port":               "TZCONV_SERVER_PORT",
			"PublicURL":          "TZCONV_SERVER_PUBLIC_URL",
			"AllowedOrigins":     "TZCONV_SERVER_ALLOWED_ORIGINS",
			"ReadTimeoutSec":     "TZCONV_SERVER_READ_TIMEOUT_SECONDS",
			"WriteTimeoutSec":    "TZCONV_SERVER_WRITE_TIMEOUT_SECONDS",
			"ShutdownTimeoutSec": "TZCONV_SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		})
	}

	if c.Board != nil {
		if _, err := env.UnmarshalFromEnviron(c.Board); err != nil {
			return fmt.Errorf("failed to unmarshal Board environment variables: %w", err)
		}
		// Custom handling for DefaultZones slice
		if zones := os.Getenv("TZCONV_BOARD_DEFAULT_ZONES"); zones != "" {
			c.Board.DefaultZones = splitCommaSeparated(zones)
		}
		c.trackEnvOverrides("Board", map[string]string{
			"DefaultZones":    "TZCONV_BOARD_DEFAULT_ZONES",
			"MinuteStep":      "TZCONV_BOARD_MINUTE_STEP",
			"TickIntervalSec": "TZCONV_BOARD_TICK_INTERVAL_SECONDS",
			"Theme":           "TZCONV_BOARD_THEME",
		})
	}

	if c.Catalog != nil {
		if _, err := env.UnmarshalFromEnviron(c.Catalog); err != nil {
			return fmt.Errorf("failed to unmarshal Catalog environment variables: %w", err)
		}
		c.trackEnvOverrides("Catalog", map[string]string{
			"Source": "TZCONV_CATALOG_SOURCE",
			"Path":   "TZCONV_CATALOG_PATH",
			"SortBy": "TZCONV_CATALOG_SORT_BY",
			"Locale": "TZCONV_CATALOG_LOCALE",
		})
	}

	if c.Prometheus != nil {
		if _, err := env.UnmarshalFromEnviron(c.Prometheus); err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.trackEnvOverrides("Prometheus", map[string]string{
			"RemoteWriteURL":      "TZCONV_PROMETHEUS_REMOTE_WRITE_URL",
			"RemoteWriteUsername": "TZCONV_PROMETHEUS_REMOTE_WRITE_USERNAME",
			"RemoteWritePassword": "TZCONV_PROMETHEUS_REMOTE_WRITE_PASSWORD",
			"HostLabel":           "TZCONV_PROMETHEUS_HOST_LABEL",
			"IntervalSec":         "TZCONV_PROMETHEUS_INTERVAL_SECONDS",
			"TimeoutSec":          "TZCONV_PROMETHEUS_TIMEOUT_SECONDS",
		})
	}

	if c.Tray != nil {
		if _, err := env.UnmarshalFromEnviron(c.Tray); err != nil {
			return fmt.Errorf("failed to unmarshal Tray environment variables: %w", err)
		}
		c.trackEnvOverrides("Tray", map[string]string{
			"Enabled":      "TZCONV_TRAY_ENABLED",
			"HideFromDock": "TZCONV_TRAY_HIDE_FROM_DOCK",
		})
	}

	if c.Logging != nil {
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackEnvOverrides("Logging", map[string]string{
			"Level": "TZCONV_LOG_LEVEL",
			"Debug": "TZCONV_LOG_DEBUG",
		})

		// Handle Promtail nested struct
		if c.Logging.Promtail != nil {
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			c.trackEnvOverrides("Promtail", map[string]string{
				"URL":              "TZCONV_LOKI_URL",
				"Username":         "TZCONV_LOKI_USERNAME",
				"Password":         "TZCONV_LOKI_PASSWORD",
				"BatchWaitSeconds": "TZCONV_LOKI_BATCH_WAIT_SECONDS",
			})
		}
	}

	return nil
}

// trackEnvOverrides marks section.field as coming from the environment for
// every variable that is present
func (c *AppConfig) trackEnvOverrides(section string, fields map[string]string) {
	for field, envName := range fields {
		if _, ok := os.LookupEnv(envName); ok {
			c.ConfigSources[section+"."+field] = SourceEnvironment
		}
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	// Validate Server configuration
	if c.Server != nil {
		if err := c.validateServer(); err != nil {
			return err
		}
	}

	// Validate Board configuration
	if c.Board != nil {
		if err := c.validateBoard(); err != nil {
			return err
		}
	}

	// Validate Catalog configuration
	if c.Catalog != nil {
		if err := c.validateCatalog(); err != nil {
			return err
		}
	}

	// Validate Prometheus configuration
	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	// Validate Logging configuration
	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	return nil
}

// validateServer validates Server configuration
func (c *AppConfig) validateServer() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 0 and 65535, got %d", c.Server.Port)
	}

	if c.Server.PublicURL != "" {
		u, err := url.Parse(c.Server.PublicURL)
		if err != nil {
			return fmt.Errorf("invalid server public URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("server public URL must use http or https scheme")
		}
	}

	if c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 || c.Server.ShutdownTimeoutSec < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}

	return nil
}

// validateBoard validates Board configuration
func (c *AppConfig) validateBoard() error {
	// Zero step means "use default"
	if step := c.Board.MinuteStep; step != 0 {
		if step < 0 || (24*60)%step != 0 {
			return fmt.Errorf("board minute step must be a positive divisor of 1440, got %d", step)
		}
	}

	if c.Board.TickIntervalSec < 0 {
		return fmt.Errorf("board tick interval cannot be negative")
	}

	if c.Board.Theme != "" && c.Board.Theme != "light" && c.Board.Theme != "dark" {
		return fmt.Errorf("invalid board theme: %s (must be light or dark)", c.Board.Theme)
	}

	for _, zone := range c.Board.DefaultZones {
		if strings.ContainsAny(zone, ", ") {
			return fmt.Errorf("invalid default zone abbreviation %q", zone)
		}
	}

	return nil
}

// validateCatalog validates Catalog configuration
func (c *AppConfig) validateCatalog() error {
	switch c.Catalog.Source {
	case "", "embedded":
	case "yaml", "sqlite":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for %s source", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be embedded, yaml, or sqlite)", c.Catalog.Source)
	}

	switch c.Catalog.SortBy {
	case "", "none", "name", "offset":
	default:
		return fmt.Errorf("invalid catalog sort order: %s (must be none, name, or offset)", c.Catalog.SortBy)
	}

	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	// Skip validation when Remote Write is not configured
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	u, err := url.Parse(c.Prometheus.RemoteWriteURL)
	if err != nil {
		return fmt.Errorf("invalid remote write URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote write URL must use http or https scheme")
	}

	if c.Prometheus.IntervalSec < 1 {
		return fmt.Errorf("prometheus interval must be at least 1 second")
	}

	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	// Validate log level only if specified
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	// Validate Promtail configuration
	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (console logging)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}
	}

	return nil
}

// ListenAddr returns host:port for the HTTP server
func (c *AppConfig) ListenAddr() string {
	if c.Server == nil {
		return "127.0.0.1:8080"
	}
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShareLinkBase returns the base URL for generated share links
func (c *AppConfig) ShareLinkBase() string {
	if c.Server != nil && c.Server.PublicURL != "" {
		return c.Server.PublicURL
	}
	host := "localhost"
	port := 8080
	if c.Server != nil {
		if c.Server.Host != "" && c.Server.Host != "0.0.0.0" && c.Server.Host != "::" {
			host = c.Server.Host
		}
		port = c.Server.Port
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

// TickInterval returns the idle row refresh interval
func (b *BoardConfig) TickInterval() time.Duration {
	if b == nil || b.TickIntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(b.TickIntervalSec) * time.Second
}

// Step returns the slider step, falling back to 15 minutes
func (b *BoardConfig) Step() int {
	if b == nil || b.MinuteStep <= 0 {
		return 15
	}
	return b.MinuteStep
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}
	for _, key := range []string{
		"Version",
		"Server.Host", "Server.Port", "Server.PublicURL", "Server.AllowedOrigins",
		"Server.ReadTimeoutSec", "Server.WriteTimeoutSec", "Server.ShutdownTimeoutSec",
		"Board.DefaultZones", "Board.MinuteStep", "Board.TickIntervalSec", "Board.Theme",
		"Catalog.Source", "Catalog.Path", "Catalog.SortBy", "Catalog.Locale",
		"Prometheus.RemoteWriteURL", "Prometheus.RemoteWriteUsername", "Prometheus.RemoteWritePassword",
		"Prometheus.HostLabel", "Prometheus.IntervalSec", "Prometheus.TimeoutSec",
		"Tray.Enabled", "Tray.HideFromDock",
		"Logging.Level", "Logging.Debug",
		"Promtail.URL", "Promtail.Username", "Promtail.Password",
		"Promtail.BatchWaitSeconds",
	} {
		c.ConfigSources[key] = SourceDefault
	}
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	if jsonConfig.Server != nil {
		if c.Server == nil {
			c.Server = &ServerConfig{}
		}
		c.mergeServerConfig(jsonConfig.Server)
	}

	if jsonConfig.Board != nil {
		if c.Board == nil {
			c.Board = &BoardConfig{}
		}
		c.mergeBoardConfig(jsonConfig.Board)
	}

	if jsonConfig.Catalog != nil {
		if c.Catalog == nil {
			c.Catalog = &CatalogConfig{}
		}
		c.mergeCatalogConfig(jsonConfig.Catalog)
	}

	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergePrometheusConfig(jsonConfig.Prometheus)
	}

	if jsonConfig.Tray != nil {
		if c.Tray == nil {
			c.Tray = &TrayConfig{}
		}
		c.mergeTrayConfig(jsonConfig.Tray)
	}

	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}
}

// mergeServerConfig merges Server configuration from JSON
func (c *AppConfig) mergeServerConfig(jsonConfig *ServerConfig) {
	if jsonConfig.Host != "" {
		c.Server.Host = jsonConfig.Host
		c.ConfigSources["Server.Host"] = SourceJSONFile
	}
	if jsonConfig.Port != 0 {
		c.Server.Port = jsonConfig.Port
		c.ConfigSources["Server.Port"] = SourceJSONFile
	}
	if jsonConfig.PublicURL != "" {
		c.Server.PublicURL = jsonConfig.PublicURL
		c.ConfigSources["Server.PublicURL"] = SourceJSONFile
	}
	if len(jsonConfig.AllowedOrigins) > 0 && !slicesEqual(jsonConfig.AllowedOrigins, c.Server.AllowedOrigins) {
		c.Server.AllowedOrigins = jsonConfig.AllowedOrigins
		c.ConfigSources["Server.AllowedOrigins"] = SourceJSONFile
	}
	if jsonConfig.ReadTimeoutSec != 0 {
		c.Server.ReadTimeoutSec = jsonConfig.ReadTimeoutSec
		c.ConfigSources["Server.ReadTimeoutSec"] = SourceJSONFile
	}
	if jsonConfig.WriteTimeoutSec != 0 {
		c.Server.WriteTimeoutSec = jsonConfig.WriteTimeoutSec
		c.ConfigSources["Server.WriteTimeoutSec"] = SourceJSONFile
	}
	if jsonConfig.ShutdownTimeoutSec != 0 {
		c.Server.ShutdownTimeoutSec = jsonConfig.ShutdownTimeoutSec
		c.ConfigSources["Server.ShutdownTimeoutSec"] = SourceJSONFile
	}
}

// mergeBoardConfig merges Board configuration from JSON
func (c *AppConfig) mergeBoardConfig(jsonConfig *BoardConfig) {
	if len(jsonConfig.DefaultZones) > 0 {
		c.Board.DefaultZones = jsonConfig.DefaultZones
		c.ConfigSources["Board.DefaultZones"] = SourceJSONFile
	}
	if jsonConfig.MinuteStep != 0 {
		c.Board.MinuteStep = jsonConfig.MinuteStep
		c.ConfigSources["Board.MinuteStep"] = SourceJSONFile
	}
	if jsonConfig.TickIntervalSec != 0 {
		c.Board.TickIntervalSec = jsonConfig.TickIntervalSec
		c.ConfigSources["Board.TickIntervalSec"] = SourceJSONFile
	}
	if jsonConfig.Theme != "" {
		c.Board.Theme = jsonConfig.Theme
		c.ConfigSources["Board.Theme"] = SourceJSONFile
	}
}

// mergeCatalogConfig merges Catalog configuration from JSON
func (c *AppConfig) mergeCatalogConfig(jsonConfig *CatalogConfig) {
	if jsonConfig.Source != "" {
		c.Catalog.Source = jsonConfig.Source
		c.ConfigSources["Catalog.Source"] = SourceJSONFile
	}
	if jsonConfig.Path != "" {
		c.Catalog.Path = jsonConfig.Path
		c.ConfigSources["Catalog.Path"] = SourceJSONFile
	}
	if jsonConfig.SortBy != "" {
		c.Catalog.SortBy = jsonConfig.SortBy
		c.ConfigSources["Catalog.SortBy"] = SourceJSONFile
	}
	if jsonConfig.Locale != "" {
		c.Catalog.Locale = jsonConfig.Locale
		c.ConfigSources["Catalog.Locale"] = SourceJSONFile
	}
}

// mergePrometheusConfig merges Prometheus configuration from JSON
func (c *AppConfig) mergePrometheusConfig(jsonConfig *PrometheusConfig) {
	if jsonConfig.RemoteWriteURL != "" {
		c.Prometheus.RemoteWriteURL = jsonConfig.RemoteWriteURL
		c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceJSONFile
	}
	if jsonConfig.RemoteWriteUsername != "" {
		c.Prometheus.RemoteWriteUsername = jsonConfig.RemoteWriteUsername
		c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceJSONFile
	}
	if jsonConfig.RemoteWritePassword != "" {
		c.Prometheus.RemoteWritePassword = jsonConfig.RemoteWritePassword
		c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceJSONFile
	}
	if jsonConfig.HostLabel != "" {
		c.Prometheus.HostLabel = jsonConfig.HostLabel
		c.ConfigSources["Prometheus.HostLabel"] = SourceJSONFile
	}
	if jsonConfig.IntervalSec != 0 {
		c.Prometheus.IntervalSec = jsonConfig.IntervalSec
		c.ConfigSources["Prometheus.IntervalSec"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSec != 0 {
		c.Prometheus.TimeoutSec = jsonConfig.TimeoutSec
		c.ConfigSources["Prometheus.TimeoutSec"] = SourceJSONFile
	}
}

// mergeTrayConfig merges Tray configuration from JSON
func (c *AppConfig) mergeTrayConfig(jsonConfig *TrayConfig) {
	// Note: bool fields need special handling because zero value is false
	c.Tray.Enabled = jsonConfig.Enabled
	c.ConfigSources["Tray.Enabled"] = SourceJSONFile

	c.Tray.HideFromDock = jsonConfig.HideFromDock
	c.ConfigSources["Tray.HideFromDock"] = SourceJSONFile
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	if jsonConfig.Level != "" {
		c.Logging.Level = jsonConfig.Level
		c.ConfigSources["Logging.Level"] = SourceJSONFile
	}

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		c.mergePromtailConfig(jsonConfig.Promtail)
	}
}

// mergePromtailConfig merges Promtail configuration from JSON
func (c *AppConfig) mergePromtailConfig(jsonConfig *PromtailConfig) {
	if jsonConfig.URL != "" {
		c.Logging.Promtail.URL = jsonConfig.URL
		c.ConfigSources["Promtail.URL"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.Logging.Promtail.Username = jsonConfig.Username
		c.ConfigSources["Promtail.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.Logging.Promtail.Password = jsonConfig.Password
		c.ConfigSources["Promtail.Password"] = SourceJSONFile
	}
	if jsonConfig.BatchWaitSeconds != 0 {
		c.Logging.Promtail.BatchWaitSeconds = jsonConfig.BatchWaitSeconds
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceJSONFile
	}
}

// splitCommaSeparated splits a comma-separated string into a slice of strings
// It also trims whitespace from each element
func splitCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// slicesEqual compares two string slices for equality
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

// Timeout returns the push timeout, falling back to 30 seconds
func (p *PrometheusConfig) Timeout() time.Duration {
	if p == nil || p.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSec) * time.Second
}

// Interval returns the push interval, falling back to 10 minutes
func (p *PrometheusConfig) Interval() time.Duration {
	if p == nil || p.IntervalSec <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(p.IntervalSec) * time.Second
}
