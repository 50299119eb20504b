package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"plugingate/internal/license"
)

// Config represents the complete application configuration. It is loaded
// once at startup and immutable for the process lifetime.
type Config struct {
	Server   ServerConfig             `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig            `yaml:"logging" envconfig:"LOGGING"`
	Security SecurityConfig           `yaml:"security" envconfig:"SECURITY"`
	Gate     GateConfig               `yaml:"gate" envconfig:"GATE"`
	Licenses map[string]LicenseConfig `yaml:"licenses"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int      `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int      `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// Duration wraps time.Duration so YAML and environment values can use the
// "15s" form. yaml.v2 has no native duration support.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	Output string `yaml:"output" envconfig:"OUTPUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// GateConfig contains the access-gate parameters
type GateConfig struct {
	// IdleSessionLifespan is the session idle expiry window in whole
	// seconds. A session idle for exactly this long is already expired.
	IdleSessionLifespan int64 `yaml:"idle_session_lifespan" envconfig:"IDLE_SESSION_LIFESPAN" validate:"gt=0"`

	// DiscordWebhookURL receives audit notifications. When empty, audit
	// events fall back to the application log.
	DiscordWebhookURL string `yaml:"discord_webhook_url" envconfig:"DISCORD_WEBHOOK_URL" validate:"omitempty,url"`

	// BlacklistedAddresses are unconditionally denied session issuance.
	BlacklistedAddresses []string `yaml:"blacklisted_addresses" envconfig:"BLACKLISTED_ADDRESSES"`

	// AuditBufferSize bounds the audit dispatch queue; events beyond it
	// are dropped, never awaited.
	AuditBufferSize int `yaml:"audit_buffer_size" envconfig:"AUDIT_BUFFER_SIZE" validate:"gt=0"`
}

// LicenseConfig describes one license entry in the static registry
type LicenseConfig struct {
	// Library is the plugin artifact path released to authorized clients.
	Library string `yaml:"library"`
	// Addresses maps an allowed client address to its allowed ports.
	Addresses map[string][]int `yaml:"addresses"`
}

// Load loads configuration from the YAML config file, then applies
// environment variable overrides (PLUGINGATE_* takes precedence).
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("PLUGINGATE", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Registry builds the immutable license registry from the configured table.
func (c *Config) Registry() *license.Registry {
	table := make(map[string]license.License, len(c.Licenses))
	for name, lc := range c.Licenses {
		table[name] = license.License{
			Library:   lc.Library,
			Addresses: lc.Addresses,
		}
	}
	return license.NewRegistry(table)
}

// validate checks structural constraints plus the license table.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for name, lc := range c.Licenses {
		if lc.Library == "" {
			return fmt.Errorf("license %q: library path is required", name)
		}
		for addr, ports := range lc.Addresses {
			if addr == "" {
				return fmt.Errorf("license %q: empty address in allow-list", name)
			}
			for _, port := range ports {
				if port <= 0 || port > 65535 {
					return fmt.Errorf("license %q: invalid port %d for address %s", name, port, addr)
				}
			}
		}
	}

	return nil
}

// configFilePath returns the first config file found in common locations,
// or the explicit PLUGINGATE_CONFIG override.
func configFilePath() string {
	if path := os.Getenv("PLUGINGATE_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // no config file, env vars and defaults only
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Gate: GateConfig{
			IdleSessionLifespan: 60,
			AuditBufferSize:     64,
		},
	}
}
