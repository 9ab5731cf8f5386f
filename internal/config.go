package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/rank"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	Rank  RankConfig        `yaml:"rank"`
	Auth  AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Rank.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds persistence configuration. SQLitePath is where the
// note blob database lives; an empty FlushDebounce keeps the built-in
// default. ImagesDir and InboxDir are created on startup when missing.
type StoreConfig struct {
	SQLitePath    string        `yaml:"sqlite_path"`
	FlushDebounce time.Duration `yaml:"flush_debounce"`
	ImagesDir     string        `yaml:"images_dir"`
	InboxDir      string        `yaml:"inbox_dir"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
		validation.Field(&c.ImagesDir, validation.Required),
	)
}

// RankConfig holds the tuning knobs for the tag ranking engine. Zero
// values fall back to the built-in defaults, so a config file only needs
// to set the knobs it wants to change.
type RankConfig struct {
	RecencyWindowDays int     `yaml:"recency_window_days"`
	RecencyWeight     float64 `yaml:"recency_weight"`
	Lambda            float64 `yaml:"lambda"`
	RelatedThreshold  float64 `yaml:"related_threshold"`
	TagBarLimit       int     `yaml:"tag_bar_limit"`
}

// Validate validates the rank configuration.
func (c *RankConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RecencyWindowDays, validation.Min(0)),
		validation.Field(&c.RecencyWeight, validation.Min(0.0)),
		validation.Field(&c.Lambda, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.RelatedThreshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.TagBarLimit, validation.Min(0)),
	)
}

// Params converts the config into ranking parameters, filling unset knobs
// from the built-in defaults.
func (c *RankConfig) Params() rank.Params {
	p := rank.DefaultParams()
	if c.RecencyWindowDays > 0 {
		p.RecencyWindow = time.Duration(c.RecencyWindowDays) * 24 * time.Hour
	}
	if c.RecencyWeight > 0 {
		p.RecencyWeight = c.RecencyWeight
	}
	if c.Lambda > 0 {
		p.Lambda = c.Lambda
	}
	if c.RelatedThreshold > 0 {
		p.RelatedThreshold = c.RelatedThreshold
	}
	if c.TagBarLimit > 0 {
		p.TagBarLimit = c.TagBarLimit
	}
	return p
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			SQLitePath: "./ansuz.db",
			ImagesDir:  "./images",
			InboxDir:   "./inbox",
		},
		Rank: RankConfig{},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
