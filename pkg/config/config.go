package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Policies accepted by RealtimeConfig.
const (
	SupersedeKeep  = "keep"
	SupersedeClose = "close"

	SendErrorEvict = "evict"
	SendErrorKeep  = "keep"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config captures module-level configuration knobs. Feature packages pull
// from the nested sections.
type Config struct {
	Localization  LocalizationConfig  `mapstructure:"localization" json:"localization"`
	Realtime      RealtimeConfig      `mapstructure:"realtime" json:"realtime"`
	Notifications NotificationsConfig `mapstructure:"notifications" json:"notifications"`
	Storage       StorageConfig       `mapstructure:"storage" json:"storage"`
	HTTP          HTTPConfig          `mapstructure:"http" json:"http"`
	Auth          AuthConfig          `mapstructure:"auth" json:"auth"`
	Push          PushConfig          `mapstructure:"push" json:"push"`
	Email         EmailConfig         `mapstructure:"email" json:"email"`
	Logging       LoggingConfig       `mapstructure:"logging" json:"logging"`
}

// LocalizationConfig controls the locale used for notification copy.
type LocalizationConfig struct {
	DefaultLocale string `mapstructure:"default_locale" json:"default_locale"`
}

// RealtimeConfig tunes the registry, dispatcher and WebSocket transport.
type RealtimeConfig struct {
	Workers         int           `mapstructure:"workers" json:"workers"`
	SupersedePolicy string        `mapstructure:"supersede_policy" json:"supersede_policy"`
	SendErrorPolicy string        `mapstructure:"send_error_policy" json:"send_error_policy"`
	SendBuffer      int           `mapstructure:"send_buffer" json:"send_buffer"`
	MaxMessageSize  int64         `mapstructure:"max_message_size" json:"max_message_size"`
	WriteWait       time.Duration `mapstructure:"write_wait" json:"write_wait"`
	PongWait        time.Duration `mapstructure:"pong_wait" json:"pong_wait"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" json:"allowed_origins"`
}

// PingPeriod is the interval between server pings; it must stay below PongWait.
func (c RealtimeConfig) PingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

// NotificationsConfig bounds list queries.
type NotificationsConfig struct {
	DefaultLimit int `mapstructure:"default_limit" json:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit" json:"max_limit"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver  string `mapstructure:"driver" json:"driver"`
	DSN     string `mapstructure:"dsn" json:"dsn"`
	Migrate bool   `mapstructure:"migrate" json:"migrate"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr              string        `mapstructure:"addr" json:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
}

// AuthConfig holds the bearer token secret shared with the main application.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" json:"jwt_secret"`
}

// PushConfig is the system layer of the realtime push policy, keyed by
// notification type.
type PushConfig struct {
	Types map[string]bool `mapstructure:"types" json:"types"`
}

// EmailConfig enables the offline email fallback.
type EmailConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Region  string `mapstructure:"region" json:"region"`
	Sender  string `mapstructure:"sender" json:"sender"`
	DryRun  bool   `mapstructure:"dry_run" json:"dry_run"`
}

// LoggingConfig selects the zap preset and level.
type LoggingConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	Development bool   `mapstructure:"development" json:"development"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Localization: LocalizationConfig{DefaultLocale: "pt"},
		Realtime: RealtimeConfig{
			Workers:         4,
			SupersedePolicy: SupersedeKeep,
			SendErrorPolicy: SendErrorEvict,
			SendBuffer:      256,
			MaxMessageSize:  512,
			WriteWait:       10 * time.Second,
			PongWait:        60 * time.Second,
		},
		Notifications: NotificationsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Storage: StorageConfig{
			Driver:  DriverSQLite,
			DSN:     "file:notifications.db?cache=shared",
			Migrate: true,
		},
		HTTP: HTTPConfig{
			Addr:              ":3000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Push: PushConfig{
			Types: map[string]bool{
				"editor_promotion": true,
				"content_update":   true,
				"group_invitation": true,
				"file_share":       true,
			},
		},
		Email: EmailConfig{
			Region: "us-east-1",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Localization.DefaultLocale == "" {
		return errors.New("localization.default_locale is required")
	}
	if c.Realtime.Workers <= 0 {
		return fmt.Errorf("realtime.workers must be > 0")
	}
	switch c.Realtime.SupersedePolicy {
	case SupersedeKeep, SupersedeClose:
	default:
		return fmt.Errorf("realtime.supersede_policy must be %q or %q", SupersedeKeep, SupersedeClose)
	}
	switch c.Realtime.SendErrorPolicy {
	case SendErrorEvict, SendErrorKeep:
	default:
		return fmt.Errorf("realtime.send_error_policy must be %q or %q", SendErrorEvict, SendErrorKeep)
	}
	if c.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("realtime.send_buffer must be > 0")
	}
	if c.Realtime.PongWait <= 0 || c.Realtime.WriteWait <= 0 {
		return fmt.Errorf("realtime.pong_wait and realtime.write_wait must be > 0")
	}
	if c.Notifications.DefaultLimit <= 0 || c.Notifications.MaxLimit < c.Notifications.DefaultLimit {
		return fmt.Errorf("notifications.max_limit must be >= default_limit > 0")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("storage.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Email.Enabled && strings.TrimSpace(c.Email.Sender) == "" {
		return errors.New("email.sender is required when email fallback is enabled")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// When cfgx.Build yields a zero value the input is decoded through JSON.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Localization.DefaultLocale == "" {
		c.Localization.DefaultLocale = defaults.Localization.DefaultLocale
	}
	if c.Realtime.Workers == 0 {
		c.Realtime.Workers = defaults.Realtime.Workers
	}
	if c.Realtime.SupersedePolicy == "" {
		c.Realtime.SupersedePolicy = defaults.Realtime.SupersedePolicy
	}
	if c.Realtime.SendErrorPolicy == "" {
		c.Realtime.SendErrorPolicy = defaults.Realtime.SendErrorPolicy
	}
	if c.Realtime.SendBuffer == 0 {
		c.Realtime.SendBuffer = defaults.Realtime.SendBuffer
	}
	if c.Realtime.MaxMessageSize == 0 {
		c.Realtime.MaxMessageSize = defaults.Realtime.MaxMessageSize
	}
	if c.Realtime.WriteWait == 0 {
		c.Realtime.WriteWait = defaults.Realtime.WriteWait
	}
	if c.Realtime.PongWait == 0 {
		c.Realtime.PongWait = defaults.Realtime.PongWait
	}
	if c.Notifications.DefaultLimit == 0 {
		c.Notifications.DefaultLimit = defaults.Notifications.DefaultLimit
	}
	if c.Notifications.MaxLimit == 0 {
		c.Notifications.MaxLimit = defaults.Notifications.MaxLimit
	}
	if c.Storage.Driver == "" {
		c.Storage = defaults.Storage
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaults.HTTP.Addr
	}
	if c.HTTP.ReadHeaderTimeout == 0 {
		c.HTTP.ReadHeaderTimeout = defaults.HTTP.ReadHeaderTimeout
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = defaults.HTTP.ShutdownTimeout
	}
	types := make(map[string]bool, len(defaults.Push.Types))
	for key, enabled := range defaults.Push.Types {
		types[key] = enabled
	}
	for key, enabled := range c.Push.Types {
		types[key] = enabled
	}
	c.Push.Types = types
	if c.Email.Region == "" {
		c.Email.Region = defaults.Email.Region
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
