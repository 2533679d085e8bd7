package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"orderscope/internal/domain"
	"orderscope/internal/eventbus"
)

// FileName is the name of the config file inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version      int    `toml:"version"`
	APIURL       string `toml:"api_url" env:"ORDERSCOPE_API_URL" validate:"required,url"`
	AuthToken    string `toml:"auth_token,omitempty" env:"ORDERSCOPE_AUTH_TOKEN"`
	ChannelToken string `toml:"channel_token,omitempty" env:"ORDERSCOPE_CHANNEL_TOKEN"`
	LanguageCode string `toml:"language_code,omitempty" env:"ORDERSCOPE_LANGUAGE_CODE"`

	PageSize       int      `toml:"page_size" env:"ORDERSCOPE_PAGE_SIZE" validate:"min=1,max=100"`
	Debounce       Duration `toml:"debounce" env:"ORDERSCOPE_DEBOUNCE" validate:"gte=0"`
	SettleDelay    Duration `toml:"settle_delay" env:"ORDERSCOPE_SETTLE_DELAY" validate:"gte=0"`
	RequestTimeout Duration `toml:"request_timeout" env:"ORDERSCOPE_REQUEST_TIMEOUT" validate:"gt=0"`

	LogFile     string `toml:"log_file" env:"ORDERSCOPE_LOG_FILE"`
	LogLevel    string `toml:"log_level" env:"ORDERSCOPE_LOG_LEVEL" validate:"oneof=debug info warn error"`
	MetricsAddr string `toml:"metrics_addr,omitempty" env:"ORDERSCOPE_METRICS_ADDR"`

	Tracing    TracingSettings `toml:"tracing"`
	UISettings UISettings      `toml:"ui"`
}

// TracingSettings configures OpenTelemetry export of shop API spans
type TracingSettings struct {
	Enabled    bool    `toml:"enabled" env:"ORDERSCOPE_TRACING_ENABLED"`
	Endpoint   string  `toml:"endpoint" env:"ORDERSCOPE_TRACING_ENDPOINT" validate:"required_if=Enabled true"`
	SampleRate float64 `toml:"sample_rate" env:"ORDERSCOPE_TRACING_SAMPLE_RATE" validate:"gte=0,lte=1"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPreview bool `toml:"show_preview" env:"ORDERSCOPE_SHOW_PREVIEW"`
}

// Duration is a time.Duration written as "500ms" in TOML and environment variables
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
	lookup   func(string) (string, bool)
}

// NewConfigServiceAt creates a config service reading and writing path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{
		filePath: path,
		lookup:   os.LookupEnv,
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigServiceAt(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns the platform config location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "orderscope", FileName)
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file, falling back to defaults when it does not exist.
// Environment variables override file values in both cases.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.read(cs.filePath, true)
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath, APIURL: cfg.APIURL})
	}
	return cfg, nil
}

// Save writes the config to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path; the file must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return cs.read(path, false)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold an auth token
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (cs *configService) read(path string, allowMissing bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && allowMissing:
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config file not found: %s", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ(cs.lookup)}); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environ materialises the ORDERSCOPE_* variables visible through lookup
func environ(lookup func(string) (string, bool)) map[string]string {
	out := make(map[string]string)
	for _, key := range envKeys {
		if v, ok := lookup(key); ok {
			out[key] = v
		}
	}
	return out
}

var envKeys = []string{
	"ORDERSCOPE_API_URL",
	"ORDERSCOPE_AUTH_TOKEN",
	"ORDERSCOPE_CHANNEL_TOKEN",
	"ORDERSCOPE_LANGUAGE_CODE",
	"ORDERSCOPE_PAGE_SIZE",
	"ORDERSCOPE_DEBOUNCE",
	"ORDERSCOPE_SETTLE_DELAY",
	"ORDERSCOPE_REQUEST_TIMEOUT",
	"ORDERSCOPE_LOG_FILE",
	"ORDERSCOPE_LOG_LEVEL",
	"ORDERSCOPE_METRICS_ADDR",
	"ORDERSCOPE_TRACING_ENABLED",
	"ORDERSCOPE_TRACING_ENDPOINT",
	"ORDERSCOPE_TRACING_SAMPLE_RATE",
	"ORDERSCOPE_SHOW_PREVIEW",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		APIURL:         "http://localhost:3000/shop-api",
		PageSize:       4,
		Debounce:       Duration(500 * time.Millisecond),
		SettleDelay:    Duration(200 * time.Millisecond),
		RequestTimeout: Duration(10 * time.Second),
		LogFile:        "orderscope.log",
		LogLevel:       "info",
		Tracing: TracingSettings{
			Endpoint:   "localhost:4318",
			SampleRate: 1.0,
		},
		UISettings: UISettings{
			ShowPreview: true,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the config fields that failed validation
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Namespace(), msgForTag(fe)))
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks configuration invariants
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Errors: verrs}
		}
		return err
	}
	return nil
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
