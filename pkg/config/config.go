package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

// EnvPrefix prefixes every environment override, e.g.
// RECURSIVE_NFS_APPLIANCE_API_KEY for appliance_api.key.
const EnvPrefix = "RECURSIVE_NFS"

// ErrNotFound is returned by Load when no configuration file exists.
var ErrNotFound = errors.New("configuration file not found")

// Config represents the recursive-nfs configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (RECURSIVE_NFS_*), including a .env file
//  2. Configuration file (YAML)
//  3. Default values
//
// share_options is read straight from the YAML file: its keys are dataset
// names and must keep their exact spelling.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics controls the Prometheus textfile written after each run
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// ApplianceAPI locates and authenticates against the appliance REST API
	ApplianceAPI ApplianceAPIConfig `mapstructure:"appliance_api" yaml:"appliance_api"`

	// MountPrefix is the directory datasets are mounted under
	MountPrefix string `mapstructure:"mount_prefix" validate:"required,startswith=/,endswith=/" yaml:"mount_prefix" jsonschema:"default=/mnt/"`

	// Shares lists the dataset name prefixes that get an NFS share
	Shares []string `mapstructure:"shares" validate:"required,min=1,dive,required" yaml:"shares" jsonschema:"minItems=1"`

	// ShareOptions holds the default and per-dataset share settings
	ShareOptions ShareOptions `mapstructure:"-" yaml:"share_options"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR" yaml:"level" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR"`

	// Format specifies the log output format
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format" jsonschema:"enum=text,enum=json"`

	// Output is stdout, stderr or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS towards the collector
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of runs traced (0.0 to 1.0)
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig controls run metrics.
type MetricsConfig struct {
	// Textfile is the node_exporter textfile collector path. Empty disables
	// metrics.
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

// ApplianceAPIConfig configures the appliance REST client.
type ApplianceAPIConfig struct {
	// Host is the scheme and authority, e.g. https://nas.local
	Host string `mapstructure:"host" validate:"required,url" yaml:"host"`

	// Path is the API root appended to Host
	Path string `mapstructure:"path" validate:"required,startswith=/" yaml:"path" jsonschema:"default=/api/v2.0"`

	// Key is the API key sent as a bearer token
	Key string `mapstructure:"key" validate:"required" yaml:"key"`

	// Timeout bounds every HTTP request
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0" yaml:"timeout"`

	// InsecureSkipVerify accepts self-signed appliance certificates
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

// BaseURL returns Host joined with Path.
func (a ApplianceAPIConfig) BaseURL() string {
	return strings.TrimRight(a.Host, "/") + a.Path
}

// ShareOptions holds option bundles keyed by option name. See
// share.DecodeOptions for the accepted keys.
type ShareOptions struct {
	Default share.Bundle            `yaml:"default"`
	Custom  map[string]share.Bundle `yaml:"custom,omitempty"`
}

// ShareGenerator builds the desired-share generator for this configuration.
func (c *Config) ShareGenerator() *share.Generator {
	return share.NewGenerator(c.MountPrefix, c.ShareOptions.Default, c.ShareOptions.Custom)
}

// Redacted returns a copy with the API key masked, for display.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.ApplianceAPI.Key != "" {
		cp.ApplianceAPI.Key = "********"
	}
	return &cp
}

// Load loads configuration from file, environment, and defaults, then
// validates it. An empty configPath searches ./config.yaml and then the user
// config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}
	used := v.ConfigFileUsed()

	// .env files never override variables already set in the environment.
	loadDotEnv(".", filepath.Dir(used))

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	opts, err := readShareOptions(used)
	if err != nil {
		return nil, err
	}
	cfg.ShareOptions = opts

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg as YAML with owner-only permissions.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// envBoundKeys are overridable from the environment even when the file does
// not mention them.
var envBoundKeys = []string{
	"logging.level",
	"logging.format",
	"logging.output",
	"telemetry.enabled",
	"telemetry.endpoint",
	"metrics.textfile",
	"appliance_api.host",
	"appliance_api.path",
	"appliance_api.key",
	"appliance_api.timeout",
	"appliance_api.insecure_skip_verify",
	"mount_prefix",
}

func setupViper(v *viper.Viper, configPath string) {
	// Example: RECURSIVE_NFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envBoundKeys {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(getConfigDir())
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w\n\n"+
			"Create one first:\n"+
			"  recursive-nfs config init\n\n"+
			"Or point to an existing file:\n"+
			"  recursive-nfs <command> --config /path/to/config.yaml", ErrNotFound)
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// readShareOptions decodes the share_options section of the YAML file at path.
func readShareOptions(path string) (ShareOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ShareOptions{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var doc struct {
		ShareOptions ShareOptions `yaml:"share_options"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ShareOptions{}, fmt.Errorf("failed to parse share_options: %w", err)
	}
	return doc.ShareOptions, nil
}

func loadDotEnv(dirs ...string) {
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// durationDecodeHook converts strings like "30s" and bare numbers (seconds)
// to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns $XDG_CONFIG_HOME/recursive-nfs, ~/.config/recursive-nfs,
// or "." when no home directory is known.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "recursive-nfs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "recursive-nfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
