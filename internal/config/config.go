package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// SupportedVersion is the only configuration schema version understood.
const SupportedVersion = "1"

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" default:"1"`
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

// APIConfig controls how the client reaches the Posts API.
type APIConfig struct {
	BaseURL          string  `yaml:"base_url" default:"http://localhost:4000/"`
	TimeoutSeconds   int     `yaml:"timeout_seconds" default:"10"`
	MaxRetries       int     `yaml:"max_retries" default:"3"`
	RetryBaseDelayMS int     `yaml:"retry_base_delay_ms" default:"250"`
	RetryMaxDelayMS  int     `yaml:"retry_max_delay_ms" default:"2000"`
	RetryJitter      float64 `yaml:"retry_jitter" default:"0.25"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (a APIConfig) RetryBaseDelay() time.Duration {
	return time.Duration(a.RetryBaseDelayMS) * time.Millisecond
}

func (a APIConfig) RetryMaxDelay() time.Duration {
	return time.Duration(a.RetryMaxDelayMS) * time.Millisecond
}

// ServerConfig configures the reference Posts API.
type ServerConfig struct {
	Host        string `yaml:"host" default:"0.0.0.0"`
	Port        string `yaml:"port" default:"4000"`
	Backend     string `yaml:"backend" default:"sqlite"`
	Database    string `yaml:"database" default:"./posts.db"`
	Compression string `yaml:"compression" default:"zstd"`
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StoreConfig configures the client state container.
type StoreConfig struct {
	Name string `yaml:"name" default:"blog"`
	Seed bool   `yaml:"seed" default:"true"`
}

var AppConfig *Config

// LoadConfig loads path into AppConfig.
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load reads the YAML file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		return config, nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("unsupported configuration version %q (want %q)", c.Version, SupportedVersion)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	switch c.Server.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("server.backend must be sqlite or memory, got %q", c.Server.Backend)
	}
	switch c.Server.Compression {
	case "zstd", "gzip":
	default:
		return fmt.Errorf("server.compression must be zstd or gzip, got %q", c.Server.Compression)
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
