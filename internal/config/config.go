// Package config loads the optional settings file. JSON, YAML and TOML are
// accepted, chosen by file extension.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"sqlnamer/internal/audit"
	"sqlnamer/internal/scanner"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidFormat   ConfigErrorType = "INVALID_FORMAT"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidFormat:
		return fmt.Sprintf("invalid configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Supported file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Watch mode defaults.
const (
	DefaultDebounceMs        = 500
	DefaultStableThresholdMs = 1000
)

// DefaultIgnorePatterns are editor and download temp files the watcher
// never touches.
var DefaultIgnorePatterns = []string{"*.tmp", "*.swp", "*~", ".#*", "*.part", "*.crdownload"}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs        int      `json:"debounceMs" yaml:"debounceMs" toml:"debounceMs"`
	StableThresholdMs int      `json:"stableThresholdMs" yaml:"stableThresholdMs" toml:"stableThresholdMs"`
	IgnorePatterns    []string `json:"ignorePatterns" yaml:"ignorePatterns" toml:"ignorePatterns"`
}

// Debounce returns the debounce interval.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// StableThreshold returns how long a file must stay unchanged before it is
// renamed.
func (w WatchConfig) StableThreshold() time.Duration {
	return time.Duration(w.StableThresholdMs) * time.Millisecond
}

// Configuration holds all settings. Every field is optional.
type Configuration struct {
	Sort          bool               `json:"sort" yaml:"sort" toml:"sort"`
	SymlinkPolicy string             `json:"symlinkPolicy,omitempty" yaml:"symlinkPolicy,omitempty" toml:"symlinkPolicy,omitempty"`
	AssumeYes     bool               `json:"assumeYes" yaml:"assumeYes" toml:"assumeYes"`
	LogLevel      string             `json:"logLevel,omitempty" yaml:"logLevel,omitempty" toml:"logLevel,omitempty"`
	Audit         *audit.AuditConfig `json:"audit,omitempty" yaml:"audit,omitempty" toml:"audit,omitempty"`
	Watch         *WatchConfig       `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	c := &Configuration{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in zero values. A missing audit or watch section gets
// the full defaults; a partial one only has its empty fields filled.
func (c *Configuration) ApplyDefaults() {
	if c.SymlinkPolicy == "" {
		c.SymlinkPolicy = scanner.SymlinkPolicyFollow
	}

	defaults := audit.DefaultAuditConfig()
	if c.Audit == nil {
		c.Audit = &defaults
	} else {
		if c.Audit.LogDirectory == "" {
			c.Audit.LogDirectory = defaults.LogDirectory
		}
		if c.Audit.RotationSize == 0 {
			c.Audit.RotationSize = defaults.RotationSize
		}
	}

	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = DefaultStableThresholdMs
	}
	if c.Watch.IgnorePatterns == nil {
		c.Watch.IgnorePatterns = append([]string(nil), DefaultIgnorePatterns...)
	}
}

// Validate returns the first error ValidateConfig finds, as a *ConfigError.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return &ConfigError{
		Type:    ValidationError,
		Message: fmt.Sprintf("%s: %s", first.Field, first.Message),
	}
}

// FormatForPath picks the file format from the extension of path.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &ConfigError{
			Type:    InvalidFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q (use .json, .yaml, .yml or .toml)", filepath.Ext(path)),
		}
	}
}

// Load reads, decodes and validates the configuration at filePath, then
// applies defaults.
func Load(filePath string) (*Configuration, error) {
	format, err := FormatForPath(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
				Err:  err,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
			Err:     err,
		}
	}

	config, err := decode(data, format)
	if err != nil {
		return nil, &ConfigError{
			Type:    InvalidFormat,
			Path:    filePath,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	return config, nil
}

// LoadOrDefault loads filePath, or returns Default() when filePath is empty.
func LoadOrDefault(filePath string) (*Configuration, error) {
	if filePath == "" {
		return Default(), nil
	}
	return Load(filePath)
}

func decode(data []byte, format string) (*Configuration, error) {
	var config Configuration
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &config)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// Save writes config to filePath in the format its extension names.
func Save(config *Configuration, filePath string) error {
	format, err := FormatForPath(filePath)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(config)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(config)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return &ConfigError{
			Type:    InvalidFormat,
			Path:    filePath,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
