// Package config loads engineering constants, job files and runtime settings.
//
// Settings come from the environment, optionally seeded from a .env file:
//
//	DOMESPEC_CONSTANTS   path to a TOML file overriding engine constants
//	DOMESPEC_LOG_LEVEL   debug, info, warn or error (default info)
//	DOMESPEC_LOG_FORMAT  text or json (default text)
//	DOMESPEC_TRACE_FILE  file receiving OpenTelemetry spans (default off)
//
// Variables already set in the environment win over the .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
)

// Environment variable names.
const (
	EnvConstants = "DOMESPEC_CONSTANTS"
	EnvLogLevel  = "DOMESPEC_LOG_LEVEL"
	EnvLogFormat = "DOMESPEC_LOG_FORMAT"
	EnvTraceFile = "DOMESPEC_TRACE_FILE"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultProfile names the built-in constants.
const DefaultProfile = "default"

// Config is the resolved runtime configuration.
type Config struct {
	Constants     engine.Constants
	ConstantsPath string // empty when the built-in constants are used
	LogLevel      string
	LogFormat     string
	TraceFile     string // empty when tracing is off
}

// Profile names the constants set in use: the constants file's base name
// without extension, or "default".
func (c *Config) Profile() string {
	if c.ConstantsPath == "" {
		return DefaultProfile
	}
	base := filepath.Base(c.ConstantsPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads .env files (missing files are ignored) and then the environment.
// With no envFiles it tries ".env" in the working directory.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", f)
		}
	}

	cfg := &Config{
		Constants:     engine.DefaultConstants(),
		ConstantsPath: os.Getenv(EnvConstants),
		LogLevel:      strings.ToLower(getEnv(EnvLogLevel, "info")),
		LogFormat:     strings.ToLower(getEnv(EnvLogFormat, LogFormatText)),
		TraceFile:     os.Getenv(EnvTraceFile),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s must be debug, info, warn or error, got %q", EnvLogLevel, cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s must be %s or %s, got %q", EnvLogFormat, LogFormatText, LogFormatJSON, cfg.LogFormat)
	}

	if cfg.ConstantsPath != "" {
		c, err := LoadConstants(cfg.ConstantsPath)
		if err != nil {
			return nil, err
		}
		cfg.Constants = c
	}
	return cfg, nil
}

// UseConstantsFile replaces the constants with those read from path.
func (c *Config) UseConstantsFile(path string) error {
	consts, err := LoadConstants(path)
	if err != nil {
		return err
	}
	c.Constants = consts
	c.ConstantsPath = path
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("profile=%s log=%s/%s", c.Profile(), c.LogLevel, c.LogFormat)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
