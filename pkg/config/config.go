// Package config reads runtime settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment variables
const (
	EnvAllowedTags     = "BBSLATE_ALLOWED_TAGS"
	EnvDeserializeType = "BBSLATE_DESERIALIZE_TYPE"
	EnvBlockSeparator  = "BBSLATE_BLOCK_SEPARATOR"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvEnableTools     = "ENABLE_TOOLS"
	EnvEnableSSE       = "ENABLE_SSE"
	EnvMetricsAddr     = "METRICS_ADDR"
)

// AllTags as BBSLATE_ALLOWED_TAGS lifts the tag allow-list
const AllTags = "any"

// Config holds the settings shared by the server and the CLI
type Config struct {
	// AllowedTags is nil when unset, meaning the standard tag set. An
	// empty set allows every tag.
	AllowedTags     mapset.Set[string]
	DeserializeType string
	BlockSeparator  string
	LogLevel        logrus.Level
	LogFormat       string
	// EnabledTools is empty when every tool is enabled
	EnabledTools []string
	EnableSSE    bool
	MetricsAddr  string
}

// Load reads envFile into the environment, when it exists, and then builds
// the configuration from the environment. Variables already set win over
// the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment
func FromEnv() (*Config, error) {
	cfg := &Config{
		DeserializeType: "block",
		BlockSeparator:  "\n",
		LogLevel:        logrus.InfoLevel,
		LogFormat:       "json",
	}

	if v := strings.TrimSpace(os.Getenv(EnvAllowedTags)); v != "" {
		cfg.AllowedTags = mapset.NewSet[string]()
		if v != AllTags {
			for _, tag := range splitList(v) {
				cfg.AllowedTags.Add(strings.ToLower(tag))
			}
		}
	}

	if v := os.Getenv(EnvDeserializeType); v != "" {
		cfg.DeserializeType = v
	}

	if v, ok := os.LookupEnv(EnvBlockSeparator); ok {
		cfg.BlockSeparator = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvLogLevel)
		}
		cfg.LogLevel = level
	}

	if v := strings.ToLower(os.Getenv(EnvLogFormat)); v != "" {
		if v != "json" && v != "text" {
			return nil, errors.Errorf("invalid %s %q, expected json or text", EnvLogFormat, v)
		}
		cfg.LogFormat = v
	}

	cfg.EnabledTools = splitList(os.Getenv(EnvEnableTools))

	if v := os.Getenv(EnvEnableSSE); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvEnableSSE)
		}
		cfg.EnableSSE = enabled
	}

	cfg.MetricsAddr = os.Getenv(EnvMetricsAddr)

	return cfg, nil
}

// ToolEnabled reports whether the named tool group should be registered
func (c *Config) ToolEnabled(name string) bool {
	if len(c.EnabledTools) == 0 {
		return true
	}
	for _, t := range c.EnabledTools {
		if t == name {
			return true
		}
	}
	return false
}

// NewLogger creates a logger with the configured level and format
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
