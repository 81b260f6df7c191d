package dynamock

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for a dynamock context
type Config struct {
	// LogLevel builds a development logger at this level when no logger is
	// injected with WithLogger. Empty means no logging.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// RejectClientEvaluation fails Go predicates and orderings that a real
	// provider could not translate
	RejectClientEvaluation bool `json:"reject_client_evaluation" yaml:"reject_client_evaluation"`

	// DefaultCommandResult, when set, registers a wildcard command
	// expectation returning this many affected rows
	DefaultCommandResult *int64 `json:"default_command_result" yaml:"default_command_result"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RejectClientEvaluation: true,
	}
}

// ParseConfig reads YAML over the default configuration
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

func (c *Config) level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return level, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c *Config) buildLogger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
