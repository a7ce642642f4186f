// Package config holds the plugin configuration and its validation rules.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentSocketEnv names the fallback environment variable for the agent socket path.
const AgentSocketEnv = "MACHMON_AGENT_SOCKET"

// Config is the full plugin configuration. Trigger percentages are pointers
// so that "absent" can be told apart from an explicit 0 (0 disables the
// trigger, absent is a validation error).
type Config struct {
	ExtractDisk       bool `yaml:"extract_disk"`
	ExtractProcesses  bool `yaml:"extract_processes"`
	MonitorInterval   int  `yaml:"monitor_interval"`
	CPUTriggerPercent *int `yaml:"cpu_trigger_percentage"`
	MemTriggerPercent *int `yaml:"mem_trigger_percentage"`

	Agent  AgentConfig  `yaml:"agent"`
	Server ServerConfig `yaml:"server"`
}

// AgentConfig controls the optional agent notification socket
type AgentConfig struct {
	SocketPath        string `yaml:"socket_path"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxRetries        int    `yaml:"max_retries"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
}

// ServerConfig controls the optional local status API
type ServerConfig struct {
	Listen      string `yaml:"listen"`
	TokenSecret string `yaml:"token_secret"`
}

// ValidationError reports a rejected configuration value. Validation failures
// are fatal at startup; the monitoring loop is never entered.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Load reads a YAML configuration file and applies defaults.
// It does not validate: flags may still override values afterwards.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in agent connection defaults and resolves the agent
// socket from the environment when unset.
func (c *Config) ApplyDefaults() {
	if c.Agent.SocketPath == "" {
		c.Agent.SocketPath = os.Getenv(AgentSocketEnv)
	}
	if c.Agent.TimeoutSeconds <= 0 {
		c.Agent.TimeoutSeconds = 5
	}
	if c.Agent.MaxRetries <= 0 {
		c.Agent.MaxRetries = 3
	}
	if c.Agent.RetryDelaySeconds <= 0 {
		c.Agent.RetryDelaySeconds = 1
	}
}

// Validate enforces the startup contract: both trigger percentages present
// and within [0,100], interval non-negative. Runs once before the loop.
func (c *Config) Validate() error {
	if c.CPUTriggerPercent == nil {
		return validationErrorf("cpu_trigger_percentage is required")
	}
	if c.MemTriggerPercent == nil {
		return validationErrorf("mem_trigger_percentage is required")
	}
	if *c.CPUTriggerPercent < 0 || *c.CPUTriggerPercent > 100 {
		return validationErrorf("CPU trigger percentage must be between 0 and 100, got %d", *c.CPUTriggerPercent)
	}
	if *c.MemTriggerPercent < 0 || *c.MemTriggerPercent > 100 {
		return validationErrorf("memory trigger percentage must be between 0 and 100, got %d", *c.MemTriggerPercent)
	}
	if c.MonitorInterval < 0 {
		return validationErrorf("monitor interval must be non-negative, got %d", c.MonitorInterval)
	}
	return nil
}

// SingleShot reports whether the plugin runs once and exits
func (c *Config) SingleShot() bool { return c.MonitorInterval == 0 }

// Interval returns the monitoring interval as a duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.MonitorInterval) * time.Second
}
