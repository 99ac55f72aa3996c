package collector

import "time"

// CollectorConfig contains configurable parameters for the snapshot collector.
// Use DefaultCollectorConfig() to get sensible defaults, then override as needed.
type CollectorConfig struct {
	// Timeout for one whole snapshot (default: 2s)
	Timeout time.Duration

	// Simulated acquisition latency before sampling starts (default: 1s).
	// Keeps the refresh indicator visible on fast machines.
	Delay time.Duration

	// Collection limits
	TopProcessCount int      // Number of processes listed (default: 5)
	DiskMounts      []string // Mount points reported by the disk sensor (default: "/")

	// Feature flags
	EnableNetwork   bool // Whether to report network counters (default: true)
	EnableProcesses bool // Whether to list top processes (default: true)
}

// DefaultCollectorConfig returns a CollectorConfig with sensible defaults.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		Timeout: 2 * time.Second,
		Delay:   1 * time.Second,

		TopProcessCount: 5,
		DiskMounts:      []string{"/"},

		EnableNetwork:   true,
		EnableProcesses: true,
	}
}

// WithTimeout returns a copy of the config with a modified snapshot timeout.
func (c CollectorConfig) WithTimeout(d time.Duration) CollectorConfig {
	c.Timeout = d
	return c
}

// WithDelay returns a copy of the config with a modified acquisition delay.
func (c CollectorConfig) WithDelay(d time.Duration) CollectorConfig {
	c.Delay = d
	return c
}

// WithProcesses returns a copy of the config with process listing enabled/disabled.
func (c CollectorConfig) WithProcesses(enabled bool) CollectorConfig {
	c.EnableProcesses = enabled
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c CollectorConfig) Validate() error {
	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}
	if c.Delay < 0 {
		return &ConfigError{Field: "Delay", Message: "must not be negative"}
	}
	if c.EnableProcesses && c.TopProcessCount <= 0 {
		return &ConfigError{Field: "TopProcessCount", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
