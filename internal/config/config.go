// Package config loads the engine's startup configuration from a
// yaml.v3-tagged resource document, the shape cuemby-warren's
// cmd/warren/apply.go reads "apply -f"-style YAML files in.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quarrydb/internal/logging"
)

// Resource is the on-disk configuration document: an apiVersion/kind
// envelope around the engine's actual settings, mirroring the generic
// resource shape cuemby-warren's WarrenResource uses for its YAML configs.
type Resource struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec Config `yaml:"spec"`
}

// Config holds every tunable the storage engine needs at startup: where it
// persists data, the physical page size, buffer pool sizing, and the
// ambient logging/metrics endpoints.
type Config struct {
	// DBDirectory is where the block file, the log file, and every
	// table/index heap file live.
	DBDirectory string `yaml:"dbDirectory"`

	// BlockSize is the page size in bytes shared by every file the engine
	// manages.
	BlockSize int `yaml:"blockSize"`

	// LogFile names the write-ahead log within DBDirectory.
	LogFile string `yaml:"logFile"`

	// BufferPoolSize is the number of page frames the buffer manager
	// keeps pinned at once.
	BufferPoolSize int `yaml:"bufferPoolSize"`

	// LockWaitTimeout bounds how long a transaction waits on the lock
	// table before the concurrency manager aborts it to break a deadlock.
	LockWaitTimeout time.Duration `yaml:"lockWaitTimeout"`

	// LogLevel and JSONLogs configure internal/logging.
	LogLevel string `yaml:"logLevel"`
	JSONLogs bool   `yaml:"jsonLogs"`

	// MetricsAddr, when non-empty, is the address internal/metrics serves
	// /metrics on.
	MetricsAddr string `yaml:"metricsAddr"`
}

// Default returns the configuration a fresh embedded instance starts with
// when no file is supplied.
func Default() Config {
	return Config{
		DBDirectory:     "quarrydata",
		BlockSize:       4096,
		LogFile:         "simpledb.log",
		BufferPoolSize:  8,
		LockWaitTimeout: 10 * time.Second,
		LogLevel:        "info",
		MetricsAddr:     "",
	}
}

// Load reads and parses a YAML resource document from path, filling in
// Default()'s values for anything the document leaves zero.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	var resource Resource
	resource.Spec = cfg
	if err := yaml.Unmarshal(data, &resource); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	result := resource.Spec
	if err := result.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return result, nil
}

// Validate rejects settings that would make the storage engine misbehave
// rather than simply fail to start.
func (c Config) Validate() error {
	if c.DBDirectory == "" {
		return fmt.Errorf("dbDirectory must not be empty")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("blockSize must be positive, got %d", c.BlockSize)
	}
	if c.LogFile == "" {
		return fmt.Errorf("logFile must not be empty")
	}
	if c.BufferPoolSize <= 0 {
		return fmt.Errorf("bufferPoolSize must be positive, got %d", c.BufferPoolSize)
	}
	return nil
}

// LoggingConfig translates this config's logging fields into
// internal/logging's own Config.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      logging.Level(c.LogLevel),
		JSONOutput: c.JSONLogs,
	}
}
