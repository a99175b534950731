// Command bedrockd executes blocks through the Bedrock execution engine,
// either natively (calling engine.ExecuteBlock in-process) or inside the
// WASM sandbox (given a compiled guest module with --wasm), against an
// in-memory or Pebble-backed committed state store.
//
// Usage:
//
//	bedrockd --block path/to/block.json [flags]
//
// Flags:
//
//	--block              Path to a JSON block description (required)
//	--datadir            Pebble data directory (default: in-memory store)
//	--wasm               Path to a compiled WASM guest module (default: native engine)
//	--gas-limit          Per-block gas budget (default: 10000000)
//	--max-events         Max events per block (default: 1024)
//	--max-write-bytes    Max overlay write bytes per block (default: 4194304)
//	--fuel-limit         Wasmtime instruction-fuel budget (default: 100000000)
//	--max-memory-pages   Guest linear memory cap, in 64 KiB pages (default: 256)
//	--enable-guest-logs  Retain guest debug log lines (default: false)
//	--metrics-addr       Address to serve Prometheus metrics on (default: disabled)
//	--profile            Enable continuous profiling via Pyroscope (default: false)
//	--log-format         Log output format: json, text, color (default: json)
//	--verbosity          Log level: debug, info, warn, error (default: info)
//	--config             Path to a JSON config file; flags override its values
package main

import (
	"errors"
	"fmt"
)

// Config holds all configuration for a bedrockd run.
type Config struct {
	BlockPath string
	DataDir   string
	WasmPath  string

	GasLimit      uint64
	MaxEvents     uint64
	MaxWriteBytes uint64

	FuelLimit      uint64
	MaxMemoryPages uint64
	EnableGuestLogs bool

	MetricsAddr string
	Profile     bool

	LogFormat string
	Verbosity string

	ConfigFile string
}

// DefaultConfig returns a Config with Bedrock's out-of-the-box settings,
// matching primitives.DefaultExecutionLimits and sandbox.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		GasLimit:        10_000_000,
		MaxEvents:       1024,
		MaxWriteBytes:   4 * 1024 * 1024,
		FuelLimit:       100_000_000,
		MaxMemoryPages:  256,
		EnableGuestLogs: false,
		LogFormat:       "json",
		Verbosity:       "info",
	}
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.BlockPath == "" {
		return errors.New("config: --block is required")
	}
	if c.GasLimit == 0 {
		return errors.New("config: gas-limit must be greater than 0")
	}
	if c.MaxEvents == 0 {
		return errors.New("config: max-events must be greater than 0")
	}
	if c.MaxWriteBytes == 0 {
		return errors.New("config: max-write-bytes must be greater than 0")
	}
	if c.WasmPath != "" {
		if c.FuelLimit == 0 {
			return errors.New("config: fuel-limit must be greater than 0 when --wasm is set")
		}
		if c.MaxMemoryPages == 0 {
			return errors.New("config: max-memory-pages must be greater than 0 when --wasm is set")
		}
	}
	switch c.LogFormat {
	case "json", "text", "color":
	default:
		return fmt.Errorf("config: unknown log-format %q", c.LogFormat)
	}
	return nil
}
