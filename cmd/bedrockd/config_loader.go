package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileConfig mirrors the subset of Config fields that may be set from a
// JSON config file. Zero values are treated as "not set" and left for
// flag defaults or CLI overrides to fill in, so a config file only ever
// needs to mention the fields it wants to override.
type fileConfig struct {
	DataDir         string `json:"datadir"`
	WasmPath        string `json:"wasm"`
	GasLimit        uint64 `json:"gas_limit"`
	MaxEvents       uint64 `json:"max_events"`
	MaxWriteBytes   uint64 `json:"max_write_bytes"`
	FuelLimit       uint64 `json:"fuel_limit"`
	MaxMemoryPages  uint64 `json:"max_memory_pages"`
	EnableGuestLogs *bool  `json:"enable_guest_logs"`
	MetricsAddr     string `json:"metrics_addr"`
	Profile         *bool  `json:"profile"`
	LogFormat       string `json:"log_format"`
	Verbosity       string `json:"verbosity"`
}

// loadFileConfig reads and parses a JSON config file.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &fc, nil
}

// applyFileConfig copies each non-empty field of fc into cfg where cfg
// still holds its DefaultConfig value. CLI flags are parsed into cfg before
// this runs, so a flag set to a non-default value wins over the config
// file; a flag passed explicitly with its default value cannot be told
// apart from an unset one and is overridden by the file.
func applyFileConfig(cfg *Config, fc *fileConfig, defaults Config) {
	if cfg.DataDir == defaults.DataDir && fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if cfg.WasmPath == defaults.WasmPath && fc.WasmPath != "" {
		cfg.WasmPath = fc.WasmPath
	}
	if cfg.GasLimit == defaults.GasLimit && fc.GasLimit != 0 {
		cfg.GasLimit = fc.GasLimit
	}
	if cfg.MaxEvents == defaults.MaxEvents && fc.MaxEvents != 0 {
		cfg.MaxEvents = fc.MaxEvents
	}
	if cfg.MaxWriteBytes == defaults.MaxWriteBytes && fc.MaxWriteBytes != 0 {
		cfg.MaxWriteBytes = fc.MaxWriteBytes
	}
	if cfg.FuelLimit == defaults.FuelLimit && fc.FuelLimit != 0 {
		cfg.FuelLimit = fc.FuelLimit
	}
	if cfg.MaxMemoryPages == defaults.MaxMemoryPages && fc.MaxMemoryPages != 0 {
		cfg.MaxMemoryPages = fc.MaxMemoryPages
	}
	if cfg.EnableGuestLogs == defaults.EnableGuestLogs && fc.EnableGuestLogs != nil {
		cfg.EnableGuestLogs = *fc.EnableGuestLogs
	}
	if cfg.MetricsAddr == defaults.MetricsAddr && fc.MetricsAddr != "" {
		cfg.MetricsAddr = fc.MetricsAddr
	}
	if cfg.Profile == defaults.Profile && fc.Profile != nil {
		cfg.Profile = *fc.Profile
	}
	if cfg.LogFormat == defaults.LogFormat && fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if cfg.Verbosity == defaults.Verbosity && fc.Verbosity != "" {
		cfg.Verbosity = fc.Verbosity
	}
}
