package main

import (
	"flag"
	"fmt"
	"strconv"
)

// flagSet wraps flag.FlagSet to add support for uint64 flags.
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior.
func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// Uint64Var defines a uint64 flag. Go's standard flag package lacks uint64
// support, so we use a custom Value implementation.
func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

// uint64Value implements flag.Value for uint64 flags.
type uint64Value struct {
	p *uint64
}

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}

// newFlagSet creates a flag.FlagSet that binds all CLI flags to the given
// Config. The FlagSet uses ContinueOnError so callers control the error
// handling behavior.
func newFlagSet(cfg *Config) *flagSet {
	fs := newCustomFlagSet("bedrockd")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to a JSON config file")
	fs.StringVar(&cfg.BlockPath, "block", cfg.BlockPath, "path to a JSON block description")
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "Pebble data directory (default: in-memory store)")
	fs.StringVar(&cfg.WasmPath, "wasm", cfg.WasmPath, "path to a compiled WASM guest module (default: native engine)")

	fs.Uint64Var(&cfg.GasLimit, "gas-limit", cfg.GasLimit, "per-block gas budget")
	fs.Uint64Var(&cfg.MaxEvents, "max-events", cfg.MaxEvents, "max events per block")
	fs.Uint64Var(&cfg.MaxWriteBytes, "max-write-bytes", cfg.MaxWriteBytes, "max overlay write bytes per block")
	fs.Uint64Var(&cfg.FuelLimit, "fuel-limit", cfg.FuelLimit, "wasmtime instruction-fuel budget")
	fs.Uint64Var(&cfg.MaxMemoryPages, "max-memory-pages", cfg.MaxMemoryPages, "guest linear memory cap, in 64 KiB pages")
	fs.BoolVar(&cfg.EnableGuestLogs, "enable-guest-logs", cfg.EnableGuestLogs, "retain guest debug log lines")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve Prometheus metrics on (default: disabled)")
	fs.BoolVar(&cfg.Profile, "profile", cfg.Profile, "enable continuous profiling via Pyroscope")

	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log output format: json, text, color")
	fs.StringVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level: debug, info, warn, error")

	return fs
}
