package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/grafana/pyroscope-go"

	"github.com/echenim/bedrock/engine"
	"github.com/echenim/bedrock/hostapi"
	"github.com/echenim/bedrock/internal/blog"
	"github.com/echenim/bedrock/internal/execmetrics"
	"github.com/echenim/bedrock/primitives"
	"github.com/echenim/bedrock/sandbox"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	log := newLogger(cfg)
	blog.SetDefault(log)

	log.Info("bedrockd starting", "version", version, "commit", commit)
	log.Info("resolved configuration",
		"block", cfg.BlockPath,
		"datadir", cfg.DataDir,
		"wasm", cfg.WasmPath,
		"gas_limit", cfg.GasLimit,
		"fuel_limit", cfg.FuelLimit,
	)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	if cfg.Profile {
		profiler, err := startProfiling()
		if err != nil {
			log.Error("failed to start profiler", "error", err)
			return 1
		}
		if profiler != nil {
			defer profiler.Stop()
		}
	}

	if cfg.MetricsAddr != "" {
		stopMetrics := serveMetrics(cfg.MetricsAddr, log)
		defer stopMetrics()
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open state store", "error", err)
		return 1
	}
	defer closeStore()

	limits := primitives.ExecutionLimits{
		GasLimit:      cfg.GasLimit,
		MaxEvents:     uint32(cfg.MaxEvents),
		MaxWriteBytes: uint32(cfg.MaxWriteBytes),
	}

	request, err := loadBlockInput(cfg.BlockPath, limits)
	if err != nil {
		log.Error("failed to load block", "error", err)
		return 1
	}

	response, overlay, err := executeRequest(cfg, request, store)
	if err != nil {
		log.Error("execution failed", "error", err)
		return 1
	}

	if response.Status.IsOk() && overlay != nil {
		if applier, ok := store.(hostapi.OverlayApplier); ok {
			if err := applier.ApplyOverlay(overlay); err != nil {
				log.Error("failed to commit overlay", "error", err)
				return 1
			}
		}
	}

	execmetrics.BlocksExecuted.Inc()
	execmetrics.GasUsed.Observe(float64(response.GasUsed))

	log.Info("block executed", "status", response.Status.String(), "gas_used", response.GasUsed)

	if err := json.NewEncoder(os.Stdout).Encode(renderResponse(response)); err != nil {
		log.Error("failed to write response", "error", err)
		return 1
	}
	return 0
}

// parseFlags parses CLI arguments into a Config, overlaying an optional
// --config JSON file beneath CLI-supplied values. Returns the config,
// whether the caller should exit immediately, and the exit code.
func parseFlags(args []string) (Config, bool, int) {
	defaults := DefaultConfig()
	cfg := DefaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Printf("bedrockd %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}

	if cfg.ConfigFile != "" {
		fc, err := loadFileConfig(cfg.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cfg, true, 2
		}
		applyFileConfig(&cfg, fc, defaults)
	}

	return cfg, false, 0
}

// newLogger builds the process logger from --log-format and --verbosity.
func newLogger(cfg Config) *blog.Logger {
	level := blog.SlogLevel(blog.LevelFromString(cfg.Verbosity))
	if cfg.LogFormat == "json" {
		return blog.New(level)
	}
	return blog.NewWithFormatter(os.Stderr, level, blog.FormatterFromName(cfg.LogFormat))
}

// startProfiling enables continuous CPU/heap profiling via Pyroscope,
// pointed at PYROSCOPE_SERVER_ADDRESS or a local default.
func startProfiling() (*pyroscope.Profiler, error) {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		addr = "http://localhost:4040"
	}
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: "bedrockd",
		ServerAddress:   addr,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

// serveMetrics starts an HTTP server exposing execmetrics.DefaultRegistry
// in Prometheus exposition format. Returns a function that shuts it down.
func serveMetrics(addr string, log *blog.Logger) func() {
	bridge := execmetrics.NewBridge("bedrock", execmetrics.DefaultRegistry)
	bridge.Sync()

	mux := http.NewServeMux()
	mux.Handle("/metrics", bridge.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", "error", err)
		}
	}()

	return func() { _ = server.Close() }
}

// openStore opens the committed-state backend: Pebble if --datadir is set,
// otherwise an in-memory store.
func openStore(cfg Config) (hostapi.StateStore, func(), error) {
	if cfg.DataDir == "" {
		return hostapi.NewMemStore(), func() {}, nil
	}
	store, err := hostapi.OpenPebbleStateStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// executeRequest runs the block through the sandbox if --wasm is set, or
// natively through the engine package otherwise. It returns the response
// and the overlay entries to commit on success.
func executeRequest(cfg Config, request *primitives.ExecutionRequest, store hostapi.StateStore) (*primitives.ExecutionResponse, []primitives.WriteEntry, error) {
	if cfg.WasmPath != "" {
		return executeSandboxed(cfg, request, store)
	}
	return executeNative(cfg, request, store)
}

func executeNative(cfg Config, request *primitives.ExecutionRequest, store hostapi.StateStore) (*primitives.ExecutionResponse, []primitives.WriteEntry, error) {
	context := primitives.ExecutionContextFromRequest(request)
	host := hostapi.NewStoreHost(store, context)
	response := engine.ExecuteBlock(request, host)
	return &response, host.Overlay().Drain(), nil
}

func executeSandboxed(cfg Config, request *primitives.ExecutionRequest, store hostapi.StateStore) (*primitives.ExecutionResponse, []primitives.WriteEntry, error) {
	sbConfig := sandbox.DefaultConfig()
	sbConfig.FuelLimit = cfg.FuelLimit
	sbConfig.MaxMemoryPages = uint32(cfg.MaxMemoryPages)
	sbConfig.EnableGuestLogs = cfg.EnableGuestLogs

	box, err := sandbox.FromFile(cfg.WasmPath, sbConfig)
	if err != nil {
		return nil, nil, err
	}
	execmetrics.SandboxInstantiations.Inc()

	response, overlay, execErr := box.ExecuteBlock(request, store)
	if execErr != nil {
		if execErr.Kind == sandbox.ErrKindFuelExhausted {
			execmetrics.SandboxOutOfFuel.Inc()
		}
		return nil, nil, execErr
	}

	return response, overlay, nil
}
