// Package sandbox runs a compiled WASM guest implementing the bedrock ABI
// inside a wasmtime instance, isolating untrusted block-execution bytecode
// behind a narrow set of host-provided imports: state access, events and
// logs, crypto, gas introspection, and block context. One instance is
// created per block execution and discarded afterward.
package sandbox

import "github.com/echenim/bedrock/hostapi"

// Config controls memory limits, instruction fuel, and execution resource
// limits for the WASM sandbox.
type Config struct {
	// MaxMemoryPages bounds the guest's linear memory (1 page = 64 KiB).
	MaxMemoryPages uint32

	// FuelLimit is the wasmtime instruction-fuel budget, guarding against
	// infinite loops in guest compute that gas accounting alone wouldn't
	// catch (a tight loop with no host calls burns no gas).
	FuelLimit uint64

	// Execution holds the resource limits (gas, events, writes) enforced
	// by the host-call implementations.
	Execution hostapi.ExecutionConfig

	// EnableGuestLogs controls whether guest debug logs are retained.
	EnableGuestLogs bool
}

// DefaultConfig returns the sandbox's out-of-the-box settings: 16 MiB of
// guest memory and 100M units of instruction fuel.
func DefaultConfig() Config {
	return Config{
		MaxMemoryPages:  256,
		FuelLimit:       100_000_000,
		Execution:       hostapi.DefaultExecutionConfig(),
		EnableGuestLogs: false,
	}
}
