package hostapi

import "github.com/echenim/bedrock/primitives"

// ExecutionConfig bundles resource limits for a single block execution.
// These limits are enforced by the host-side gas meter and the host-call
// implementation (sandbox.hostState); the guest cannot exceed
// them.
type ExecutionConfig struct {
	GasLimit      uint64
	MaxEvents     uint32
	MaxWriteBytes uint32
	MaxKeyLen     int
	MaxValueLen   int
	MaxLogLines   uint32
	MaxLogLineLen int
}

// DefaultExecutionConfig returns production defaults.
func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		GasLimit:      10_000_000,
		MaxEvents:     1024,
		MaxWriteBytes: 4 * 1024 * 1024,
		MaxKeyLen:     primitives.MaxKeyLen,
		MaxValueLen:   primitives.MaxValueLen,
		MaxLogLines:   256,
		MaxLogLineLen: 1024,
	}
}

// ExecutionConfigFromLimits builds a config from an ExecutionLimits,
// applying defaults for the fields ExecutionLimits does not carry
// (key/value/log limits).
func ExecutionConfigFromLimits(limits primitives.ExecutionLimits) ExecutionConfig {
	cfg := DefaultExecutionConfig()
	cfg.GasLimit = limits.GasLimit
	cfg.MaxEvents = limits.MaxEvents
	cfg.MaxWriteBytes = limits.MaxWriteBytes
	return cfg
}
