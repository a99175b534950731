package hostapi

import (
	"testing"

	"github.com/echenim/bedrock/primitives"
)

func TestDefaultExecutionConfigValues(t *testing.T) {
	cfg := DefaultExecutionConfig()
	if cfg.GasLimit != 10_000_000 {
		t.Fatalf("unexpected gas limit: %d", cfg.GasLimit)
	}
	if cfg.MaxEvents != 1024 {
		t.Fatalf("unexpected max events: %d", cfg.MaxEvents)
	}
	if cfg.MaxWriteBytes != 4*1024*1024 {
		t.Fatalf("unexpected max write bytes: %d", cfg.MaxWriteBytes)
	}
	if cfg.MaxKeyLen != primitives.MaxKeyLen || cfg.MaxValueLen != primitives.MaxValueLen {
		t.Fatalf("unexpected key/value limits: %+v", cfg)
	}
	if cfg.MaxLogLines != 256 || cfg.MaxLogLineLen != 1024 {
		t.Fatalf("unexpected log limits: %+v", cfg)
	}
}

func TestExecutionConfigFromLimits(t *testing.T) {
	limits := primitives.ExecutionLimits{
		GasLimit:      5_000_000,
		MaxEvents:     512,
		MaxWriteBytes: 2 * 1024 * 1024,
	}
	cfg := ExecutionConfigFromLimits(limits)

	if cfg.GasLimit != 5_000_000 || cfg.MaxEvents != 512 || cfg.MaxWriteBytes != 2*1024*1024 {
		t.Fatalf("unexpected overridden fields: %+v", cfg)
	}
	if cfg.MaxKeyLen != primitives.MaxKeyLen || cfg.MaxValueLen != primitives.MaxValueLen {
		t.Fatalf("expected defaulted key/value limits, got %+v", cfg)
	}
	if cfg.MaxLogLines != 256 || cfg.MaxLogLineLen != 1024 {
		t.Fatalf("expected defaulted log limits, got %+v", cfg)
	}
}
