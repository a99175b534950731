package sandbox

import "testing"

func TestCreateEngine(t *testing.T) {
	_, err := createEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSandboxRejectsEmptyWasm(t *testing.T) {
	_, err := New([]byte{}, DefaultConfig())
	if err == nil {
		t.Fatal("expected empty wasm to be rejected")
	}
}

func TestSandboxAcceptsMinimalValidModule(t *testing.T) {
	wasm, werr := compileWatBytes(minimalValidWat)
	if werr != nil {
		t.Fatalf("wat2wasm: %v", werr)
	}
	if _, err := New(wasm, DefaultConfig()); err != nil {
		t.Fatalf("expected minimal module to be accepted: %v", err)
	}
}

func TestSandboxRejectsMissingExport(t *testing.T) {
	wat := `
	(module
		(memory (export "memory") 1)
		(func (export "bedrock_init") (param i32 i32) (result i32) (i32.const 0))
	)`
	wasm, werr := compileWatBytes(wat)
	if werr != nil {
		t.Fatalf("wat2wasm: %v", werr)
	}
	if _, err := New(wasm, DefaultConfig()); err == nil {
		t.Fatal("expected missing-export module to be rejected")
	}
}
