package engine

import (
	"math"
	"testing"

	"github.com/echenim/bedrock/primitives"
)

func validTestRequest() *primitives.ExecutionRequest {
	return &primitives.ExecutionRequest{
		APIVersion:    primitives.APIVersion,
		ChainID:       []byte("bedrock-test"),
		BlockHeight:   1,
		BlockTime:     1_700_000_000,
		BlockHash:     primitives.ZeroHash,
		PrevStateRoot: primitives.ZeroHash,
		Limits:        primitives.DefaultExecutionLimits(),
	}
}

func TestValidRequestPasses(t *testing.T) {
	if err := ValidateRequest(validTestRequest()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestInvalidAPIVersion(t *testing.T) {
	req := validTestRequest()
	req.APIVersion = 999
	err := ValidateRequest(req)
	if err == nil || err.Kind != primitives.ExecErrKindInvalidAPIVersion {
		t.Fatalf("expected InvalidAPIVersion, got %v", err)
	}
	if err.ExpectedVersion != 1 || err.GotVersion != 999 {
		t.Fatalf("unexpected version fields: %+v", err)
	}
}

func TestZeroBlockHeightRejected(t *testing.T) {
	req := validTestRequest()
	req.BlockHeight = 0
	err := ValidateRequest(req)
	if err == nil || err.Kind != primitives.ExecErrKindInvalidBlock {
		t.Fatalf("expected InvalidBlock, got %v", err)
	}
}

func TestEmptyChainIDRejected(t *testing.T) {
	req := validTestRequest()
	req.ChainID = nil
	err := ValidateRequest(req)
	if err == nil || err.Kind != primitives.ExecErrKindInvalidBlock {
		t.Fatalf("expected InvalidBlock, got %v", err)
	}
}

func TestZeroGasLimitRejected(t *testing.T) {
	req := validTestRequest()
	req.Limits.GasLimit = 0
	err := ValidateRequest(req)
	if err == nil || err.Kind != primitives.ExecErrKindInvalidBlock {
		t.Fatalf("expected InvalidBlock, got %v", err)
	}
}

func TestHighBlockHeightValid(t *testing.T) {
	req := validTestRequest()
	req.BlockHeight = math.MaxUint64
	if err := ValidateRequest(req); err != nil {
		t.Fatalf("expected max block height to be valid, got %v", err)
	}
}

func TestWithTransactionsValid(t *testing.T) {
	req := validTestRequest()
	req.Transactions = [][]byte{[]byte("tx1"), []byte("tx2")}
	if err := ValidateRequest(req); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}
