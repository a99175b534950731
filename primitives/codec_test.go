package primitives

import (
	"bytes"
	"testing"
)

func sampleRequest() *ExecutionRequest {
	seed := Hash{9, 9, 9}
	return &ExecutionRequest{
		APIVersion:    APIVersion,
		ChainID:       []byte("bedrock-testnet-1"),
		BlockHeight:   42,
		BlockTime:     1_700_000_000,
		BlockHash:     Hash{1, 2, 3},
		PrevStateRoot: Hash{4, 5, 6},
		Transactions:  [][]byte{[]byte("tx-one"), []byte("tx-two")},
		Limits:        DefaultExecutionLimits(),
		ExecutionSeed: &seed,
	}
}

func TestExecutionRequestRoundTrip(t *testing.T) {
	req := sampleRequest()
	encoded := EncodeExecutionRequest(req)
	decoded, err := DecodeExecutionRequest(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.APIVersion != req.APIVersion || decoded.BlockHeight != req.BlockHeight {
		t.Fatalf("scalar fields mismatch: %+v", decoded)
	}
	if !bytes.Equal(decoded.ChainID, req.ChainID) {
		t.Fatalf("chain id mismatch")
	}
	if len(decoded.Transactions) != 2 || string(decoded.Transactions[0]) != "tx-one" {
		t.Fatalf("transactions mismatch: %+v", decoded.Transactions)
	}
	if decoded.ExecutionSeed == nil || *decoded.ExecutionSeed != *req.ExecutionSeed {
		t.Fatalf("execution seed mismatch")
	}
	reEncoded := EncodeExecutionRequest(decoded)
	if !bytes.Equal(encoded, reEncoded) {
		t.Fatalf("re-encoding did not reproduce the original bytes")
	}
}

func TestExecutionRequestNoSeedNoTransactions(t *testing.T) {
	req := &ExecutionRequest{
		APIVersion:    APIVersion,
		ChainID:       []byte("c"),
		BlockHeight:   1,
		PrevStateRoot: ZeroHash,
		Limits:        DefaultExecutionLimits(),
	}
	decoded, err := DecodeExecutionRequest(EncodeExecutionRequest(req))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ExecutionSeed != nil {
		t.Fatalf("expected nil seed")
	}
	if len(decoded.Transactions) != 0 {
		t.Fatalf("expected no transactions")
	}
}

func TestExecutionRequestTruncatedDataFails(t *testing.T) {
	req := sampleRequest()
	encoded := EncodeExecutionRequest(req)
	_, err := DecodeExecutionRequest(encoded[:len(encoded)-5])
	if err == nil {
		t.Fatalf("expected decode to fail on truncated input")
	}
}

func TestExecutionResponseRoundTrip(t *testing.T) {
	resp := &ExecutionResponse{
		APIVersion:   APIVersion,
		Status:       StatusOk,
		NewStateRoot: Hash{7, 7, 7},
		GasUsed:      12345,
		Receipts: []Receipt{
			{TxIndex: 0, Success: true, GasUsed: 100, ResultCode: 0, ReturnData: nil},
			{TxIndex: 1, Success: false, GasUsed: 0, ResultCode: 2, ReturnData: []byte("x")},
		},
		Events: []Event{
			{TxIndex: 0, EventType: "transfer", Attributes: []EventAttribute{
				{Key: "sender", Value: []byte{1}},
				{Key: "amount", Value: []byte{0, 0, 0, 0, 0, 0, 0, 1}},
			}},
		},
		Logs: []LogLine{{Level: 1, Message: "hello"}},
	}
	encoded := EncodeExecutionResponse(resp)
	decoded, err := DecodeExecutionResponse(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Status != StatusOk || decoded.GasUsed != 12345 {
		t.Fatalf("scalar mismatch: %+v", decoded)
	}
	if len(decoded.Receipts) != 2 || len(decoded.Events) != 1 || len(decoded.Logs) != 1 {
		t.Fatalf("collection length mismatch: %+v", decoded)
	}
	if !bytes.Equal(EncodeExecutionResponse(decoded), encoded) {
		t.Fatalf("re-encoding did not round-trip")
	}
}

func TestFailureResponseRoundTrip(t *testing.T) {
	resp := FailureResponse(APIVersion, StatusInvalidBlock, Hash{1})
	encoded := EncodeExecutionResponse(&resp)
	decoded, err := DecodeExecutionResponse(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Status != StatusInvalidBlock || decoded.GasUsed != 0 || len(decoded.Receipts) != 0 {
		t.Fatalf("unexpected failure response: %+v", decoded)
	}
}

func TestExecutionContextRoundTrip(t *testing.T) {
	req := sampleRequest()
	ctx := ExecutionContextFromRequest(req)
	encoded := EncodeExecutionContext(&ctx)
	decoded, err := DecodeExecutionContext(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.BlockHeight != ctx.BlockHeight || decoded.GasLimit != ctx.GasLimit {
		t.Fatalf("context mismatch: %+v", decoded)
	}
	if !bytes.Equal(EncodeExecutionContext(&decoded), encoded) {
		t.Fatalf("re-encoding did not round-trip")
	}
}

func TestSingleEventRoundTrip(t *testing.T) {
	e := Event{TxIndex: 3, EventType: "transfer", Attributes: []EventAttribute{{Key: "k", Value: []byte("v")}}}
	encoded := EncodeSingleEvent(&e)
	decoded, err := DecodeSingleEvent(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.TxIndex != 3 || decoded.EventType != "transfer" {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestDecodeRejectsInvalidBool(t *testing.T) {
	r := NewReader([]byte{2})
	if _, err := r.ReadBool(); err == nil {
		t.Fatalf("expected error for non 0/1 bool byte")
	}
}

func TestDecodeRejectsInvalidUTF8String(t *testing.T) {
	var buf []byte
	buf = writeU32(buf, 2)
	buf = append(buf, 0xff, 0xfe)
	r := NewReader(buf)
	if _, err := r.ReadString(); err == nil {
		t.Fatalf("expected error for invalid utf-8")
	}
}
