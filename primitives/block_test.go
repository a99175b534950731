package primitives

import "testing"

func sampleBlock() Block {
	return Block{
		Header: BlockHeader{
			Height:    7,
			Round:     1,
			ChainID:   []byte("test-chain"),
			BlockTime: 1_700_000_000,
		},
		Transactions: []Transaction{
			NewTransaction([]byte("tx-a")),
			NewTransaction([]byte("tx-b")),
		},
	}
}

func TestHeaderHashDeterministic(t *testing.T) {
	h := sampleBlock().Header
	a := h.HeaderHash()
	b := h.HeaderHash()
	if a != b {
		t.Fatalf("expected identical hashes for identical header")
	}

	h2 := h
	h2.Height = 8
	if h2.HeaderHash() == a {
		t.Fatalf("expected different hash after height change")
	}
}

func TestRequestFromBlock(t *testing.T) {
	block := sampleBlock()
	limits := DefaultExecutionLimits()
	req := RequestFromBlock(block, ZeroHash, limits)

	if req.APIVersion != APIVersion {
		t.Errorf("APIVersion = %d, want %d", req.APIVersion, APIVersion)
	}
	if req.BlockHeight != block.Header.Height {
		t.Errorf("BlockHeight = %d, want %d", req.BlockHeight, block.Header.Height)
	}
	if len(req.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(req.Transactions))
	}
	if string(req.Transactions[0]) != "tx-a" {
		t.Errorf("Transactions[0] = %q, want tx-a", req.Transactions[0])
	}
	if req.BlockHash != block.Header.HeaderHash() {
		t.Errorf("BlockHash mismatch")
	}
	if req.PrevStateRoot != ZeroHash {
		t.Errorf("PrevStateRoot = %v, want ZeroHash", req.PrevStateRoot)
	}
}
