package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/echenim/bedrock/primitives"
)

// blockInput is the on-disk JSON shape a --block file is read as. Hash
// fields and transaction payloads are hex strings (with or without a
// leading "0x"), matching how the rest of the pack renders fixed-size byte
// fields in JSON-facing tooling.
type blockInput struct {
	PrevStateRoot string   `json:"prev_state_root"`
	ChainID       string   `json:"chain_id"`
	Height        uint64   `json:"height"`
	Round         uint64   `json:"round"`
	BlockTime     uint64   `json:"block_time"`
	Transactions  []string `json:"transactions"`
}

// loadBlockInput reads and parses a --block JSON file into an
// ExecutionRequest, applying limits for the fields the block file itself
// does not carry (those are a property of the running node, not the block).
func loadBlockInput(path string, limits primitives.ExecutionLimits) (*primitives.ExecutionRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block: %w", err)
	}
	var in blockInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse block: %w", err)
	}

	prevStateRoot, err := decodeHash(in.PrevStateRoot)
	if err != nil {
		return nil, fmt.Errorf("prev_state_root: %w", err)
	}

	txs := make([]primitives.Transaction, len(in.Transactions))
	for i, hexTx := range in.Transactions {
		raw, err := decodeHexBytes(hexTx)
		if err != nil {
			return nil, fmt.Errorf("transactions[%d]: %w", i, err)
		}
		txs[i] = primitives.NewTransaction(raw)
	}

	block := primitives.Block{
		Header: primitives.BlockHeader{
			Height:    in.Height,
			Round:     in.Round,
			ChainID:   []byte(in.ChainID),
			BlockTime: in.BlockTime,
		},
		Transactions: txs,
	}

	req := primitives.RequestFromBlock(block, prevStateRoot, limits)
	return &req, nil
}

func decodeHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func decodeHash(s string) (primitives.Hash, error) {
	raw, err := decodeHexBytes(s)
	if err != nil {
		return primitives.ZeroHash, err
	}
	if len(raw) == 0 {
		return primitives.ZeroHash, nil
	}
	if len(raw) != len(primitives.ZeroHash) {
		return primitives.ZeroHash, fmt.Errorf("expected %d bytes, got %d", len(primitives.ZeroHash), len(raw))
	}
	var h primitives.Hash
	copy(h[:], raw)
	return h, nil
}
