package primitives

import "encoding/binary"

// BlockHeader carries the consensus-layer metadata identifying a block. The
// execution engine itself only ever reads the fields also present in
// ExecutionRequest; BlockHeader exists so callers assembling a request from
// a real consensus block have somewhere to put the rest.
type BlockHeader struct {
	Height       BlockHeight
	Round        Round
	ParentHash   Hash
	StateRoot    Hash
	TxRoot       Hash
	ProposerID   Address
	BlockTime    uint64 // logical time, not wall-clock
	ChainID      []byte
}

// Block is a header plus its ordered transaction list.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// Transaction is an opaque transaction payload; the engine is responsible
// for decoding and validating its contents (see engine.DecodeTransaction).
type Transaction struct {
	Data []byte
}

// NewTransaction wraps raw bytes as a Transaction.
func NewTransaction(data []byte) Transaction {
	return Transaction{Data: data}
}

// Len returns the length of the transaction's raw bytes.
func (t Transaction) Len() int { return len(t.Data) }

// IsEmpty reports whether the transaction has no bytes.
func (t Transaction) IsEmpty() bool { return len(t.Data) == 0 }

// TxCount returns the number of transactions in the block.
func (b Block) TxCount() int { return len(b.Transactions) }

// IsEmpty reports whether the block has no transactions.
func (b Block) IsEmpty() bool { return len(b.Transactions) == 0 }

// HeaderHash derives a deterministic block hash from the header's fields.
// This stands in for the real consensus-layer block hash, which a caller
// assembling an ExecutionRequest from an actual chain header would already
// have; for callers that only have a BlockHeader (e.g. cmd/bedrockd reading
// a standalone block description) it gives ExecuteBlock something
// consistent to key its ExecutionContext's BlockHash on.
func (h BlockHeader) HeaderHash() Hash {
	buf := make([]byte, 0, 8+8+32+32+32+len(h.ProposerID)+8+len(h.ChainID))
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], h.Height)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], h.Round)
	buf = append(buf, tmp[:]...)
	buf = append(buf, h.ParentHash[:]...)
	buf = append(buf, h.StateRoot[:]...)
	buf = append(buf, h.TxRoot[:]...)
	buf = append(buf, h.ProposerID[:]...)
	binary.LittleEndian.PutUint64(tmp[:], h.BlockTime)
	buf = append(buf, tmp[:]...)
	buf = append(buf, h.ChainID...)
	return HashBlake3(buf)
}

// RequestFromBlock builds an ExecutionRequest from a Block, the state root
// it executes against, and the limits to enforce. ExecutionSeed is left
// nil; callers that need deterministic-but-unpredictable guest behavior
// (spec.md's randomness-source requirement) set it explicitly afterward.
func RequestFromBlock(block Block, prevStateRoot Hash, limits ExecutionLimits) ExecutionRequest {
	txs := make([][]byte, len(block.Transactions))
	for i, tx := range block.Transactions {
		txs[i] = tx.Data
	}
	return ExecutionRequest{
		APIVersion:    APIVersion,
		ChainID:       block.Header.ChainID,
		BlockHeight:   block.Header.Height,
		BlockTime:     block.Header.BlockTime,
		BlockHash:     block.Header.HeaderHash(),
		PrevStateRoot: prevStateRoot,
		Transactions:  txs,
		Limits:        limits,
	}
}
