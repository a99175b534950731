package primitives

import "fmt"

// ExecutionLimits bounds the resources a single block execution may
// consume. DefaultExecutionLimits matches original_source's production
// defaults.
type ExecutionLimits struct {
	GasLimit      uint64
	MaxEvents     uint32
	MaxWriteBytes uint32
}

// DefaultExecutionLimits returns the engine's out-of-the-box resource caps.
func DefaultExecutionLimits() ExecutionLimits {
	return ExecutionLimits{
		GasLimit:      10_000_000,
		MaxEvents:     1024,
		MaxWriteBytes: 4 * 1024 * 1024,
	}
}

// ExecutionRequest is one block submitted for execution.
type ExecutionRequest struct {
	APIVersion     uint32
	ChainID        []byte
	BlockHeight    BlockHeight
	BlockTime      uint64 // logical time from the consensus header, never OS clock
	BlockHash      Hash
	PrevStateRoot  Hash
	Transactions   [][]byte
	Limits         ExecutionLimits
	ExecutionSeed  *Hash
}

// ExecutionStatus is the block-level outcome. Numeric values are normative.
type ExecutionStatus uint8

const (
	StatusOk ExecutionStatus = iota
	StatusInvalidBlock
	StatusExecutionError
	StatusOutOfGas
)

// String returns the status's name.
func (s ExecutionStatus) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusInvalidBlock:
		return "InvalidBlock"
	case StatusExecutionError:
		return "ExecutionError"
	case StatusOutOfGas:
		return "OutOfGas"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// IsOk reports whether s is StatusOk.
func (s ExecutionStatus) IsOk() bool { return s == StatusOk }

// ExecutionStatusFromU8 converts a raw wire byte to an ExecutionStatus. ok
// is false for an out-of-range byte.
func ExecutionStatusFromU8(b uint8) (ExecutionStatus, bool) {
	if b > uint8(StatusOutOfGas) {
		return 0, false
	}
	return ExecutionStatus(b), true
}

// Receipt is the per-transaction outcome record.
type Receipt struct {
	TxIndex    uint32
	Success    bool
	GasUsed    uint64
	ResultCode uint32
	ReturnData []byte
}

// EventAttribute is one key/value pair attached to an Event.
type EventAttribute struct {
	Key   string
	Value []byte
}

// Event is a structured, consensus-visible side effect emitted by a
// transaction.
type Event struct {
	TxIndex    uint32
	EventType  string
	Attributes []EventAttribute
}

// LogLine is a best-effort, non-consensus-critical diagnostic message.
type LogLine struct {
	Level   uint32
	Message string
}

// ExecutionResponse is the result of executing one block.
type ExecutionResponse struct {
	APIVersion    uint32
	Status        ExecutionStatus
	NewStateRoot  Hash
	GasUsed       uint64
	Receipts      []Receipt
	Events        []Event
	Logs          []LogLine
}

// FailureResponse builds a response for a block-level failure: zero gas
// used, the state root unchanged from prevStateRoot, and empty receipts,
// events, and logs.
func FailureResponse(apiVersion uint32, status ExecutionStatus, prevStateRoot Hash) ExecutionResponse {
	return ExecutionResponse{
		APIVersion:   apiVersion,
		Status:       status,
		NewStateRoot: prevStateRoot,
		GasUsed:      0,
		Receipts:     nil,
		Events:       nil,
		Logs:         nil,
	}
}

// ExecutionContext is the immutable, per-block context the guest can read
// back via get_context. It excludes the transaction list and prev_state_root
// since the guest never needs to re-derive those.
type ExecutionContext struct {
	ChainID       []byte
	BlockHeight   BlockHeight
	BlockTime     uint64
	BlockHash     Hash
	GasLimit      uint64
	MaxEvents     uint32
	MaxWriteBytes uint32
	APIVersion    uint32
	ExecutionSeed *Hash
}

// ExecutionContextFromRequest derives the context the guest observes from
// the full request.
func ExecutionContextFromRequest(req *ExecutionRequest) ExecutionContext {
	return ExecutionContext{
		ChainID:       req.ChainID,
		BlockHeight:   req.BlockHeight,
		BlockTime:     req.BlockTime,
		BlockHash:     req.BlockHash,
		GasLimit:      req.Limits.GasLimit,
		MaxEvents:     req.Limits.MaxEvents,
		MaxWriteBytes: req.Limits.MaxWriteBytes,
		APIVersion:    req.APIVersion,
		ExecutionSeed: req.ExecutionSeed,
	}
}
