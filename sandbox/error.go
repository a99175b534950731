package sandbox

import "fmt"

// Error is the sandbox package's error type: wasmtime failures, ABI
// validation failures, and guest-protocol violations each get a distinct
// kind so callers can branch without string matching.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    int32 // set for InitFailed / ExecutionFailed
	Cause   error
}

// ErrorKind discriminates Error variants.
type ErrorKind int

const (
	// ErrKindWasmtime wraps an engine, compilation, or instantiation error.
	ErrKindWasmtime ErrorKind = iota
	// ErrKindValidation reports a module that fails ABI validation
	// (missing exports, disallowed imports, wrong signatures).
	ErrKindValidation
	// ErrKindHost wraps a hostapi.HostError surfaced during execution.
	ErrKindHost
	// ErrKindInitFailed reports a non-zero return from bedrock_init.
	ErrKindInitFailed
	// ErrKindExecutionFailed reports a non-zero return from
	// bedrock_execute_block.
	ErrKindExecutionFailed
	// ErrKindResponse reports a response deserialization failure.
	ErrKindResponse
	// ErrKindMemory reports an out-of-bounds access or a failed grow.
	ErrKindMemory
	// ErrKindFuelExhausted reports instruction-fuel exhaustion.
	ErrKindFuelExhausted
	// ErrKindGuestTrapped reports any other WASM trap.
	ErrKindGuestTrapped
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindWasmtime:
		return fmt.Sprintf("wasmtime error: %v", e.Cause)
	case ErrKindValidation:
		return fmt.Sprintf("validation error: %s", e.Message)
	case ErrKindHost:
		return fmt.Sprintf("host error: %s", e.Message)
	case ErrKindInitFailed:
		return fmt.Sprintf("bedrock_init failed with code %d", e.Code)
	case ErrKindExecutionFailed:
		return fmt.Sprintf("bedrock_execute_block failed with code %d", e.Code)
	case ErrKindResponse:
		return fmt.Sprintf("response error: %s", e.Message)
	case ErrKindMemory:
		return fmt.Sprintf("memory error: %s", e.Message)
	case ErrKindFuelExhausted:
		return "fuel exhausted (instruction limit)"
	case ErrKindGuestTrapped:
		return fmt.Sprintf("guest trapped: %s", e.Message)
	default:
		return "unknown sandbox error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func wasmtimeErr(err error) *Error    { return &Error{Kind: ErrKindWasmtime, Cause: err} }
func validationErr(msg string) *Error { return &Error{Kind: ErrKindValidation, Message: msg} }
func memoryErr(msg string) *Error     { return &Error{Kind: ErrKindMemory, Message: msg} }
