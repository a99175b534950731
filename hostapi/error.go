// Package hostapi defines the host-side support types shared by the
// sandbox and the native execution path: the shared HostError taxonomy,
// the committed-state storage abstraction, and the resource-limit
// configuration for a single block execution.
package hostapi

import (
	"fmt"

	"github.com/echenim/bedrock/primitives"
)

// HostError is the host-side error type returned by host-call
// implementations (sandbox.hostState). It wraps a spec-defined
// ErrorCode for errors the guest must see, and carries an Internal variant
// for host-only failures that are never exposed to the guest beyond
// ERR_INTERNAL.
type HostError struct {
	code     primitives.ErrorCode
	internal string
	isCode   bool
}

// Code wraps a spec-defined ErrorCode as a HostError.
func Code(code primitives.ErrorCode) *HostError {
	return &HostError{code: code, isCode: true}
}

// Internal wraps a host-only failure. It crosses the guest ABI as
// ERR_INTERNAL but keeps msg for host-side logs.
func Internal(msg string) *HostError {
	return &HostError{internal: msg, isCode: false}
}

// ToErrorCode returns the i32 error code the WASM guest observes.
func (e *HostError) ToErrorCode() primitives.ErrorCode {
	if e.isCode {
		return e.code
	}
	return primitives.ErrInternal
}

func (e *HostError) Error() string {
	if e.isCode {
		return fmt.Sprintf("host error: %s", e.code)
	}
	return fmt.Sprintf("internal host error: %s", e.internal)
}

// OutOfGas builds ERR_OUT_OF_GAS.
func OutOfGas() *HostError { return Code(primitives.ErrOutOfGas) }

// BadPointer builds ERR_BAD_POINTER.
func BadPointer() *HostError { return Code(primitives.ErrBadPointer) }

// KeyTooLarge builds ERR_KEY_TOO_LARGE.
func KeyTooLarge() *HostError { return Code(primitives.ErrKeyTooLarge) }

// ValueTooLarge builds ERR_VALUE_TOO_LARGE.
func ValueTooLarge() *HostError { return Code(primitives.ErrValueTooLarge) }

// WriteLimit builds ERR_WRITE_LIMIT.
func WriteLimit() *HostError { return Code(primitives.ErrWriteLimit) }

// EventLimit builds ERR_EVENT_LIMIT.
func EventLimit() *HostError { return Code(primitives.ErrEventLimit) }

// SigInvalid builds ERR_SIG_INVALID.
func SigInvalid() *HostError { return Code(primitives.ErrSigInvalid) }

// CryptoFailed builds ERR_CRYPTO_FAILED.
func CryptoFailed() *HostError { return Code(primitives.ErrCryptoFailed) }

// InvalidEncoding builds ERR_INVALID_ENCODING.
func InvalidEncoding() *HostError { return Code(primitives.ErrInvalidEncoding) }

// FromExecError adapts an engine-level *primitives.ExecError into a
// HostError, preserving the Host variant's code and collapsing every
// other kind to Internal (the mirror of primitives.ExecError.ToErrorCode,
// but keeping the original message for host-side diagnostics).
func FromExecError(err *primitives.ExecError) *HostError {
	if err.Kind == primitives.ExecErrKindHost {
		return Code(err.Code)
	}
	return Internal(err.Error())
}
