package sandbox

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/bytecodealliance/wasmtime-go/v28"

	"github.com/echenim/bedrock/hostapi"
	"github.com/echenim/bedrock/primitives"
)

// registerHostFunctions wires all ten bedrock_host import functions into
// linker, closing over state. Each wrapped function extracts the guest's
// exported memory from the Caller, validates pointer/length arguments,
// charges gas against state.gasMeter, performs the operation, and returns
// an i32 error code (0 = OK).
func registerHostFunctions(linker *wasmtime.Linker, state *hostState) *Error {
	registrars := []func(*wasmtime.Linker, *hostState) error{
		registerStateGet,
		registerStateSet,
		registerStateDelete,
		registerEmitEvent,
		registerLog,
		registerHashBlake3,
		registerVerifyEd25519,
		registerGasRemaining,
		registerHostFree,
		registerGetContext,
	}
	for _, register := range registrars {
		if err := register(linker, state); err != nil {
			return wasmtimeErr(fmt.Errorf("registering host function: %w", err))
		}
	}
	return nil
}

func callerMemory(caller *wasmtime.Caller) *wasmtime.Memory {
	export := caller.GetExport("memory")
	if export == nil {
		return nil
	}
	return export.Memory()
}

func asErrorCode(err *hostapi.HostError) int32 {
	return int32(err.ToErrorCode())
}

// ── State Access ──

func registerStateGet(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "state_get",
		func(caller *wasmtime.Caller, keyPtr, keyLen, outPtrPtr, outLenPtr int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			key, rerr := readBytes(mem.UnsafeData(caller), keyPtr, keyLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			size := len(mem.UnsafeData(caller))
			if !validateRange(size, outPtrPtr, 4) || !validateRange(size, outLenPtr, 4) {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostStateGet(len(key))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			value, herr := st.stateGet(key)
			if herr != nil {
				return asErrorCode(herr)
			}

			if value == nil {
				data := mem.UnsafeData(caller)
				if writeI32(data, outPtrPtr, 0) != nil || writeI32(data, outLenPtr, 0) != nil {
					return asErrorCode(hostapi.BadPointer())
				}
				return 0
			}

			ptr, newBump, newCap, growPages := st.hostAlloc.computeAlloc(len(value))
			if growPages > 0 {
				if _, err := mem.Grow(caller, uint64(growPages)); err != nil {
					return int32(primitives.ErrInternal)
				}
			}
			data := mem.UnsafeData(caller)
			copy(data[ptr:ptr+len(value)], value)
			if writeI32(data, outPtrPtr, int32(ptr)) != nil || writeI32(data, outLenPtr, int32(len(value))) != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			st.hostAlloc.commit(newBump, newCap)
			return 0
		})
}

func registerStateSet(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "state_set",
		func(caller *wasmtime.Caller, keyPtr, keyLen, valPtr, valLen int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			data := mem.UnsafeData(caller)
			key, rerr := readBytes(data, keyPtr, keyLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			value, rerr := readBytes(data, valPtr, valLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostStateSet(len(key), len(value))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			if herr := st.stateSet(key, value); herr != nil {
				return asErrorCode(herr)
			}
			return 0
		})
}

func registerStateDelete(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "state_delete",
		func(caller *wasmtime.Caller, keyPtr, keyLen int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			key, rerr := readBytes(mem.UnsafeData(caller), keyPtr, keyLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostStateDelete(len(key))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			if herr := st.stateDelete(key); herr != nil {
				return asErrorCode(herr)
			}
			return 0
		})
}

// ── Events & Logs ──

func registerEmitEvent(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "emit_event",
		func(caller *wasmtime.Caller, evtPtr, evtLen int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			evtBytes, rerr := readBytes(mem.UnsafeData(caller), evtPtr, evtLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostEmitEvent(len(evtBytes))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			event, derr := primitives.DecodeSingleEvent(evtBytes)
			if derr != nil {
				return asErrorCode(hostapi.InvalidEncoding())
			}

			if herr := st.addEvent(event); herr != nil {
				return asErrorCode(herr)
			}
			return 0
		})
}

func registerLog(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "log",
		func(caller *wasmtime.Caller, level, msgPtr, msgLen int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			msgBytes, rerr := readBytes(mem.UnsafeData(caller), msgPtr, msgLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostLog(len(msgBytes))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			if !utf8.Valid(msgBytes) {
				return asErrorCode(hostapi.InvalidEncoding())
			}

			st.addLog(uint32(level), string(msgBytes))
			return 0
		})
}

// ── Crypto ──

func registerHashBlake3(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "hash_blake3",
		func(caller *wasmtime.Caller, inPtr, inLen, outPtr, outLen int32) int32 {
			if outLen != 32 {
				return asErrorCode(hostapi.BadPointer())
			}
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			data := mem.UnsafeData(caller)
			if !validateRange(len(data), outPtr, 32) {
				return asErrorCode(hostapi.BadPointer())
			}
			input, rerr := readBytes(data, inPtr, inLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GasCostHashBlake3(len(input))); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			hash := primitives.HashBlake3(input)
			data = mem.UnsafeData(caller)
			if writeBytes(data, outPtr, hash[:]) != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			return 0
		})
}

func registerVerifyEd25519(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "verify_ed25519",
		func(caller *wasmtime.Caller, msgPtr, msgLen, sigPtr, sigLen, pkPtr, pkLen int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			data := mem.UnsafeData(caller)
			msg, rerr := readBytes(data, msgPtr, msgLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			sig, rerr := readBytes(data, sigPtr, sigLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			pk, rerr := readBytes(data, pkPtr, pkLen)
			if rerr != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			if len(sig) != 64 || len(pk) != 32 {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GVerifyEd25519); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			var sigArr [64]byte
			var pkArr [32]byte
			copy(sigArr[:], sig)
			copy(pkArr[:], pk)

			if primitives.VerifyEd25519(msg, &sigArr, &pkArr) {
				return 0
			}
			return asErrorCode(hostapi.SigInvalid())
		})
}

// ── Gas Introspection ──

func registerGasRemaining(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "gas_remaining",
		func(caller *wasmtime.Caller, outPtr int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			if !validateRange(len(mem.UnsafeData(caller)), outPtr, 8) {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GGasRemaining); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			remaining := st.gasMeter.Remaining()
			data := mem.UnsafeData(caller)
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], remaining)
			if writeBytes(data, outPtr, buf[:]) != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			return 0
		})
}

// ── Host Memory Management ──

func registerHostFree(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "host_free",
		func(caller *wasmtime.Caller, _ptr, _len int32) int32 {
			if gerr := st.gasMeter.Charge(primitives.GHostFree); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}
			// No-op: WASM memory only grows. Host-allocated buffers live in
			// the bump allocator region and are discarded with the instance.
			return 0
		})
}

// ── Context ──

func registerGetContext(linker *wasmtime.Linker, st *hostState) error {
	return linker.FuncWrap("bedrock_host", "get_context",
		func(caller *wasmtime.Caller, outPtrPtr, outLenPtr int32) int32 {
			mem := callerMemory(caller)
			if mem == nil {
				return int32(primitives.ErrInternal)
			}

			size := len(mem.UnsafeData(caller))
			if !validateRange(size, outPtrPtr, 4) || !validateRange(size, outLenPtr, 4) {
				return asErrorCode(hostapi.BadPointer())
			}

			if gerr := st.gasMeter.Charge(primitives.GGetContext); gerr != nil {
				return asErrorCode(hostapi.FromExecError(gerr))
			}

			ctxBytes := st.encodedContext
			ptr, newBump, newCap, growPages := st.hostAlloc.computeAlloc(len(ctxBytes))
			if growPages > 0 {
				if _, err := mem.Grow(caller, uint64(growPages)); err != nil {
					return int32(primitives.ErrInternal)
				}
			}

			data := mem.UnsafeData(caller)
			copy(data[ptr:ptr+len(ctxBytes)], ctxBytes)
			if writeI32(data, outPtrPtr, int32(ptr)) != nil || writeI32(data, outLenPtr, int32(len(ctxBytes))) != nil {
				return asErrorCode(hostapi.BadPointer())
			}
			st.hostAlloc.commit(newBump, newCap)
			return 0
		})
}
