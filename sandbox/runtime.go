package sandbox

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/bytecodealliance/wasmtime-go/v28"

	"github.com/echenim/bedrock/hostapi"
	"github.com/echenim/bedrock/primitives"
)

// Sandbox loads and validates a compiled WASM guest once, then executes
// blocks against it by instantiating a fresh Wasmtime instance per call —
// each execution is fully isolated from the last.
type Sandbox struct {
	engine *wasmtime.Engine
	module *wasmtime.Module
	config Config
}

// New compiles wasmBytes and validates its ABI before accepting it.
func New(wasmBytes []byte, config Config) (*Sandbox, *Error) {
	engine, err := createEngine(config)
	if err != nil {
		return nil, err
	}
	module, merr := wasmtime.NewModule(engine, wasmBytes)
	if merr != nil {
		return nil, wasmtimeErr(merr)
	}
	if verr := validateModule(module); verr != nil {
		return nil, verr
	}
	return &Sandbox{engine: engine, module: module, config: config}, nil
}

// FromFile loads a guest module from a .wasm file path.
func FromFile(path string, config Config) (*Sandbox, *Error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, wasmtimeErr(err)
	}
	return New(wasmBytes, config)
}

// ExecuteBlock runs one block through the guest: it instantiates a fresh
// module instance, calls bedrock_init then bedrock_execute_block, reads the
// serialized response out of guest memory, and discards the instance. The
// returned WriteEntry slice is the block's overlay, for a caller to commit
// to its StateStore on a successful response — ExecuteBlock itself never
// writes back to store.
func (s *Sandbox) ExecuteBlock(request *primitives.ExecutionRequest, store hostapi.StateStore) (*primitives.ExecutionResponse, []primitives.WriteEntry, *Error) {
	reqBytes := primitives.EncodeExecutionRequest(request)

	context := primitives.ExecutionContextFromRequest(request)
	execConfig := hostapi.ExecutionConfigFromLimits(request.Limits)
	state := newHostState(store, context, execConfig)

	wasmStore := wasmtime.NewStore(s.engine)
	if err := wasmStore.SetFuel(s.config.FuelLimit); err != nil {
		return nil, nil, wasmtimeErr(err)
	}

	linker := wasmtime.NewLinker(s.engine)
	if lerr := registerHostFunctions(linker, state); lerr != nil {
		return nil, nil, lerr
	}

	instance, err := linker.Instantiate(wasmStore, s.module)
	if err != nil {
		return nil, nil, wasmtimeErr(err)
	}

	memExport := instance.GetExport(wasmStore, "memory")
	if memExport == nil || memExport.Memory() == nil {
		return nil, nil, memoryErr("no memory export")
	}
	wasmMemory := memExport.Memory()

	currentPages := wasmMemory.Size(wasmStore)
	if _, err := wasmMemory.Grow(wasmStore, hostAllocPages); err != nil {
		return nil, nil, memoryErr(fmt.Sprintf("initial grow: %v", err))
	}
	state.hostAlloc = newHostAllocator(int(currentPages)*wasmPageSize, hostAllocPages*wasmPageSize)

	versionBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(versionBytes, primitives.APIVersion)
	versionPtr, aerr := allocAndWrite(wasmMemory, wasmStore, state, versionBytes)
	if aerr != nil {
		return nil, nil, aerr
	}

	initFn := instance.GetFunc(wasmStore, "bedrock_init")
	if initFn == nil {
		return nil, nil, validationErr("missing export: bedrock_init")
	}
	initResult, terr := handleTrap(initFn.Call(wasmStore, versionPtr, int32(4)))
	if terr != nil {
		return nil, nil, terr
	}
	if code, ok := initResult.(int32); !ok || code != 0 {
		c, _ := initResult.(int32)
		return nil, nil, &Error{Kind: ErrKindInitFailed, Code: c}
	}

	reqPtr, aerr := allocAndWrite(wasmMemory, wasmStore, state, reqBytes)
	if aerr != nil {
		return nil, nil, aerr
	}
	respPtrsPtr, aerr := allocAndWrite(wasmMemory, wasmStore, state, make([]byte, 8))
	if aerr != nil {
		return nil, nil, aerr
	}
	respPtrPtr := respPtrsPtr
	respLenPtr := respPtrsPtr + 4

	execFn := instance.GetFunc(wasmStore, "bedrock_execute_block")
	if execFn == nil {
		return nil, nil, validationErr("missing export: bedrock_execute_block")
	}
	execResult, terr := handleTrap(execFn.Call(wasmStore, reqPtr, int32(len(reqBytes)), respPtrPtr, respLenPtr))
	if terr != nil {
		return nil, nil, terr
	}
	if code, ok := execResult.(int32); !ok || code != 0 {
		c, _ := execResult.(int32)
		return nil, nil, &Error{Kind: ErrKindExecutionFailed, Code: c}
	}

	data := wasmMemory.UnsafeData(wasmStore)
	respPtr, herr := readI32(data, respPtrPtr)
	if herr != nil {
		return nil, nil, memoryErr("read resp_ptr")
	}
	respLen, herr := readI32(data, respLenPtr)
	if herr != nil {
		return nil, nil, memoryErr("read resp_len")
	}

	respBytes, herr := readBytes(wasmMemory.UnsafeData(wasmStore), respPtr, respLen)
	if herr != nil {
		return nil, nil, memoryErr("read response bytes")
	}

	freeFn := instance.GetFunc(wasmStore, "bedrock_free")
	if freeFn != nil {
		_, _ = handleTrap(freeFn.Call(wasmStore, respPtr, respLen))
	}

	response, derr := primitives.DecodeExecutionResponse(respBytes)
	if derr != nil {
		return nil, nil, &Error{Kind: ErrKindResponse, Message: derr.Error()}
	}

	if s.config.EnableGuestLogs {
		response.Logs = state.logs
	} else {
		response.Logs = nil
	}

	return response, state.overlay.Drain(), nil
}

// createEngine builds a Wasmtime engine with deterministic configuration:
// fuel metering on, and every non-deterministic or platform-variable WASM
// feature (threads, SIMD, relaxed SIMD, multi-memory) turned off.
func createEngine(config Config) (*wasmtime.Engine, *Error) {
	cfg := wasmtime.NewConfig()
	cfg.SetConsumeFuel(true)
	cfg.SetWasmThreads(false)
	cfg.SetWasmSIMD(false)
	cfg.SetWasmRelaxedSIMD(false)
	cfg.SetWasmMultiMemory(false)
	maxBytes := uint64(config.MaxMemoryPages) * wasmPageSize
	cfg.SetStaticMemoryMaximumSize(maxBytes)
	return wasmtime.NewEngineWithConfig(cfg), nil
}

// allocAndWrite allocates size(data) bytes in the guest's bump-allocator
// region and copies data into it, growing guest memory first if needed.
func allocAndWrite(memory *wasmtime.Memory, store wasmtime.Storelike, state *hostState, data []byte) (int32, *Error) {
	if len(data) == 0 {
		return 0, nil
	}
	ptr, newBump, newCap, growPages := state.hostAlloc.computeAlloc(len(data))
	if growPages > 0 {
		if _, err := memory.Grow(store, uint64(growPages)); err != nil {
			return 0, memoryErr(fmt.Sprintf("alloc grow: %v", err))
		}
	}
	dst := memory.UnsafeData(store)
	copy(dst[ptr:ptr+len(data)], data)
	state.hostAlloc.commit(newBump, newCap)
	return int32(ptr), nil
}

// handleTrap converts a Wasmtime call error into a sandbox Error, mapping
// fuel exhaustion to ErrKindFuelExhausted and everything else to
// ErrKindGuestTrapped.
func handleTrap(result interface{}, err error) (interface{}, *Error) {
	if err == nil {
		return result, nil
	}
	msg := err.Error()
	if strings.Contains(msg, "fuel") {
		return nil, &Error{Kind: ErrKindFuelExhausted, Cause: err}
	}
	return nil, &Error{Kind: ErrKindGuestTrapped, Message: msg, Cause: err}
}
