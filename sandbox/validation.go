package sandbox

import (
	"strings"

	"github.com/bytecodealliance/wasmtime-go/v28"
)

// requiredExport describes one of the three functions every bedrock guest
// must export, by name and i32 param/result arity (the ABI is entirely
// i32: pointers and lengths into the guest's linear memory).
type requiredExport struct {
	name    string
	params  int
	results int
}

var requiredExports = []requiredExport{
	{"bedrock_init", 2, 1},
	{"bedrock_execute_block", 4, 1},
	{"bedrock_free", 2, 0},
}

// allowedImportModule is the only WASM import module a bedrock guest may
// reference; anything else (in particular any WASI module) is rejected.
const allowedImportModule = "bedrock_host"

// validateModule checks that a compiled module meets the bedrock ABI:
// the required exports with correct i32 signatures, a memory export, and
// imports restricted to bedrock_host functions.
func validateModule(module *wasmtime.Module) *Error {
	if err := validateExports(module); err != nil {
		return err
	}
	return validateImports(module)
}

func validateExports(module *wasmtime.Module) *Error {
	hasMemory := false
	exportsByName := make(map[string]*wasmtime.ExportType)
	for _, export := range module.Exports() {
		if export.Name() != nil && *export.Name() == "memory" && export.Type().MemoryType() != nil {
			hasMemory = true
		}
		if export.Name() != nil {
			exportsByName[*export.Name()] = export
		}
	}
	if !hasMemory {
		return validationErr("module must export 'memory'")
	}

	for _, req := range requiredExports {
		export, ok := exportsByName[req.name]
		if !ok {
			return validationErr("missing required export: " + req.name)
		}
		funcType := export.Type().FuncType()
		if funcType == nil {
			return validationErr("export '" + req.name + "' must be a function")
		}
		params := funcType.Params()
		results := funcType.Results()
		if len(params) != req.params || !allI32(params) {
			return validationErr("export '" + req.name + "' has wrong param signature")
		}
		if len(results) != req.results || !allI32(results) {
			return validationErr("export '" + req.name + "' has wrong result signature")
		}
	}
	return nil
}

func validateImports(module *wasmtime.Module) *Error {
	for _, imp := range module.Imports() {
		moduleName := ""
		if imp.Module() != "" {
			moduleName = imp.Module()
		}
		name := ""
		if imp.Name() != nil {
			name = *imp.Name()
		}

		if strings.HasPrefix(moduleName, "wasi") {
			return validationErr("WASI import not allowed: " + moduleName + "::" + name)
		}
		if moduleName != allowedImportModule {
			return validationErr("import from unknown module '" + moduleName + "' (only '" + allowedImportModule + "' allowed): " + name)
		}
		if imp.Type().FuncType() == nil {
			return validationErr("non-function import not allowed: " + moduleName + "::" + name)
		}
	}
	return nil
}

func allI32(types []*wasmtime.ValType) bool {
	for _, t := range types {
		if t.Kind() != wasmtime.KindI32 {
			return false
		}
	}
	return true
}
