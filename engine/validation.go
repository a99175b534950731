package engine

import "github.com/echenim/bedrock/primitives"

// ValidateAPIVersion rejects a request whose api_version does not match
// the engine's supported version. A guest must reject unsupported
// versions rather than guess at their semantics.
func ValidateAPIVersion(request *primitives.ExecutionRequest) *primitives.ExecError {
	if request.APIVersion != primitives.APIVersion {
		return primitives.NewInvalidAPIVersion(primitives.APIVersion, request.APIVersion)
	}
	return nil
}

// ValidateBlockFields checks block-level fields that must hold before any
// transaction is processed: block_height > 0 (genesis is height 0),
// chain_id non-empty, and gas_limit > 0.
func ValidateBlockFields(request *primitives.ExecutionRequest) *primitives.ExecError {
	if request.BlockHeight == 0 {
		return primitives.NewInvalidBlock("block_height must be > 0")
	}
	if len(request.ChainID) == 0 {
		return primitives.NewInvalidBlock("chain_id must be non-empty")
	}
	if request.Limits.GasLimit == 0 {
		return primitives.NewInvalidBlock("gas_limit must be > 0")
	}
	return nil
}

// ValidateRequest runs every validation phase that must pass before a
// block's transactions are processed.
func ValidateRequest(request *primitives.ExecutionRequest) *primitives.ExecError {
	if err := ValidateAPIVersion(request); err != nil {
		return err
	}
	return ValidateBlockFields(request)
}
