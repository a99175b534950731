package engine

import "github.com/echenim/bedrock/primitives"

// ExecuteBlock implements the block-execution lifecycle:
//
//  1. Validate the request (api_version, block fields).
//  2. For each transaction: decode, process, and append a receipt. A
//     malformed or failing transaction produces a failed receipt but does
//     not abort the block.
//  3. If the block's gas budget is exhausted mid-block, fail the entire
//     response and discard buffered writes.
//  4. Otherwise compute the new state root from the host's overlay and
//     return a successful response.
//
// Block execution is atomic: a block-level failure yields a response with
// the previous state root and no events (on block-level gas exhaustion the
// receipts collected so far are still returned); individual transaction
// failures are reflected only in that transaction's receipt.
func ExecuteBlock(request *primitives.ExecutionRequest, host HostInterface) primitives.ExecutionResponse {
	if err := ValidateRequest(request); err != nil {
		status := primitives.StatusExecutionError
		switch err.Kind {
		case primitives.ExecErrKindInvalidAPIVersion, primitives.ExecErrKindInvalidBlock:
			status = primitives.StatusInvalidBlock
		}
		return primitives.FailureResponse(request.APIVersion, status, request.PrevStateRoot)
	}

	receipts := make([]primitives.Receipt, 0, len(request.Transactions))
	blockGasExceeded := false

	for idx, rawTx := range request.Transactions {
		txIndex := uint32(idx)

		decoded, err := DecodeTransaction(rawTx)
		if err != nil {
			receipts = append(receipts, primitives.Receipt{
				TxIndex:    txIndex,
				Success:    false,
				GasUsed:    0,
				ResultCode: uint32(primitives.ErrInvalidEncoding),
			})
			continue
		}

		receipt := ProcessTransaction(txIndex, decoded, host)

		if host.GasMeter().IsExhausted() {
			receipts = append(receipts, receipt)
			blockGasExceeded = true
			break
		}

		receipts = append(receipts, receipt)
	}

	if blockGasExceeded {
		return primitives.ExecutionResponse{
			APIVersion:   request.APIVersion,
			Status:       primitives.StatusOutOfGas,
			NewStateRoot: request.PrevStateRoot,
			GasUsed:      host.GasMeter().Consumed(),
			Receipts:     receipts,
			Events:       nil,
			Logs:         host.Logs(),
		}
	}

	newStateRoot := computeStateRoot(request.PrevStateRoot, host)

	return primitives.ExecutionResponse{
		APIVersion:   request.APIVersion,
		Status:       primitives.StatusOk,
		NewStateRoot: newStateRoot,
		GasUsed:      host.GasMeter().Consumed(),
		Receipts:     receipts,
		Events:       host.Events(),
		Logs:         host.Logs(),
	}
}

// computeStateRoot builds the new state root by applying all buffered
// overlay writes to a fresh sparse Merkle tree. If nothing was written,
// the previous root is unchanged.
//
// This builds from scratch rather than updating a persistent structure
// incrementally; a production deployment backing many blocks would keep
// the Merkle tree itself as part of committed state.
func computeStateRoot(prevStateRoot primitives.Hash, host HostInterface) primitives.Hash {
	entries := host.Overlay().Drain()
	if len(entries) == 0 {
		return prevStateRoot
	}

	tree := primitives.NewSparseMerkleTree()
	for _, entry := range entries {
		if !entry.IsDeleted {
			tree.Insert(entry.Key, entry.Value)
		}
	}
	return tree.Root()
}
