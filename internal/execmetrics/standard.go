package execmetrics

// Pre-defined metrics for the Bedrock execution engine and sandbox. All
// metrics live in DefaultRegistry so they are globally accessible without
// passing a registry around.

var (
	// ---- Block execution metrics ----

	// BlocksExecuted counts blocks that completed ExecuteBlock, regardless
	// of resulting status.
	BlocksExecuted = DefaultRegistry.Counter("engine.blocks_executed")
	// BlocksInvalid counts blocks rejected as structurally invalid before
	// any transaction ran.
	BlocksInvalid = DefaultRegistry.Counter("engine.blocks_invalid")
	// GasUsed records gas consumed per executed block.
	GasUsed = DefaultRegistry.Histogram("engine.gas_used")
	// BlockExecutionTime records wall-clock block execution duration in
	// milliseconds.
	BlockExecutionTime = DefaultRegistry.Histogram("engine.block_execution_ms")

	// ---- Transaction metrics ----

	// TransactionsProcessed counts transactions that reached a receipt,
	// successful or not.
	TransactionsProcessed = DefaultRegistry.Counter("engine.transactions_processed")
	// TransactionsFailed counts transactions whose receipt reports failure.
	TransactionsFailed = DefaultRegistry.Counter("engine.transactions_failed")
	// EventsEmitted counts events appended across all transactions.
	EventsEmitted = DefaultRegistry.Counter("engine.events_emitted")

	// ---- State overlay metrics ----

	// OverlayWriteBytes tracks the current overlay's accounted write bytes
	// for the in-flight block.
	OverlayWriteBytes = DefaultRegistry.Gauge("engine.overlay_write_bytes")
	// MerkleRecomputeTime records sparse Merkle root recomputation duration
	// in microseconds.
	MerkleRecomputeTime = DefaultRegistry.Histogram("engine.merkle_recompute_us")

	// ---- Sandbox metrics ----

	// SandboxInstantiations counts WASM module instantiations.
	SandboxInstantiations = DefaultRegistry.Counter("sandbox.instantiations")
	// SandboxInstantiationTime records module instantiation latency in
	// microseconds.
	SandboxInstantiationTime = DefaultRegistry.Histogram("sandbox.instantiation_us")
	// SandboxTraps counts guest executions that terminated via a WASM trap.
	SandboxTraps = DefaultRegistry.Counter("sandbox.traps")
	// SandboxOutOfFuel counts executions that exhausted their fuel budget.
	SandboxOutOfFuel = DefaultRegistry.Counter("sandbox.out_of_fuel")

	// ---- Host call metrics ----

	// HostCallTime records host function call duration in nanoseconds.
	HostCallTime = DefaultRegistry.Histogram("host.call_ns")
)
