// Package primitives defines the fixed-width identifiers, deterministic
// binary codec, gas schedule, error taxonomy, state overlay, and Merkle
// commitment shared by the execution engine and the sandbox runtime.
package primitives

import "encoding/hex"

// Hash is a 32-byte content hash.
type Hash [32]byte

// Address is a 32-byte Ed25519 public key used as an account identifier.
type Address [32]byte

// BlockHeight is a monotonically increasing block index.
type BlockHeight = uint64

// Round is the consensus round within a block height.
type Round = uint64

// APIVersion is the engine's wire-protocol version; requests must match it
// exactly or the block is rejected with InvalidBlock.
const APIVersion uint32 = 1

// MaxKeyLen is the maximum length, in bytes, of a state key.
const MaxKeyLen = 256

// MaxValueLen is the maximum length, in bytes, of a state value.
const MaxValueLen = 65_536

// ZeroHash is the all-zero Hash, used as the root of an empty state and as
// the parent hash of a genesis block.
var ZeroHash = Hash{}

// ZeroAddress is the all-zero Address.
var ZeroAddress = Address{}

// Hex returns the lowercase hex encoding of h, prefixed with "0x".
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Hex returns the lowercase hex encoding of a, prefixed with "0x".
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}
