package primitives

import (
	"crypto/sha256"

	"github.com/hdevalence/ed25519consensus"
	"lukechampine.com/blake3"
)

// HashBlake3 computes the 32-byte BLAKE3 digest of data. Used both as the
// guest-facing `hash_blake3` host call and internally by the Merkle tree.
func HashBlake3(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// HashSHA256 computes the 32-byte SHA-256 digest of data. Not exposed across
// the guest ABI; used by host-side tooling that needs a widely interoperable
// hash (e.g. content-addressing compiled guest modules on disk).
func HashSHA256(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// VerifyEd25519 reports whether signature is a valid Ed25519 signature over
// message under publicKey. It never panics: a malformed public key or
// signature simply verifies false. Verification is deterministic — no
// randomness is consulted — matching the consensus-critical requirement
// that every validator reach the same verdict.
func VerifyEd25519(message []byte, signature *[64]byte, publicKey *[32]byte) bool {
	return ed25519consensus.Verify(publicKey[:], message, signature[:])
}
