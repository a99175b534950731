package primitives

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// leafDomain and internalDomain are the domain-separation prefixes mixed
// into every hash input so a leaf hash can never collide with an internal
// node hash (second-preimage resistance).
const (
	leafDomain     byte = 0x00
	internalDomain byte = 0x01
)

// SparseMerkleTree is a content-addressed commitment over a set of
// (key, value) byte-string pairs. The root is independent of insertion
// order — it is always recomputed from the full sorted key set.
type SparseMerkleTree struct {
	entries map[string][]byte
}

// NewSparseMerkleTree creates an empty tree.
func NewSparseMerkleTree() *SparseMerkleTree {
	return &SparseMerkleTree{entries: make(map[string][]byte)}
}

// Insert sets the value for key, overwriting any existing entry.
func (t *SparseMerkleTree) Insert(key, value []byte) {
	t.entries[string(key)] = append([]byte(nil), value...)
}

// Delete removes key from the tree, if present.
func (t *SparseMerkleTree) Delete(key []byte) {
	delete(t.entries, string(key))
}

// Get returns the value for key and whether it is present.
func (t *SparseMerkleTree) Get(key []byte) ([]byte, bool) {
	v, ok := t.entries[string(key)]
	return v, ok
}

// Len returns the number of entries in the tree.
func (t *SparseMerkleTree) Len() int { return len(t.entries) }

// IsEmpty reports whether the tree has no entries.
func (t *SparseMerkleTree) IsEmpty() bool { return len(t.entries) == 0 }

// sortedKeys returns the tree's keys in ascending byte order.
func (t *SparseMerkleTree) sortedKeys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// hashLeaf computes H(0x00 || key_len_le32 || key || value).
func hashLeaf(key, value []byte) Hash {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(key)))
	buf := make([]byte, 0, 1+4+len(key)+len(value))
	buf = append(buf, leafDomain)
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, key...)
	buf = append(buf, value...)
	return HashBlake3(buf)
}

// hashInternal computes H(0x01 || left || right).
func hashInternal(left, right Hash) Hash {
	buf := make([]byte, 0, 1+32+32)
	buf = append(buf, internalDomain)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return HashBlake3(buf)
}

// Root computes the tree's 32-byte commitment. An empty tree roots to
// ZeroHash. Root is a pure function of the entry set: any two construction
// sequences producing the same final set yield the same root.
func (t *SparseMerkleTree) Root() Hash {
	if t.IsEmpty() {
		return ZeroHash
	}
	keys := t.sortedKeys()
	level := make([]Hash, len(keys))
	for i, k := range keys {
		level[i] = hashLeaf([]byte(k), t.entries[k])
	}
	return computeRootFromLeaves(level)
}

// computeRootFromLeaves folds a level of hashes pairwise up to a single
// root. An odd trailing node at any level is promoted unchanged to the next
// level rather than duplicated.
func computeRootFromLeaves(level []Hash) Hash {
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashInternal(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}
	return level[0]
}

// ApplyWrites builds a fresh tree from base, removing every key in deletes
// and then setting every key in writes. It does not mutate base.
func ApplyWrites(base *SparseMerkleTree, writes map[string][]byte, deletes map[string]struct{}) *SparseMerkleTree {
	t := NewSparseMerkleTree()
	if base != nil {
		for k, v := range base.entries {
			t.entries[k] = v
		}
	}
	for k := range deletes {
		delete(t.entries, k)
	}
	for k, v := range writes {
		t.entries[k] = v
	}
	return t
}

// MerkleProof is a single-key membership proof: the ordered sibling hashes
// from leaf to root, plus a direction bit per level (true = our node is the
// left child, sibling is on the right). A promoted odd node consumes no
// sibling at that level.
type MerkleProof struct {
	Siblings []Hash
	PathBits []bool
	LeafHash Hash
	HasLeaf  bool
}

// Prove builds a MerkleProof for key. HasLeaf is false if key is absent;
// callers must handle the empty-tree case separately since there is no
// non-trivial absence proof in this minimal scheme.
func (t *SparseMerkleTree) Prove(key []byte) MerkleProof {
	if _, ok := t.Get(key); !ok {
		return MerkleProof{}
	}
	keys := t.sortedKeys()
	idx := sort.SearchStrings(keys, string(key))

	level := make([]Hash, len(keys))
	for i, k := range keys {
		level[i] = hashLeaf([]byte(k), t.entries[k])
	}

	proof := MerkleProof{LeafHash: level[idx], HasLeaf: true}
	for len(level) > 1 {
		n := len(level)
		if idx%2 == 0 {
			if idx+1 < n {
				proof.Siblings = append(proof.Siblings, level[idx+1])
				proof.PathBits = append(proof.PathBits, true)
			}
			// idx is the trailing odd node: promoted, no sibling consumed.
		} else {
			proof.Siblings = append(proof.Siblings, level[idx-1])
			proof.PathBits = append(proof.PathBits, false)
		}

		next := make([]Hash, 0, (n+1)/2)
		for i := 0; i < n; i += 2 {
			if i+1 < n {
				next = append(next, hashInternal(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
		idx /= 2
	}
	return proof
}

// VerifyProof recomputes the root implied by proof for (key, value) and
// reports whether it equals root. A proof with HasLeaf false is an absence
// proof, valid only against the empty tree: there is no non-trivial
// absence proof in this minimal scheme, so it is accepted only when it
// carries no siblings and root is ZeroHash.
func VerifyProof(root Hash, key, value []byte, proof MerkleProof) bool {
	if !proof.HasLeaf {
		return len(proof.Siblings) == 0 && bytes.Equal(root[:], ZeroHash[:])
	}
	cur := hashLeaf(key, value)
	if !bytes.Equal(cur[:], proof.LeafHash[:]) {
		return false
	}
	for i, sib := range proof.Siblings {
		if proof.PathBits[i] {
			cur = hashInternal(cur, sib)
		} else {
			cur = hashInternal(sib, cur)
		}
	}
	return bytes.Equal(cur[:], root[:])
}
