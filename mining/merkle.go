package mining

import "github.com/zzhertzmon/veil/util"

// RecomputeHashAndMerkle re-stamps the coinbase's provisional hash and
// recomputes the Merkle root (and witness root, kept equal to it per this
// package's simplified witness-commitment scheme). Called by the PoW
// driver after rewriting the coinbase scriptsig with a fresh extra-nonce
// (spec §4.4 "recompute Merkle roots").
func RecomputeHashAndMerkle(t *Template) {
	stampProvisionalHash(t.Block.Txs[0])

	leaves := make([]util.Hash, len(t.Block.Txs))
	for i, tt := range t.Block.Txs {
		leaves[i] = tt.Hash
	}
	root := computeMerkleRoot(leaves)
	t.Block.Header.MerkleRoot = root
	if !t.Block.Header.WitnessMerkleRoot.IsZero() {
		t.Block.Header.WitnessMerkleRoot = root
	}
}

// computeMerkleRoot implements the constant-space binary Merkle root
// calculation (spec §4.3 step 13). Grounded on consensus/merkle.go's
// merkleComputation (teacher), trimmed to the root-only path — branch
// computation and partial-merkle-tree support are unused here (SPV/
// filtered-block service is a Non-goal).
func computeMerkleRoot(leaves []util.Hash) util.Hash {
	if len(leaves) == 0 {
		return util.HashZero
	}

	var inner [32]util.Hash
	var count uint32

	for int(count) < len(leaves) {
		h := leaves[count]
		count++
		level := 0
		for (count & (uint32(1) << uint(level))) == 0 {
			h = util.DoubleSha256(append(append([]byte{}, inner[level][:]...), h[:]...))
			level++
		}
		inner[level] = h
	}

	level := 0
	for (count & (uint32(1) << uint(level))) == 0 {
		level++
	}
	h := inner[level]
	for count != (uint32(1) << uint(level)) {
		h = util.DoubleSha256(append(h[:], h[:]...))
		count += uint32(1) << uint(level)
		level++
		for (count & (uint32(1) << uint(level))) == 0 {
			h = util.DoubleSha256(append(append([]byte{}, inner[level][:]...), h[:]...))
			level++
		}
	}
	return h
}
