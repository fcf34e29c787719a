// Package block models the assembled block and header, extended per
// spec.md §3 with the witness Merkle root, accumulator checkpoint map,
// auxiliary data hash, optional full-node-proof hash, and optional PoS
// signature the teacher's plain bitcoin-style header lacks.
package block

import (
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// Header is the block header. Version/HashPrevBlock/MerkleRoot/Time/Bits/
// Nonce are grounded on the teacher's BlockHeader; the rest are additions
// this spec requires.
type Header struct {
	Version           int32
	HashPrevBlock     util.Hash
	MerkleRoot        util.Hash
	WitnessMerkleRoot util.Hash
	Time              uint32
	Bits              uint32
	Nonce             uint32

	// AccumulatorCheckpoints is the privacy-scheme accumulator checkpoint
	// map, refreshed every 10th height (spec §4.3 step 14).
	AccumulatorCheckpoints map[uint32]util.Hash

	// AuxDataHash binds the Merkle roots, witness Merkle root, and
	// accumulator checkpoint map (spec §4.3 step 16).
	AuxDataHash util.Hash

	// FullNodeProofHash is set only when both PoS and full-node-proof are
	// requested (spec §4.3 step 15); nil otherwise.
	FullNodeProofHash *util.Hash

	// Signature is the PoS block signature (spec §4.3 step 17), appended
	// to the header; nil for PoW blocks.
	Signature []byte
}

// GetBlockTime returns the header's timestamp as a signed int64, matching
// the teacher's BlockHeader.GetBlockTime.
func (h *Header) GetBlockTime() int64 {
	return int64(h.Time)
}

// Block is a candidate (or final) block: a header plus its transaction
// sequence. The first slot is reserved for the coinbase, and (for PoS)
// the second slot is reserved for the coinstake (spec §3).
type Block struct {
	Header Header
	Txs    []*tx.Tx
}

// New returns an empty block, matching the teacher's NewBlock.
func New() *Block {
	return &Block{}
}
