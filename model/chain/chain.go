// Package chain declares the Chain collaborator interface (spec §6) and
// the Index type it returns. The core never implements consensus or
// persists chain state itself; LevelChain in store.go only backs the two
// read paths the assembler needs.
package chain

import (
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// Index is a chain-tip/ancestor index entry: the subset of block-index
// fields the core reads.
type Index struct {
	Height           int32
	Hash             util.Hash
	Time             uint32
	MedianTimePast   int64
	BestHeaderTime   int64
	NetworkReserve   util.Amount
	AccumulatorCheckpoints map[uint32]util.Hash
}

// Chain is the external collaborator the assembler and miner drivers
// snapshot under the chain-state guard (spec §5, §6).
type Chain interface {
	// Tip returns the current best index, or nil before genesis.
	Tip() *Index

	// PrevIndex returns the recorded index entry for block hash h (the
	// previous block, when h is a new block's hashPrevBlock), carrying that
	// block's network-reward reserve.
	PrevIndex(h util.Hash) (*Index, error)

	// IsSerialConfirmed reports whether a zero-knowledge serial number is
	// already confirmed on-chain, and at what height.
	IsSerialConfirmed(serial util.Hash) (confirmed bool, atHeight int32)

	// IsPubcoinConfirmed reports whether a zero-knowledge pubcoin is
	// already confirmed on-chain, and at what height.
	IsPubcoinConfirmed(pubcoin util.Hash) (confirmed bool, atHeight int32)

	// Lock/Unlock implement the process-wide reentrant chain-state guard
	// (spec §5 "Chain state guard").
	Lock()
	Unlock()
}

// TxInputsAvailable reports whether every non-anonymous input of t has its
// prevout present in utxo. Privacy spends and anonymous
// inputs are verified through their own proofs and are never screened
// here (spec §4.3 step 9).
func TxInputsAvailable(t *tx.Tx, utxo UTXOView) bool {
	if t.Kind == tx.KindSpend {
		return true
	}
	for _, in := range t.Ins {
		if in.AnonymousIndex >= 0 {
			continue
		}
		if !utxo.HaveInputs(in.PrevOut) {
			return false
		}
	}
	return true
}

// UTXOView is the "does a given tx have all its inputs available?"
// collaborator from spec §6.
type UTXOView interface {
	HaveInputs(out tx.OutPoint) bool
}
