package mining

import (
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/mempool"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// BlockBudget is the Resource Accounting component (spec §4.1): it tracks
// block weight, sigop cost, fees, and the included-entry set, and is the
// single place package inclusion is committed to the template. Grounded
// on the teacher's BlockAssembler.testPackage/addToBlock, generalized
// from size-based to weight-based accounting per spec §4.1.
type BlockBudget struct {
	Template *Template

	Weight    uint64
	SigOpCost uint64
	NumTx     uint64
	Fees      util.Amount

	MaxWeight    uint64
	MaxSigOpCost uint64

	Inclusion map[mempool.Handle]struct{}
}

// NewBlockBudget seeds the accounting state with the coinbase reservation
// (spec §4.1) and clamps the configured weight cap (spec §4.1 "Weight cap
// is clamped").
func NewBlockBudget(t *Template, maxWeightConfigured uint64) *BlockBudget {
	return &BlockBudget{
		Template:     t,
		Weight:       consensus.CoinbaseReservedWeight,
		SigOpCost:    consensus.CoinbaseReservedSigOps,
		MaxWeight:    consensus.ClampBlockWeight(maxWeightConfigured),
		MaxSigOpCost: consensus.MaxBlockSigOpCost,
		Inclusion:    make(map[mempool.Handle]struct{}),
	}
}

// TestPackage reports whether a package of pkgSize (base, non-witness-
// scaled) bytes and pkgSigOps sigop cost still fits, preserving headroom
// for the coinbase via strict inequality (spec §4.1).
func (b *BlockBudget) TestPackage(pkgSize uint64, pkgSigOps int64) bool {
	weightWithPackage := b.Weight + consensus.WitnessScaleFactor*pkgSize
	if weightWithPackage >= b.MaxWeight {
		return false
	}
	if b.SigOpCost+uint64(pkgSigOps) >= b.MaxSigOpCost {
		return false
	}
	return true
}

// TestFinality reports whether every tx in the package is final at height/
// locktimeCutoff, and (when witness inclusion is disabled) carries no
// witness data (spec §4.1 testFinality).
func (b *BlockBudget) TestFinality(pool mempool.Mempool, pkg []mempool.Handle, height int32, locktimeCutoff int64, witnessEnabled bool) bool {
	for _, h := range pkg {
		e, ok := pool.Get(h)
		if !ok {
			return false
		}
		if !e.Tx.IsFinal(height, locktimeCutoff) {
			return false
		}
		if !witnessEnabled && e.Tx.HasWitness {
			return false
		}
	}
	return true
}

// Add appends entry to the template's parallel sequences, updates every
// counter, and marks the handle included (spec §4.1 "add(entry)").
func (b *BlockBudget) Add(e *mempool.Entry) {
	b.Template.Block.Txs = append(b.Template.Block.Txs, e.Tx)
	b.Template.TxFees = append(b.Template.TxFees, e.ModFee)
	b.Template.TxSigOps = append(b.Template.TxSigOps, int64(e.Tx.SigOps))

	b.Weight += consensus.WitnessScaleFactor * uint64(e.Size)
	b.NumTx++
	b.SigOpCost += uint64(e.Tx.SigOps)
	b.Fees += e.ModFee
	b.Inclusion[e.Handle] = struct{}{}
}

// IsStandardOutput treats non-standard outputs as contributing zero to the
// network-reward reserve scan (spec §9 open question (c)).
func IsStandardOutput(out tx.TxOut) bool {
	return out.IsStandard
}
