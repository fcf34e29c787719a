// Package consensus declares the consensus parameters and the Consensus
// collaborator interface (spec §6). Script evaluation, signature schemes,
// and zero-knowledge proof internals stay out of scope; this package only
// carries the constants and budget/reward schedule the assembler needs.
package consensus

import (
	"github.com/zzhertzmon/veil/model/block"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/util"
)

const (
	// WitnessScaleFactor weights witness bytes less than base bytes when
	// computing block weight (spec §4.1 testPackage).
	WitnessScaleFactor = 4

	// MaxBlockWeight is the hard consensus ceiling on block weight.
	MaxBlockWeight uint64 = 4_000_000

	// MinBlockWeight is the floor the configured weight cap is clamped to
	// (spec §4.1 "Weight cap is clamped").
	MinBlockWeight uint64 = 4000

	// MaxBlockSigOpCost is the hard consensus ceiling on sigop cost.
	MaxBlockSigOpCost uint64 = 80000

	// CoinbaseReservedWeight/CoinbaseReservedSigOps seed the Resource
	// Accounting state before any tx is added (spec §4.1).
	CoinbaseReservedWeight   uint64 = 4000
	CoinbaseReservedSigOps   uint64 = 400

	// MaxConsecutiveFailures bounds the selector's give-up threshold
	// (spec §4.2 step 4, §8 "1001 consecutive fit failures").
	MaxConsecutiveFailures = 1000

	// AccumulatorCheckpointInterval is the height interval at which the
	// privacy-scheme accumulator checkpoint is refreshed (spec §4.3 step 14).
	AccumulatorCheckpointInterval = 10
)

// Params bundles chain-specific consensus parameters: the budget schedule,
// PoS activation height, and the well-known payout scripts.
type Params struct {
	// PoSStartHeight is the first height at which PoS block production is
	// permitted (spec §4.3 step 2, §8 scenario 4).
	PoSStartHeight int32

	// MinFeeRate is the optional minimum-package-feerate gate (spec §4.2
	// "Minimum-feerate gate", §9 open question (b)). Left at its zero
	// value disables the gate, matching reference behavior.
	MinFeeRate util.FeeRate

	// ReserveScript is the well-known network-reward reserve address
	// script (spec glossary "Network-reward reserve").
	ReserveScript []byte

	// BudgetSchedule computes (blockReward, founderPayment, labPayment,
	// budgetPayment) for a given height.
	BudgetSchedule BudgetFunc

	// BudgetScript/LabScript are static payout scripts. FounderScript is
	// height-activated (supplemented feature #4 in SPEC_FULL.md).
	BudgetScript    []byte
	LabScript       []byte
	founderScripts  []founderScriptActivation
	MedianTimePastLocktime bool
}

type founderScriptActivation struct {
	ActivationHeight int32
	Script           []byte
}

// AddFounderScript registers a founder payout script effective from
// activationHeight onward; scripts must be added in ascending height order.
func (p *Params) AddFounderScript(activationHeight int32, script []byte) {
	p.founderScripts = append(p.founderScripts, founderScriptActivation{activationHeight, script})
}

// FounderScriptForHeight returns the founder script in effect at height, or
// nil if none has activated yet.
func (p *Params) FounderScriptForHeight(height int32) []byte {
	var script []byte
	for _, a := range p.founderScripts {
		if height >= a.ActivationHeight {
			script = a.Script
		}
	}
	return script
}

// BudgetFunc computes the per-block reward split for a height.
type BudgetFunc func(height int32) (blockReward, founderPayment, labPayment, budgetPayment util.Amount)

// Consensus is the external collaborator from spec §6.
type Consensus interface {
	ComputeBlockVersion(prevIndex *chain.Index) int32
	GetNextWorkRequired(prevIndex *chain.Index, bl *block.Block, isPoS bool) uint32
	CheckPoW(hash util.Hash, bits uint32) bool
	TestBlockValidity(bl *block.Block, prevIndex *chain.Index) error
	ProcessNewBlock(bl *block.Block) error
}

// ClampBlockWeight applies spec §4.1's "clamped to [4000, MAX/4]" rule.
func ClampBlockWeight(configured uint64) uint64 {
	max := MaxBlockWeight / 4
	switch {
	case configured < MinBlockWeight:
		return MinBlockWeight
	case configured > max:
		return max
	default:
		return configured
	}
}
