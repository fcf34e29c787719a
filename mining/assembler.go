package mining

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/zzhertzmon/veil/accumulator"
	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/model/block"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/mempool"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
	"github.com/zzhertzmon/veil/wallet"
)

// Assembler is the Block Assembler component (spec §4.3): the single
// top-level createTemplate operation, wiring together Resource Accounting,
// the Package Selector, the reward split, privacy screening, and the
// accumulator checkpoint. Grounded on the teacher's BlockAssembler /
// CreateNewBlock (mining/mining.go) top-to-bottom structure (reset ->
// coinbase slot -> selector -> header finalize -> validity check),
// extended with the PoS/privacy/reward/checkpoint/signing steps this
// spec adds.
type Assembler struct {
	Chain      chain.Chain
	Pool       mempool.Mempool
	UTXO       chain.UTXOView
	Consensus  consensus.Consensus
	Accumulator accumulator.Accumulator
	Wallet     wallet.MainWallet
	Clock      util.Clock
	Params     *consensus.Params

	MaxWeightConfigured uint64
	PrintPriority       bool
	Strategy            Strategy
}

// CreateTemplate runs the full §4.3 sequence under the chain-state guard.
func (a *Assembler) CreateTemplate(payoutScript []byte, wantWitness, isPoS, isFullNodeProof bool) (*Template, error) {
	a.Chain.Lock()
	defer a.Chain.Unlock()

	// Step 1: snapshot the tip.
	tip := a.Chain.Tip()
	height := int32(0)
	if tip != nil {
		height = tip.Height + 1
	}

	if isPoS && height < a.Params.PoSStartHeight {
		return nil, errors.Wrapf(ErrPoSNotActive, "height %d", height)
	}

	t := newTemplate()
	t.Block.Header.Version = a.Consensus.ComputeBlockVersion(tip)

	var coinstake *tx.Tx
	coinstakeTime := int64(0)
	nBits := uint32(0)
	if isPoS && height >= a.Params.PoSStartHeight {
		// Step 2: optional coinstake. The difficulty rule is derived first
		// since createCoinStake takes nBits as an input (spec §6).
		w := a.Wallet.Main()
		if w == nil {
			return nil, ErrWalletUnavailable
		}
		nBits = a.Consensus.GetNextWorkRequired(tip, t.Block, true)
		var err error
		coinstake, coinstakeTime, err = w.CreateCoinStake(tip, nBits)
		if err != nil {
			return nil, errors.Wrap(ErrCoinstakeFailed, err.Error())
		}
	} else {
		nBits = a.Consensus.GetNextWorkRequired(tip, t.Block, false)
	}

	// Step 3: acquire mempool guard non-blockingly.
	if !a.Pool.TryLock() {
		return nil, ErrMempoolBusy
	}
	defer a.Pool.Unlock()

	// Step 4: block-header baseline.
	medianTimePast := int64(0)
	tipTime := int64(0)
	if tip != nil {
		medianTimePast = tip.MedianTimePast
		tipTime = int64(tip.Time)
	}
	blockTime := medianTimePast + 1
	if adjusted := a.Clock.AdjustedNetworkTime(); adjusted > blockTime {
		blockTime = adjusted
	}
	if isPoS && coinstakeTime > blockTime {
		blockTime = coinstakeTime
	}
	if blockTime < tipTime {
		blockTime = tipTime
	}
	t.Block.Header.Time = uint32(blockTime)

	// Step 5: locktime cutoff.
	locktimeCutoff := blockTime
	if a.Params.MedianTimePastLocktime {
		locktimeCutoff = medianTimePast
	}

	budget := NewBlockBudget(t, a.MaxWeightConfigured)
	if coinstake != nil {
		InstallCoinstake(t, coinstake)
		e := &mempool.Entry{
			Handle:    mempool.NewHandle(),
			Tx:        coinstake,
			Size:      coinstake.Size,
			SigOpCost: int64(coinstake.SigOps),
		}
		budget.Inclusion[e.Handle] = struct{}{}
	}

	// Step 6: invoke the package selector.
	selector := NewSelector(a.Pool, a.Params.MinFeeRate, a.Strategy)
	selected, updated, err := selector.SelectPackages(budget, height, locktimeCutoff, wantWitness)
	if err != nil {
		return nil, err
	}
	if a.PrintPriority {
		log.Debug("mining: selected %d packages, %d descendant updates, weight=%d fees=%d", selected, updated, budget.Weight, budget.Fees)
	}

	// When a coinstake was installed, the coinbase slot is a nil
	// placeholder at this point (the coinbase itself isn't built until
	// step 11) — drop it, and its fee entry, before treating t.Block.Txs as
	// a list of real candidate transactions.
	includedTxs := t.Block.Txs
	includedFees := t.TxFees
	if len(includedTxs) > 0 && includedTxs[0] == nil {
		includedTxs = includedTxs[1:]
		includedFees = includedFees[1:]
	}
	feeByHash := make(map[util.Hash]util.Amount, len(includedTxs))
	for i, tt := range includedTxs {
		feeByHash[tt.Hash] = includedFees[i]
	}

	// Step 7: network-reward reserve.
	priorReserve := util.Amount(0)
	if tip != nil {
		priorReserve = tip.NetworkReserve
	}
	networkReward, reserveCarry := ScanNetworkReserve(a.Params, priorReserve, includedTxs)

	// Step 8-9: privacy screening and rebuild.
	duplicate := ScreenDuplicates(a.Chain, height, includedTxs)
	for txHash := range duplicate {
		for h, e := range a.entriesByTxHash(budget, txHash) {
			a.Pool.EvictRecursive(h)
			_ = e
		}
	}
	rebuilt := RebuildWithoutDuplicates(includedTxs, duplicate, a.UTXO)

	// Step 10: reward split.
	split := ComputeRewardSplit(a.Params, height)
	split.NetworkReward = networkReward
	split.ReserveCarry = reserveCarry

	// Step 11: construct coinbase.
	cb := BuildCoinbase(a.Params, height, payoutScript, split, isPoS)

	finalTxs := make([]*tx.Tx, 0, len(rebuilt)+2)
	finalTxs = append(finalTxs, cb)
	if coinstake != nil {
		finalTxs = append(finalTxs, coinstake)
		for _, tt := range rebuilt {
			if tt == coinstake {
				continue
			}
			finalTxs = append(finalTxs, tt)
		}
	} else {
		finalTxs = append(finalTxs, rebuilt...)
	}
	t.Block.Txs = finalTxs
	t.TxFees = make([]util.Amount, len(finalTxs))
	t.TxSigOps = make([]int64, len(finalTxs))
	for i, tt := range finalTxs {
		t.TxSigOps[i] = int64(tt.SigOps)
		switch {
		case i == 0:
			t.TxFees[i] = 0 // coinbase
		case coinstake != nil && tt == coinstake:
			t.TxFees[i] = -1
		default:
			t.TxFees[i] = feeByHash[tt.Hash]
		}
	}

	// Step 12 already applied above via InstallCoinstake/finalTxs assembly.

	// Step 13: finalize header.
	if tip != nil {
		t.Block.Header.HashPrevBlock = tip.Hash
	}
	if !isPoS {
		// Supplemented feature: UpdateTime-style recheck. Every PoW template
		// re-derives nBits once the timestamp has been finalized; no
		// min-difficulty or time-bump condition is checked here.
		nBits = a.Consensus.GetNextWorkRequired(tip, t.Block, false)
	}
	t.Block.Header.Bits = nBits
	t.Block.Header.Nonce = 0

	leaves := make([]util.Hash, len(finalTxs))
	for i, tt := range finalTxs {
		leaves[i] = tt.Hash
	}
	t.Block.Header.MerkleRoot = computeMerkleRoot(leaves)
	if wantWitness {
		t.Block.Header.WitnessMerkleRoot = computeMerkleRoot(leaves)
	}

	// Step 14: accumulator checkpoint.
	prevCheckpoints := map[uint32]util.Hash{}
	if tip != nil {
		prevCheckpoints = tip.AccumulatorCheckpoints
	}
	checkpoints, err := RefreshAccumulatorCheckpoint(a.Accumulator, height, prevCheckpoints)
	if err != nil {
		return nil, err
	}
	t.Block.Header.AccumulatorCheckpoints = checkpoints

	// Step 15: full-node proof.
	if isFullNodeProof && isPoS {
		proofHash := util.DoubleSha256(t.Block.Header.MerkleRoot[:])
		t.Block.Header.FullNodeProofHash = &proofHash
	} else if isFullNodeProof && !isPoS {
		log.Info("mining: full-node-proof requested without PoS, ignoring (incompatible)")
	}

	// Step 16: auxiliary data hash.
	t.Block.Header.AuxDataHash = auxDataHash(&t.Block.Header)

	// Step 17: block signing.
	if isPoS {
		if coinstake.Kind != tx.KindSpend {
			return nil, errors.Wrap(ErrSignFailed, "coinstake is not a privacy spend")
		}
		w := a.Wallet.Main()
		if w == nil {
			return nil, ErrWalletUnavailable
		}
		if len(coinstake.SerialHashes) == 0 {
			return nil, errors.Wrap(ErrSignFailed, "coinstake carries no serial")
		}
		if _, err := w.GetZerocoinKey(coinstake.SerialHashes[0]); err != nil {
			return nil, errors.Wrap(ErrSignFailed, err.Error())
		}
		blockHash := util.DoubleSha256(t.Block.Header.AuxDataHash[:])
		sig, err := w.Sign(blockHash)
		if err != nil {
			return nil, errors.Wrap(ErrSignFailed, err.Error())
		}
		t.Block.Header.Signature = sig
	}

	// Step 18: pre-submit validation.
	if err := a.Consensus.TestBlockValidity(t.Block, tip); err != nil {
		return nil, errors.Wrap(ErrTemplateInvalid, err.Error())
	}

	return t, nil
}

// entriesByTxHash resolves which included handle carries txHash, used only
// to drive mempool eviction of a privacy duplicate (spec §4.3 step 9).
func (a *Assembler) entriesByTxHash(budget *BlockBudget, txHash util.Hash) map[mempool.Handle]*mempool.Entry {
	out := make(map[mempool.Handle]*mempool.Entry)
	for h := range budget.Inclusion {
		e, ok := a.Pool.Get(h)
		if ok && e.Tx.Hash == txHash {
			out[h] = e
		}
	}
	return out
}

// auxDataHash binds the Merkle roots, witness Merkle root, and accumulator
// checkpoint map (spec §4.3 step 16). No teacher equivalent exists; this is
// a minimal deterministic combiner, since the wire-format commitment scheme
// itself is chain-specific and out of scope. Checkpoint keys are sorted
// before folding so the result does not depend on Go's randomized map
// iteration order (spec §8 "Idempotence").
func auxDataHash(h *block.Header) util.Hash {
	var buf []byte
	buf = append(buf, h.MerkleRoot[:]...)
	buf = append(buf, h.WitnessMerkleRoot[:]...)

	keys := make([]uint32, 0, len(h.AccumulatorCheckpoints))
	for k := range h.AccumulatorCheckpoints {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		v := h.AccumulatorCheckpoints[k]
		buf = append(buf, v[:]...)
	}
	return util.DoubleSha256(buf)
}
