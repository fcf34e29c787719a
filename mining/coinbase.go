package mining

import (
	"encoding/binary"

	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// encodeHeight encodes height as a minimal-length little-endian push, the
// way the teacher's CScriptNum push of the block height works; this is
// intentionally not a full script-number encoder (script evaluation is a
// Non-goal) — it only needs to be a recognizable, parseable height prefix.
func encodeHeight(height int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(height))
	n := 4
	for n > 1 && buf[n-1] == 0 {
		n--
	}
	out := make([]byte, 0, n+2)
	out = append(out, byte(n))
	out = append(out, buf[:n]...)
	return out
}

// BuildCoinbase constructs the coinbase transaction per spec §4.3 step 11.
// The output schema follows the matrix in spec.md §4.3, keyed on (isPoS,
// budgetPayment>0, founderPayment>0); the founder output is emitted only
// when a founder script is active at height, otherwise the no-founder row
// is used. Grounded on the
// teacher's coinbase construction in mining/mining.go (null prevout,
// scriptsig-encodes-height, single reward output), generalized to the
// multi-output matrix per SPEC_FULL's supplemented features.
func BuildCoinbase(params *consensus.Params, height int32, payoutScript []byte, split RewardSplit, isPoS bool) *tx.Tx {
	cb := &tx.Tx{
		Ins: []tx.TxIn{{
			PrevOut:   tx.OutPoint{Hash: util.HashZero, Index: 0xffffffff},
			ScriptSig: encodeHeight(height),
		}},
	}

	founderScript := params.FounderScriptForHeight(height)
	hasBudget := split.BudgetPayment > 0
	hasFounder := hasBudget && split.FounderPayment > 0 && len(founderScript) > 0

	minerValue := split.BlockReward + split.NetworkReward

	switch {
	case !isPoS && !hasBudget:
		cb.Outs = []tx.TxOut{standardOut(minerValue, payoutScript)}
	case !isPoS && hasBudget && !hasFounder:
		cb.Outs = []tx.TxOut{
			standardOut(minerValue, payoutScript),
			standardOut(split.BudgetPayment, params.BudgetScript),
			standardOut(split.LabPayment, params.LabScript),
		}
	case !isPoS && hasBudget && hasFounder:
		cb.Outs = []tx.TxOut{
			standardOut(minerValue, payoutScript),
			standardOut(split.BudgetPayment, params.BudgetScript),
			standardOut(split.LabPayment, params.LabScript),
			standardOut(split.FounderPayment, founderScript),
		}
	case isPoS && !hasBudget:
		cb.Outs = []tx.TxOut{standardOut(0, nil)}
	case isPoS && hasBudget && !hasFounder:
		cb.Outs = []tx.TxOut{
			standardOut(split.BudgetPayment, params.BudgetScript),
			standardOut(split.LabPayment, params.LabScript),
		}
	case isPoS && hasBudget && hasFounder:
		cb.Outs = []tx.TxOut{
			standardOut(split.BudgetPayment, params.BudgetScript),
			standardOut(split.LabPayment, params.LabScript),
			standardOut(split.FounderPayment, founderScript),
		}
	}

	stampProvisionalHash(cb)
	return cb
}

// stampProvisionalHash gives a freshly built coinbase a deterministic hash
// derived from its scriptsig and outputs. Full transaction serialization
// and txid computation belong to the hosting chain's wire-format layer
// (an explicit Non-goal); this is only enough identity for Merkle-root
// computation and mempool/chain comparisons within a single template build.
func stampProvisionalHash(t *tx.Tx) {
	var buf []byte
	buf = append(buf, t.Ins[0].ScriptSig...)
	for _, out := range t.Outs {
		var v [8]byte
		binary.LittleEndian.PutUint64(v[:], uint64(out.Value))
		buf = append(buf, v[:]...)
		buf = append(buf, out.ScriptPubKey...)
	}
	t.Hash = util.DoubleSha256(buf)
}

func standardOut(value util.Amount, script []byte) tx.TxOut {
	return tx.TxOut{Value: value, ScriptPubKey: script, IsStandard: true}
}

// InstallCoinstake places the coinstake at index 1, ensuring the tx
// vector has length >= 2 (spec §4.3 step 12).
func InstallCoinstake(t *Template, coinstake *tx.Tx) {
	for len(t.Block.Txs) < 2 {
		t.Block.Txs = append(t.Block.Txs, nil)
		t.TxFees = append(t.TxFees, 0)
		t.TxSigOps = append(t.TxSigOps, 0)
	}
	t.Block.Txs[1] = coinstake
	t.TxFees[1] = -1
	t.TxSigOps[1] = int64(coinstake.SigOps)
}
