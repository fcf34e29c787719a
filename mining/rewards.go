package mining

import (
	"bytes"

	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// RewardSplit is the §3 "Reward split" data model: the budget-schedule
// output plus the network-reward reserve, carried/capped across blocks.
type RewardSplit struct {
	BlockReward    util.Amount
	FounderPayment util.Amount
	LabPayment     util.Amount
	BudgetPayment  util.Amount

	// NetworkReward is this block's miner-facing share of the reserve
	// (spec §4.3 step 7).
	NetworkReward util.Amount

	// ReserveCarry is the reserve amount to persist forward into the next
	// block's chain index (spec §3 "Lifecycle").
	ReserveCarry util.Amount
}

// ComputeRewardSplit derives the 4-way split from the budget schedule
// (spec §4.3 step 10). Grounded on the teacher's GetBlockSubsidy call
// site in mining/mining.go, generalized to the multi-party split per
// SPEC_FULL's supplemented features.
func ComputeRewardSplit(params *consensus.Params, height int32) RewardSplit {
	reward, founder, lab, budget := params.BudgetSchedule(height)
	return RewardSplit{
		BlockReward:    reward,
		FounderPayment: founder,
		LabPayment:     lab,
		BudgetPayment:  budget,
	}
}

// ScanNetworkReserve implements spec §4.3 step 7: starting from the prior
// block's carried reserve, scan every included tx for outputs paying the
// reserve address, accumulate, and cap at MaxNetworkReward. Non-standard
// outputs never contribute (spec §9 open question (c)).
func ScanNetworkReserve(params *consensus.Params, priorReserve util.Amount, txs []*tx.Tx) (networkReward, reserveCarry util.Amount) {
	reserve := priorReserve
	for _, t := range txs {
		for _, out := range t.Outs {
			if !IsStandardOutput(out) {
				continue
			}
			if bytes.Equal(out.ScriptPubKey, params.ReserveScript) {
				reserve += out.Value
			}
		}
	}
	if reserve > util.MaxNetworkReward {
		reserve = util.MaxNetworkReward
	}
	return reserve, reserve
}
