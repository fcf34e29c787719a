package mining

import (
	"github.com/zzhertzmon/veil/model/block"
	"github.com/zzhertzmon/veil/util"
)

// Template is a candidate block under construction (spec §3). The first
// slot is reserved for the coinbase, and (for PoS) the second slot is
// reserved for the coinstake.
type Template struct {
	Block *block.Block

	// TxFees and TxSigOps run parallel to Block.Txs.
	TxFees  []util.Amount
	TxSigOps []int64
}

func newTemplate() *Template {
	return &Template{
		Block: block.New(),
	}
}
