package mining

import (
	"bytes"

	"github.com/google/btree"

	"github.com/zzhertzmon/veil/model/mempool"
	"github.com/zzhertzmon/veil/util"
)

// modifiedEntry is the overlay entry for a candidate whose ancestor
// aggregates have been invalidated because an ancestor was just included
// (spec §3 "Modified entry"). Grounded on the teacher's
// EntryAncestorFeeRateSort/EntryFeeSort pair (model/mining/strategy.go),
// ported from the TxEntry-based representation to the Handle/Entry one
// and unified behind a single Strategy-keyed comparator.
type modifiedEntry struct {
	Handle                 mempool.Handle
	SizeWithAncestors      int64
	ModFeesWithAncestors   util.Amount
	SigOpCostWithAncestors int64
	Strategy               Strategy
}

func (m *modifiedEntry) key() int64 {
	return m.Strategy.key(m.ModFeesWithAncestors, m.SizeWithAncestors)
}

// Less orders ascending by the configured strategy's key (lowest first),
// with a stable secondary key on handle bytes, so that btree.Max() always
// yields the single highest-priority, deterministically tie-broken
// candidate (spec §4.2 "Tie-breaking").
func (m *modifiedEntry) Less(than btree.Item) bool {
	other := than.(*modifiedEntry)
	a := m.key()
	b := other.key()
	if a == b {
		return bytes.Compare(m.Handle[:], other.Handle[:]) < 0
	}
	return a < b
}

// modifiedBetter reports whether the modifiedIndex candidate strictly
// beats the raw-cursor candidate under strategy (spec §4.2 step 2: "if
// the overlay is strictly better, take it").
func modifiedBetter(mod *modifiedEntry, raw *mempool.Entry, strategy Strategy) bool {
	return mod.key() > strategy.key(raw.ModFeesWithAncestors, raw.SizeWithAncestors)
}
