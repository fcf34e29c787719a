// Package mempool declares the candidate-entry representation and the
// Mempool collaborator interface (spec §3 "Candidate entry", §6). Mempool
// admission policy and the data structure's internals are out of scope;
// this package only carries the read surface the selector and assembler
// consume.
package mempool

import (
	"github.com/google/uuid"

	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// Handle is a stable, opaque reference to a pool entry. Spec §9's "Handle
// identity" design note calls for an opaque token rather than shared
// pointer ownership, since the assembler never owns the pool's storage;
// the teacher instead keys directly off *TxEntry pointers, which this
// package deliberately diverges from.
type Handle uuid.UUID

// NewHandle mints a fresh handle, normally called once per tx by the
// mempool implementation on admission.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// Entry is a candidate transaction plus its precomputed ancestor
// aggregates (spec §3). Field names mirror spec.md's glossary terms
// directly, grounded on the teacher's TxEntry/StatisInformation shape
// (SumTxSizeWitAncestors -> SizeWithAncestors, etc).
type Entry struct {
	Handle Handle
	Tx     *tx.Tx

	Size       int
	ModFee     util.Amount
	SigOpCost  int64
	EntryTime  int64

	SpendsCoinbase bool

	// Ancestor-aggregated fields: this tx plus every in-mempool ancestor.
	SizeWithAncestors       int64
	ModFeesWithAncestors    util.Amount
	SigOpCostWithAncestors  int64
	AncestorCount           int64
}

// FeeRateWithAncestors is the ancestor-feerate ordering key (spec glossary).
func (e *Entry) FeeRateWithAncestors() util.FeeRate {
	return util.NewFeeRateWithSize(e.ModFeesWithAncestors, e.SizeWithAncestors)
}

// Mempool is the external collaborator from spec §6.
type Mempool interface {
	// TryLock attempts the non-blocking mempool guard (spec §5 "Mempool
	// guard"); ok is false if already held.
	TryLock() (ok bool)
	Unlock()

	// ByAncestorScore returns pool handles ordered by ancestor-feerate,
	// descending, with a stable secondary key (spec §4.2 "Inputs").
	ByAncestorScore() []Handle

	// Get resolves a handle to its current Entry.
	Get(h Handle) (*Entry, bool)

	// Descendants enumerates the in-mempool descendants of h (spec §4.2
	// "updatePackagesForAdded").
	Descendants(h Handle) []Handle

	// Ancestors computes the exact ancestor set of h under the given
	// limits; math.MaxUint64 requests unbounded limits (spec §4.2 step 5).
	Ancestors(h Handle, maxCount, maxSize, maxSigOps, maxDescendants uint64) ([]Handle, error)

	// EvictRecursive removes h and its in-mempool descendants, used when
	// a privacy duplicate is discovered (spec §4.3 step 9).
	EvictRecursive(h Handle)
}
