package mining

import (
	"math"
	"sort"

	"github.com/google/btree"

	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/mempool"
	"github.com/zzhertzmon/veil/util"
)

// Selector is the Package Selector component (spec §4.2): it merges the
// raw pool's ancestor-score order with a mutable modifiedIndex overlay,
// picking the highest-priority package under its configured Strategy that
// still fits until the block is full or the pool is exhausted. Grounded
// on the teacher's BlockAssembler.addPackageTxs/updatePackagesForAdded
// (mining/mining.go), restructured per spec §9's "Two-stream merge"
// design note: the teacher merges everything into one btree per
// strategy, this keeps byAncestorScore and modifiedIndex as two explicit
// streams so a pre-populated inclusion set (a PoS coinstake) can seed the
// overlay before the main loop starts.
type Selector struct {
	pool       mempool.Mempool
	minFeeRate util.FeeRate
	strategy   Strategy
}

// NewSelector constructs a selector over pool. minFeeRate is the optional
// minimum-package-feerate gate (spec §4.2 "Minimum-feerate gate"); pass
// the zero value to leave it disabled, matching reference behavior
// (spec §9 open question (b)). strategy selects the ancestor ordering key
// (conf.AppConfig.Strategy, parsed via ParseStrategy), matching the
// teacher's sortByFee/sortByFeeRate split (model/mining/strategy.go).
func NewSelector(pool mempool.Mempool, minFeeRate util.FeeRate, strategy Strategy) *Selector {
	return &Selector{pool: pool, minFeeRate: minFeeRate, strategy: strategy}
}

// SelectPackages runs the main loop (spec §4.2 steps 1-8) against budget
// until both streams are exhausted or the budget gives up. It returns the
// number of distinct descendant overlay updates, a diagnostic matching the
// teacher's descendantsUpdated return value.
func (s *Selector) SelectPackages(budget *BlockBudget, height int32, locktimeCutoff int64, witnessEnabled bool) (packagesSelected, descendantsUpdated int, err error) {
	raw := s.pool.ByAncestorScore()
	if s.strategy == SortByFee {
		// ByAncestorScore is always feerate-ordered (spec §6's Mempool
		// collaborator exposes one ordering); re-sort locally under the
		// raw-fee key so SortByFee actually changes selection order,
		// matching the teacher's EntryFeeSort vs EntryAncestorFeeRateSort
		// split (model/mining/strategy.go).
		sort.Slice(raw, func(i, j int) bool {
			ei, _ := s.pool.Get(raw[i])
			ej, _ := s.pool.Get(raw[j])
			ki := s.strategy.key(ei.ModFeesWithAncestors, ei.SizeWithAncestors)
			kj := s.strategy.key(ej.ModFeesWithAncestors, ej.SizeWithAncestors)
			if ki == kj {
				return ei.Tx.Hash.Cmp(ej.Tx.Hash) > 0
			}
			return ki > kj
		})
	}
	rawIdx := 0

	modIndex := btree.New(32)
	modByHandle := make(map[mempool.Handle]*modifiedEntry)
	failed := make(map[mempool.Handle]struct{})

	// Bootstrap: seed modifiedIndex from any pre-populated inclusion set
	// (spec §4.2 "Bootstrap" — needed when the caller pre-populates the
	// block, e.g. a coinstake).
	if len(budget.Inclusion) > 0 {
		seed := make([]mempool.Handle, 0, len(budget.Inclusion))
		for h := range budget.Inclusion {
			seed = append(seed, h)
		}
		descendantsUpdated += s.updatePackagesForAdded(seed, modIndex, modByHandle)
	}

	consecutiveFailures := 0

	for {
		// Step 1: advance the raw cursor past handles already included,
		// overlaid, or failed.
		for rawIdx < len(raw) {
			h := raw[rawIdx]
			if _, in := budget.Inclusion[h]; in {
				rawIdx++
				continue
			}
			if _, in := modByHandle[h]; in {
				rawIdx++
				continue
			}
			if _, in := failed[h]; in {
				rawIdx++
				continue
			}
			break
		}

		rawAvailable := rawIdx < len(raw)
		modTop, modAvailable := peekMax(modIndex)

		if !rawAvailable && !modAvailable {
			break
		}

		// Step 2: select the candidate.
		var (
			chosenHandle   mempool.Handle
			usingModified  bool
			pkgSize        int64
			pkgFee         util.Amount
			pkgSigOps      int64
		)

		var rawEntry *mempool.Entry
		if rawAvailable {
			rawEntry, _ = s.pool.Get(raw[rawIdx])
		}

		switch {
		case !rawAvailable:
			usingModified = true
		case modAvailable && modifiedBetter(modTop, rawEntry, s.strategy):
			usingModified = true
		default:
			usingModified = false
		}

		if usingModified {
			chosenHandle = modTop.Handle
			pkgSize = modTop.SizeWithAncestors
			pkgFee = modTop.ModFeesWithAncestors
			pkgSigOps = modTop.SigOpCostWithAncestors
		} else {
			chosenHandle = raw[rawIdx]
			pkgSize = rawEntry.SizeWithAncestors
			pkgFee = rawEntry.ModFeesWithAncestors
			pkgSigOps = rawEntry.SigOpCostWithAncestors
			rawIdx++
		}

		// Minimum-feerate gate: under SortByFeeRate, packages arrive in
		// non-increasing feerate order, so once one falls below the floor
		// every later one would too. SortByFee orders by raw fee instead,
		// so that short-circuit no longer holds — skip the package and
		// keep scanning rather than abandoning the rest of the pool.
		if s.minFeeRate.SatoshisPerK > 0 && util.NewFeeRateWithSize(pkgFee, pkgSize).Less(s.minFeeRate) {
			if s.strategy != SortByFeeRate {
				if usingModified {
					modIndex.Delete(modTop)
					delete(modByHandle, chosenHandle)
				}
				failed[chosenHandle] = struct{}{}
				continue
			}
			break
		}

		// Step 4: fit test.
		if !budget.TestPackage(uint64(pkgSize), pkgSigOps) {
			if usingModified {
				modIndex.Delete(modTop)
				delete(modByHandle, chosenHandle)
			}
			failed[chosenHandle] = struct{}{}
			consecutiveFailures++
			if consecutiveFailures > consensus.MaxConsecutiveFailures &&
				budget.Weight > budget.MaxWeight-consensus.CoinbaseReservedWeight {
				break
			}
			continue
		}

		// Step 5: compute the exact ancestor set (unbounded limits), drop
		// already-included members, add the candidate itself.
		ancestors, aerr := s.pool.Ancestors(chosenHandle, math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64)
		if aerr != nil {
			if usingModified {
				modIndex.Delete(modTop)
				delete(modByHandle, chosenHandle)
			}
			failed[chosenHandle] = struct{}{}
			continue
		}
		pkg := make([]mempool.Handle, 0, len(ancestors)+1)
		for _, a := range ancestors {
			if _, in := budget.Inclusion[a]; in {
				continue
			}
			pkg = append(pkg, a)
		}
		pkg = append(pkg, chosenHandle)

		// Step 6: finality/witness test. Failure does not terminate the
		// loop (unlike the fit test).
		if !budget.TestFinality(s.pool, pkg, height, locktimeCutoff, witnessEnabled) {
			if usingModified {
				modIndex.Delete(modTop)
				delete(modByHandle, chosenHandle)
			}
			failed[chosenHandle] = struct{}{}
			consecutiveFailures++
			continue
		}

		// Step 7: commit, dependency-safe linearization by ancestor count.
		sort.Slice(pkg, func(i, j int) bool {
			ei, _ := s.pool.Get(pkg[i])
			ej, _ := s.pool.Get(pkg[j])
			return ei.AncestorCount < ej.AncestorCount
		})
		for _, h := range pkg {
			e, ok := s.pool.Get(h)
			if !ok {
				continue
			}
			budget.Add(e)
			if me, in := modByHandle[h]; in {
				modIndex.Delete(me)
				delete(modByHandle, h)
			}
		}
		consecutiveFailures = 0
		packagesSelected++

		// Step 8.
		descendantsUpdated += s.updatePackagesForAdded(pkg, modIndex, modByHandle)
	}

	return packagesSelected, descendantsUpdated, nil
}

// updatePackagesForAdded implements spec §4.2's updatePackagesForAdded:
// for each added handle, enumerate in-mempool descendants not themselves
// in added, and subtract the added handle's own (non-ancestor-aggregated)
// size/fee/sigops from the descendant's overlay entry, inserting a fresh
// overlay entry the first time a descendant is touched.
func (s *Selector) updatePackagesForAdded(added []mempool.Handle, modIndex *btree.BTree, modByHandle map[mempool.Handle]*modifiedEntry) int {
	addedSet := make(map[mempool.Handle]struct{}, len(added))
	for _, a := range added {
		addedSet[a] = struct{}{}
	}

	count := 0
	for _, a := range added {
		aEntry, ok := s.pool.Get(a)
		if !ok {
			continue
		}
		for _, d := range s.pool.Descendants(a) {
			if _, in := addedSet[d]; in {
				continue
			}
			count++
			if me, exists := modByHandle[d]; exists {
				modIndex.Delete(me)
				me.SizeWithAncestors -= int64(aEntry.Size)
				me.ModFeesWithAncestors -= aEntry.ModFee
				me.SigOpCostWithAncestors -= int64(aEntry.Tx.SigOps)
				modIndex.ReplaceOrInsert(me)
			} else {
				dEntry, ok := s.pool.Get(d)
				if !ok {
					continue
				}
				me := &modifiedEntry{
					Handle:                 d,
					SizeWithAncestors:      dEntry.SizeWithAncestors - int64(aEntry.Size),
					ModFeesWithAncestors:   dEntry.ModFeesWithAncestors - aEntry.ModFee,
					SigOpCostWithAncestors: dEntry.SigOpCostWithAncestors - int64(aEntry.Tx.SigOps),
					Strategy:               s.strategy,
				}
				modByHandle[d] = me
				modIndex.ReplaceOrInsert(me)
			}
		}
	}
	if count == 0 {
		log.Debug("mining: no descendants updated")
	}
	return count
}

func peekMax(t *btree.BTree) (*modifiedEntry, bool) {
	item := t.Max()
	if item == nil {
		return nil, false
	}
	return item.(*modifiedEntry), true
}
