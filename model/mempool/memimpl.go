package mempool

import (
	"math"
	"sort"
	"sync"
)

// InMemory is a minimal, test-grade Mempool implementation: no admission
// policy, no eviction policy beyond what EvictRecursive is told to do.
// Mempool admission policy is an explicit Non-goal (spec.md); this exists
// so the selector/assembler can be exercised end to end without a real
// mempool collaborator, grounded on the teacher's map-of-entries storage
// style (model/mempool/txmempool.go) minus its policy machinery.
type InMemory struct {
	mu       sync.Mutex
	locked   bool
	entries  map[Handle]*Entry
	parents  map[Handle]map[Handle]struct{}
	children map[Handle]map[Handle]struct{}
}

// NewInMemory returns an empty in-memory mempool.
func NewInMemory() *InMemory {
	return &InMemory{
		entries:  make(map[Handle]*Entry),
		parents:  make(map[Handle]map[Handle]struct{}),
		children: make(map[Handle]map[Handle]struct{}),
	}
}

// Add inserts an entry with the given direct parents and sets its
// AncestorCount from the parent graph. The size/fee/sigop ancestor
// aggregates are taken as given on e and are not recomputed.
func (m *InMemory) Add(e *Entry, parents ...Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[e.Handle] = e
	if m.parents[e.Handle] == nil {
		m.parents[e.Handle] = make(map[Handle]struct{})
	}
	for _, p := range parents {
		m.parents[e.Handle][p] = struct{}{}
		if m.children[p] == nil {
			m.children[p] = make(map[Handle]struct{})
		}
		m.children[p][e.Handle] = struct{}{}
	}

	e.AncestorCount = int64(len(m.ancestorsLocked(e.Handle))) + 1
}

// ancestorsLocked walks the parent graph; callers must hold m.mu.
func (m *InMemory) ancestorsLocked(h Handle) map[Handle]struct{} {
	seen := make(map[Handle]struct{})
	var walk func(Handle)
	walk = func(cur Handle) {
		for p := range m.parents[cur] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			walk(p)
		}
	}
	walk(h)
	return seen
}

func (m *InMemory) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

func (m *InMemory) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = false
}

func (m *InMemory) Get(h Handle) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[h]
	return e, ok
}

func (m *InMemory) ByAncestorScore() []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	handles := make([]Handle, 0, len(m.entries))
	for h := range m.entries {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		a, b := m.entries[handles[i]], m.entries[handles[j]]
		return lessByAncestorFeeRate(a, b)
	})
	return handles
}

func (m *InMemory) Descendants(h Handle) []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[Handle]struct{})
	var walk func(Handle)
	walk = func(cur Handle) {
		for child := range m.children[cur] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			walk(child)
		}
	}
	walk(h)
	out := make([]Handle, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	return out
}

func (m *InMemory) Ancestors(h Handle, maxCount, maxSize, maxSigOps, maxDescendants uint64) ([]Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[Handle]struct{})
	var walk func(Handle)
	walk = func(cur Handle) {
		for p := range m.parents[cur] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			walk(p)
		}
	}
	walk(h)
	out := make([]Handle, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	if maxCount != math.MaxUint64 && uint64(len(out)) > maxCount {
		return out, errTooManyAncestors
	}
	return out, nil
}

func (m *InMemory) EvictRecursive(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toRemove := []Handle{h}
	seen := map[Handle]struct{}{h: {}}
	for i := 0; i < len(toRemove); i++ {
		cur := toRemove[i]
		for child := range m.children[cur] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			toRemove = append(toRemove, child)
		}
	}
	for _, r := range toRemove {
		delete(m.entries, r)
		delete(m.parents, r)
		delete(m.children, r)
	}
}

func lessByAncestorFeeRate(a, b *Entry) bool {
	af := a.FeeRateWithAncestors().SatoshisPerK
	bf := b.FeeRateWithAncestors().SatoshisPerK
	if af == bf {
		return a.Tx.Hash.Cmp(b.Tx.Hash) > 0
	}
	return af > bf
}
