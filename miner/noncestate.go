package miner

import (
	"sync"

	"github.com/zzhertzmon/veil/util"
)

// NonceState is the shared cross-thread extra-nonce counter, start time,
// and cumulative hash count (spec §9 "Shared nonce state", supplemented
// feature #2, grounded on original_source/src/miner.cpp's
// IncrementExtraNonce). The spec calls for dependency injection over true
// globals, so this is a plain struct a driver holds a reference to rather
// than package-level mutable state.
type NonceState struct {
	mu sync.Mutex

	lastTip     util.Hash
	extraNonce  uint64
	startTime   int64
	hashesTried uint64
}

// NewNonceState returns a zeroed nonce state.
func NewNonceState() *NonceState {
	return &NonceState{}
}

// Reserve returns the next extra-nonce value for tipHash, distinct per
// reservation. The counter resets to zero whenever the tip hash changes
// (spec §4.4 "reset whenever the tip hash changes").
func (n *NonceState) Reserve(tipHash util.Hash, now int64) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.lastTip != tipHash {
		n.lastTip = tipHash
		n.extraNonce = 0
		n.startTime = now
	}
	n.extraNonce++
	return n.extraNonce
}

// AddHashes accumulates the hash-rate statistic (spec §5 "nonce counter
// guard... rate-statistics update").
func (n *NonceState) AddHashes(count uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hashesTried += count
}

// HashesTried returns the cumulative PoW hash count recorded through
// AddHashes.
func (n *NonceState) HashesTried() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hashesTried
}
