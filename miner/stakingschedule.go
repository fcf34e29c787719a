package miner

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/zzhertzmon/veil/util"
)

// stakingScheduleSize bounds the per-tip last-hashed map so a long chain
// of reorgs cannot leak an entry per abandoned tip forever.
const stakingScheduleSize = 256

// StakingSchedule is the per-tip "last hashed at" map plus the cumulative
// stake-hash attempt counter the PoS driver consults before re-hashing a
// tip it has already tried recently (spec §9 "Staking-hash map", spec §4.4
// "Staking-hash schedule"). Grounded on spec.md's own description — the
// teacher carries no staking concept at all — bounded with golang-lru
// instead of a plain map, since an unbounded map would grow by one entry
// per tip forever across reorgs; this is golang-lru's only home in this
// repo.
type StakingSchedule struct {
	lastHashed *lru.Cache
	attempts   uint64 // accessed via sync/atomic
}

// NewStakingSchedule returns a schedule bounded to the most recent
// stakingScheduleSize tips.
func NewStakingSchedule() *StakingSchedule {
	c, _ := lru.New(stakingScheduleSize)
	return &StakingSchedule{lastHashed: c}
}

// LastHashed returns when tipHash was last hashed, and whether it has ever
// been hashed at all.
func (s *StakingSchedule) LastHashed(tipHash util.Hash) (int64, bool) {
	v, ok := s.lastHashed.Get(tipHash)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// RecordAttempt marks tipHash as hashed at now and increments the
// cumulative attempt counter.
func (s *StakingSchedule) RecordAttempt(tipHash util.Hash, now int64) {
	s.lastHashed.Add(tipHash, now)
	atomic.AddUint64(&s.attempts, 1)
}

// Attempts returns the cumulative stake-hash attempt count.
func (s *StakingSchedule) Attempts() uint64 {
	return atomic.LoadUint64(&s.attempts)
}
