package miner

import (
	"time"

	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/mining"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/util"
	"github.com/zzhertzmon/veil/wallet"
)

const (
	// maxPastBlockTime/maxFutureBlockTime bound how far the PoS driver's
	// adjusted time may drift from the tip (spec §4.4).
	maxPastBlockTime   = 2 * 60 * 60
	maxFutureBlockTime = 15 * 60

	posRetrySleep         = 5 * time.Second
	posLockPollSleep      = 2500 * time.Millisecond
	staleHeaderGraceSecs  = 60 * 60
	mintableRecheckEvery  = 5 * time.Minute
	mintableRetryEvery    = 1 * time.Minute
)

// PosDriver runs the proof-of-stake miner loop (spec §4.4 "PoS driver").
// Grounded on original_source/src/miner.cpp's ThreadStakeMinter, since
// the teacher carries no PoS concept at all; restructured around an
// explicit CancelToken (spec §9) instead of boost::thread_interrupted.
type PosDriver struct {
	Assembler *mining.Assembler
	Consensus consensus.Consensus
	Chain     chain.Chain
	Clock     util.Clock
	Shutdown  Shutdown
	Wallet    wallet.MainWallet
	Params    *consensus.Params
	Schedule  *StakingSchedule

	GenOverride            bool
	IsInitialBlockDownload func() bool
	PeerCount              func() int

	mintableCache     bool
	mintableCheckedAt int64
}

// Run is the loop body; a single PoS worker is expected but the design
// tolerates several (spec §5).
func (d *PosDriver) Run(cancel *CancelToken, worker int) {
	for {
		if cancel.Cancelled() || d.Shutdown.IsShutdownRequested() {
			return
		}

		tip := d.Chain.Tip()
		if tip == nil {
			if d.sleep(cancel, posRetrySleep) {
				return
			}
			continue
		}

		if tip.BestHeaderTime-int64(tip.Time) > staleHeaderGraceSecs ||
			(!d.GenOverride && d.IsInitialBlockDownload != nil && d.IsInitialBlockDownload()) {
			if d.sleep(cancel, posRetrySleep) {
				return
			}
			continue
		}

		w := d.Wallet.Main()
		peers := 0
		if d.PeerCount != nil {
			peers = d.PeerCount()
		}
		if w == nil || peers == 0 || !w.IsStakingEnabled() || tip.Height+1 < d.Params.PoSStartHeight {
			if d.sleep(cancel, posRetrySleep) {
				return
			}
			continue
		}

		now := d.Clock.AdjustedNetworkTime()
		d.refreshMintable(w, now)

		// Poll until conditions clear (spec §9 open question (d): the
		// source's one-iteration wallet-lock check looks unintentional;
		// implement the evident intent instead).
		for {
			if cancel.Cancelled() || d.Shutdown.IsShutdownRequested() {
				return
			}
			locked := w.IsLocked() && !w.IsUnlockedForStakingOnly()
			stale := now < int64(tip.Time)-maxPastBlockTime
			if !locked && d.mintableCache && !stale {
				break
			}
			if d.sleep(cancel, posLockPollSleep) {
				return
			}
			now = d.Clock.AdjustedNetworkTime()
			d.refreshMintable(w, now)
		}

		if last, ok := d.Schedule.LastHashed(tip.Hash); ok {
			if now+maxFutureBlockTime-last < 60+int64(d.Clock.RandInt(20)) {
				if d.sleep(cancel, time.Duration(d.Clock.RandInt(10))*time.Second) {
					return
				}
				continue
			}
		}
		d.Schedule.RecordAttempt(tip.Hash, now)

		template, err := d.Assembler.CreateTemplate(nil, true, true, false)
		if err != nil {
			log.Debug("miner: pos worker %d template build failed: %v", worker, err)
			if d.sleep(cancel, posRetrySleep) {
				return
			}
			continue
		}

		if err := d.Consensus.ProcessNewBlock(template.Block); err != nil {
			log.Warn("miner: pos worker %d block rejected: %v", worker, err)
			continue
		}
		log.Info("miner: pos worker %d staked block at height %d", worker, tip.Height+1)
	}
}

// refreshMintable implements the 5-minute/1-minute mintable-coins caching
// schedule (spec §4.4 "Every 5 minutes... every 1 minute while false").
func (d *PosDriver) refreshMintable(w wallet.Wallet, now int64) {
	interval := int64(mintableRecheckEvery / time.Second)
	if !d.mintableCache {
		interval = int64(mintableRetryEvery / time.Second)
	}
	if now-d.mintableCheckedAt < interval {
		return
	}
	d.mintableCache = w.MintableCoins()
	d.mintableCheckedAt = now
}

func (d *PosDriver) sleep(cancel *CancelToken, wait time.Duration) bool {
	select {
	case <-cancel.Done():
		return true
	case <-time.After(wait):
		return false
	}
}
