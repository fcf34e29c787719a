package miner

import (
	"encoding/binary"
	"time"

	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/mining"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/util"
	"github.com/zzhertzmon/veil/wallet"
)

// coinbaseFlags is appended after the (height, extraNonce) push in the PoW
// coinbase scriptsig, matching the reference chain's convention of
// stamping a short client identifier into every mined block.
var coinbaseFlags = []byte("/veil-miner/")

// maxCoinbaseScriptSigLen is the hard cap spec §4.4 asserts against after
// the scriptsig rewrite.
const maxCoinbaseScriptSigLen = 100

// powInnerLoopIterations bounds the nonce search before a template is
// abandoned and rebuilt (spec §4.4 "up to 0x10000 iterations").
const powInnerLoopIterations = 0x10000

// ibdSleep is how long the PoW driver sleeps when initial block download
// is in progress (spec §4.4).
const ibdSleep = 60 * time.Second

// PowDriver runs the PoW miner loop (spec §4.4 "PoW driver"). Grounded on
// jaxnet-lab-jaxnetd/node/mining/cpuminer/cpuminer.go's
// generateBlocks/solveBlock shape (the only pack example of a real PoW
// worker goroutine), restructured around mining.Assembler.CreateTemplate
// and the spec's explicit cancellation token.
type PowDriver struct {
	Assembler  *mining.Assembler
	Consensus  consensus.Consensus
	Chain      chain.Chain
	Clock      util.Clock
	Shutdown   Shutdown
	Nonce      *NonceState
	Wallet     wallet.MainWallet
	GenOverride bool

	// IsInitialBlockDownload reports whether the chain is still syncing;
	// when GenOverride is set this gate is bypassed (spec §6 "genoverride").
	IsInitialBlockDownload func() bool
}

// Run is the loop body spawned once per worker by ThreadGroup.StartGeneration.
func (d *PowDriver) Run(cancel *CancelToken, worker int) {
	for {
		if cancel.Cancelled() || d.Shutdown.IsShutdownRequested() {
			return
		}

		if !d.GenOverride && d.IsInitialBlockDownload != nil && d.IsInitialBlockDownload() {
			if d.sleepOrCancel(cancel, ibdSleep) {
				return
			}
			continue
		}

		w := d.Wallet.Main()
		if w == nil {
			if d.sleepOrCancel(cancel, ibdSleep) {
				return
			}
			continue
		}
		payoutScript, keep, err := w.ReserveScript()
		if err != nil {
			log.Warn("miner: pow worker %d could not reserve a payout script: %v", worker, err)
			if d.sleepOrCancel(cancel, time.Second) {
				return
			}
			continue
		}

		tip := d.Chain.Tip()
		tipHash := util.HashZero
		if tip != nil {
			tipHash = tip.Hash
		}
		extraNonce := d.Nonce.Reserve(tipHash, d.Clock.WallClockSeconds())

		template, err := d.Assembler.CreateTemplate(payoutScript, true, false, false)
		if err != nil {
			log.Debug("miner: pow worker %d template build failed: %v", worker, err)
			if d.sleepOrCancel(cancel, time.Second) {
				return
			}
			continue
		}

		height := int32(0)
		if tip != nil {
			height = tip.Height + 1
		}
		rewriteCoinbaseScriptSig(template, height, extraNonce)
		recomputeMerkleRoots(template)

		hit := d.solve(cancel, template)
		if cancel.Cancelled() {
			return
		}
		if !hit {
			// Inner loop exhausted without a solution; rebuild next
			// iteration (spec §4.4).
			continue
		}

		if err := d.Consensus.ProcessNewBlock(template.Block); err != nil {
			log.Warn("miner: pow worker %d block rejected: %v", worker, err)
			continue
		}
		keep()
		log.Info("miner: pow worker %d found block at height %d", worker, height)
	}
}

// solve runs the bounded inner nonce loop (spec §4.4), polling cancellation
// each iteration.
func (d *PowDriver) solve(cancel *CancelToken, t *mining.Template) bool {
	for i := 0; i < powInnerLoopIterations; i++ {
		if cancel.Cancelled() {
			return false
		}
		t.Block.Header.Nonce = uint32(i)
		hash := util.DoubleSha256(headerPreimage(t))
		d.Nonce.AddHashes(1)
		if d.Consensus.CheckPoW(hash, t.Block.Header.Bits) {
			return true
		}
	}
	return false
}

// sleepOrCancel sleeps for d, polling cancellation; returns true if
// cancelled during the sleep.
func (d *PowDriver) sleepOrCancel(cancel *CancelToken, wait time.Duration) bool {
	select {
	case <-cancel.Done():
		return true
	case <-time.After(wait):
		return false
	}
}

// rewriteCoinbaseScriptSig encodes (height, extraNonce) + coinbaseFlags
// into the coinbase's scriptsig, truncating it to the 100-byte cap
// (spec §4.4).
func rewriteCoinbaseScriptSig(t *mining.Template, height int32, extraNonce uint64) {
	cb := t.Block.Txs[0]
	var heightBuf [4]byte
	binary.LittleEndian.PutUint32(heightBuf[:], uint32(height))
	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], extraNonce)

	script := make([]byte, 0, 4+8+len(coinbaseFlags))
	script = append(script, heightBuf[:]...)
	script = append(script, nonceBuf[:]...)
	script = append(script, coinbaseFlags...)
	if len(script) > maxCoinbaseScriptSigLen {
		script = script[:maxCoinbaseScriptSigLen]
	}
	cb.Ins[0].ScriptSig = script
}

// recomputeMerkleRoots refreshes the Merkle root after the coinbase
// scriptsig rewrite changes the coinbase's hash.
func recomputeMerkleRoots(t *mining.Template) {
	mining.RecomputeHashAndMerkle(t)
}

// headerPreimage is the minimal byte form of the header hashed against the
// target; full wire serialization is the hosting chain's concern.
func headerPreimage(t *mining.Template) []byte {
	h := t.Block.Header
	var buf []byte
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], uint32(h.Version))
	buf = append(buf, v[:]...)
	buf = append(buf, h.HashPrevBlock[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	binary.LittleEndian.PutUint32(v[:], h.Time)
	buf = append(buf, v[:]...)
	binary.LittleEndian.PutUint32(v[:], h.Bits)
	buf = append(buf, v[:]...)
	binary.LittleEndian.PutUint32(v[:], h.Nonce)
	buf = append(buf, v[:]...)
	return buf
}
