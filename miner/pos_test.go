package miner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
	"github.com/zzhertzmon/veil/wallet"
)

type mintableWallet struct {
	value bool
}

func (w *mintableWallet) CreateCoinStake(prevIndex *chain.Index, nBits uint32) (*tx.Tx, int64, error) {
	return nil, 0, nil
}
func (w *mintableWallet) MintableCoins() bool                              { return w.value }
func (w *mintableWallet) IsStakingEnabled() bool                          { return true }
func (w *mintableWallet) IsLocked() bool                                  { return false }
func (w *mintableWallet) IsUnlockedForStakingOnly() bool                  { return false }
func (w *mintableWallet) GetZerocoinKey(serial util.Hash) ([]byte, error) { return nil, nil }
func (w *mintableWallet) Sign(blockHash util.Hash) ([]byte, error)        { return nil, nil }
func (w *mintableWallet) ReserveScript() ([]byte, func(), error)          { return nil, func() {}, nil }

var _ wallet.Wallet = (*mintableWallet)(nil)

func TestRefreshMintableUsesRetryIntervalWhenFalse(t *testing.T) {
	d := &PosDriver{}
	w := &mintableWallet{value: false}
	d.refreshMintable(w, 0)
	assert.False(t, d.mintableCache)
	assert.Equal(t, int64(0), d.mintableCheckedAt)

	// Within the 1-minute retry window: no recheck.
	w.value = true
	d.refreshMintable(w, 30)
	assert.False(t, d.mintableCache)

	// Past the 1-minute retry window: rechecks and flips true.
	d.refreshMintable(w, 61)
	assert.True(t, d.mintableCache)
	assert.Equal(t, int64(61), d.mintableCheckedAt)
}

func TestRefreshMintableUsesLongerIntervalWhenTrue(t *testing.T) {
	d := &PosDriver{mintableCache: true, mintableCheckedAt: 0}
	w := &mintableWallet{value: true}

	// Within the 5-minute recheck window: skips.
	d.refreshMintable(w, 100)
	assert.Equal(t, int64(0), d.mintableCheckedAt)

	// Past the 5-minute window: rechecks.
	w.value = false
	d.refreshMintable(w, 301)
	assert.False(t, d.mintableCache)
	assert.Equal(t, int64(301), d.mintableCheckedAt)
}

func TestPosDriverRunExitsWhenShutdownRequested(t *testing.T) {
	d := &PosDriver{Shutdown: &fakeShutdown{requested: true}}
	done := make(chan struct{})
	go func() {
		d.Run(NewCancelToken(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return when shutdown was already requested")
	}
}

func TestPosDriverRunRetriesWithNilTipThenExitsOnCancel(t *testing.T) {
	d := &PosDriver{
		Shutdown: &fakeShutdown{},
		Chain:    posFakeChainNilTip{},
	}
	cancel := NewCancelToken()
	done := make(chan struct{})
	go func() {
		d.Run(cancel, 0)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel.Cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after cancellation while tip is nil")
	}
}

type posFakeChainNilTip struct{}

func (posFakeChainNilTip) Tip() *chain.Index                          { return nil }
func (posFakeChainNilTip) PrevIndex(h util.Hash) (*chain.Index, error) { return nil, nil }
func (posFakeChainNilTip) IsSerialConfirmed(serial util.Hash) (bool, int32) {
	return false, 0
}
func (posFakeChainNilTip) IsPubcoinConfirmed(pubcoin util.Hash) (bool, int32) {
	return false, 0
}
func (posFakeChainNilTip) Lock()   {}
func (posFakeChainNilTip) Unlock() {}
