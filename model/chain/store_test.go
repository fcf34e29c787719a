package chain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzhertzmon/veil/util"
)

func openTestChain(t *testing.T) *LevelChain {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "chainstore")
	c, err := OpenLevelChain(dir)
	assert.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLevelChainSetTipAndTip(t *testing.T) {
	c := openTestChain(t)
	assert.Nil(t, c.Tip())

	idx := &Index{Hash: util.DoubleSha256([]byte("tip")), Height: 10}
	assert.NoError(t, c.SetTip(idx))
	assert.Equal(t, idx, c.Tip())
}

func TestLevelChainPrevIndexNotFound(t *testing.T) {
	c := openTestChain(t)
	_, err := c.PrevIndex(util.DoubleSha256([]byte("missing")))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestLevelChainPrevIndexRoundTrip(t *testing.T) {
	c := openTestChain(t)
	idx := &Index{Hash: util.DoubleSha256([]byte("tip")), NetworkReserve: 500}
	assert.NoError(t, c.SetTip(idx))

	got, err := c.PrevIndex(idx.Hash)
	assert.NoError(t, err)
	assert.Equal(t, idx.Hash, got.Hash)
	assert.Equal(t, idx.NetworkReserve, got.NetworkReserve)
}

func TestLevelChainSerialAndPubcoinConfirmation(t *testing.T) {
	c := openTestChain(t)
	serial := util.DoubleSha256([]byte("serial"))
	pubcoin := util.DoubleSha256([]byte("pubcoin"))

	confirmed, _ := c.IsSerialConfirmed(serial)
	assert.False(t, confirmed)

	assert.NoError(t, c.RecordSerial(serial, 42))
	confirmed, at := c.IsSerialConfirmed(serial)
	assert.True(t, confirmed)
	assert.Equal(t, int32(42), at)

	assert.NoError(t, c.RecordPubcoin(pubcoin, 99))
	confirmed, at = c.IsPubcoinConfirmed(pubcoin)
	assert.True(t, confirmed)
	assert.Equal(t, int32(99), at)
}

func TestLevelChainLockUnlock(t *testing.T) {
	c := openTestChain(t)
	c.Lock()
	c.Unlock()
}

var _ Chain = (*LevelChain)(nil)
