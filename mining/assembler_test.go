package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzhertzmon/veil/accumulator"
	"github.com/zzhertzmon/veil/model/block"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/model/mempool"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
	"github.com/zzhertzmon/veil/wallet"
)

type assemblerFakeChain struct {
	tip    *chain.Index
	locked bool
}

func (f *assemblerFakeChain) Tip() *chain.Index                           { return f.tip }
func (f *assemblerFakeChain) PrevIndex(h util.Hash) (*chain.Index, error) { return nil, nil }
func (f *assemblerFakeChain) IsSerialConfirmed(serial util.Hash) (bool, int32) {
	return false, 0
}
func (f *assemblerFakeChain) IsPubcoinConfirmed(pubcoin util.Hash) (bool, int32) {
	return false, 0
}
func (f *assemblerFakeChain) Lock()   { f.locked = true }
func (f *assemblerFakeChain) Unlock() { f.locked = false }

type assemblerFakeConsensus struct {
	validityErr error
}

func (c *assemblerFakeConsensus) ComputeBlockVersion(prevIndex *chain.Index) int32 { return 1 }
func (c *assemblerFakeConsensus) GetNextWorkRequired(prevIndex *chain.Index, bl *block.Block, isPoS bool) uint32 {
	return 0x1d00ffff
}
func (c *assemblerFakeConsensus) CheckPoW(hash util.Hash, bits uint32) bool { return true }
func (c *assemblerFakeConsensus) TestBlockValidity(bl *block.Block, prevIndex *chain.Index) error {
	return c.validityErr
}
func (c *assemblerFakeConsensus) ProcessNewBlock(bl *block.Block) error { return nil }

type assemblerFakeUTXO struct{}

func (assemblerFakeUTXO) HaveInputs(out tx.OutPoint) bool { return true }

type assemblerFakeAccumulator struct{}

func (assemblerFakeAccumulator) CalculateCheckpoint(height int32, mapInOut map[uint32]util.Hash) error {
	return nil
}
func (assemblerFakeAccumulator) GetCheckpoints(all bool) map[uint32]util.Hash { return nil }

var _ accumulator.Accumulator = assemblerFakeAccumulator{}

type assemblerFakeWallet struct {
	coinstake     *tx.Tx
	coinstakeTime int64
	coinstakeErr  error
	stakingOK     bool
	key           []byte
	keyErr        error
	sig           []byte
	signErr       error
}

func (w *assemblerFakeWallet) CreateCoinStake(prevIndex *chain.Index, nBits uint32) (*tx.Tx, int64, error) {
	return w.coinstake, w.coinstakeTime, w.coinstakeErr
}
func (w *assemblerFakeWallet) MintableCoins() bool            { return true }
func (w *assemblerFakeWallet) IsStakingEnabled() bool          { return w.stakingOK }
func (w *assemblerFakeWallet) IsLocked() bool                  { return false }
func (w *assemblerFakeWallet) IsUnlockedForStakingOnly() bool  { return false }
func (w *assemblerFakeWallet) GetZerocoinKey(serial util.Hash) ([]byte, error) {
	return w.key, w.keyErr
}
func (w *assemblerFakeWallet) Sign(blockHash util.Hash) ([]byte, error) { return w.sig, w.signErr }
func (w *assemblerFakeWallet) ReserveScript() ([]byte, func(), error) {
	return []byte("reserve"), func() {}, nil
}

type assemblerFakeMainWallet struct {
	w wallet.Wallet
}

func (m *assemblerFakeMainWallet) Main() wallet.Wallet { return m.w }

func flatTestSchedule(height int32) (util.Amount, util.Amount, util.Amount, util.Amount) {
	return 1000, 0, 0, 0
}

func baseAssembler() *Assembler {
	return &Assembler{
		Chain:       &assemblerFakeChain{},
		Pool:        mempool.NewInMemory(),
		UTXO:        assemblerFakeUTXO{},
		Consensus:   &assemblerFakeConsensus{},
		Accumulator: assemblerFakeAccumulator{},
		Wallet:      &assemblerFakeMainWallet{},
		Clock:       &util.MockClock{Seconds: 1000},
		Params: &consensus.Params{
			BudgetScript:   []byte("budget"),
			LabScript:      []byte("lab"),
			PoSStartHeight: 1000,
			BudgetSchedule: flatTestSchedule,
		},
		MaxWeightConfigured: consensus.MaxBlockWeight / 4,
	}
}

func TestCreateTemplatePoWGenesisSucceeds(t *testing.T) {
	a := baseAssembler()
	tmpl, err := a.CreateTemplate([]byte("miner"), true, false, false)
	assert.NoError(t, err)
	assert.NotNil(t, tmpl)
	assert.Len(t, tmpl.Block.Txs, 1)
	assert.False(t, tmpl.Block.Header.MerkleRoot.IsZero())
}

func TestCreateTemplatePoSBeforeStartHeightErrors(t *testing.T) {
	a := baseAssembler()
	a.Chain = &assemblerFakeChain{tip: &chain.Index{Height: 5}}
	_, err := a.CreateTemplate([]byte("miner"), true, true, false)
	assert.ErrorIs(t, err, ErrPoSNotActive)
}

func TestCreateTemplateMempoolBusyErrors(t *testing.T) {
	a := baseAssembler()
	pool := mempool.NewInMemory()
	pool.TryLock()
	a.Pool = pool
	_, err := a.CreateTemplate([]byte("miner"), true, false, false)
	assert.ErrorIs(t, err, ErrMempoolBusy)
}

func TestCreateTemplatePoSWalletUnavailableErrors(t *testing.T) {
	a := baseAssembler()
	a.Chain = &assemblerFakeChain{tip: &chain.Index{Height: 2000}}
	_, err := a.CreateTemplate(nil, true, true, false)
	assert.ErrorIs(t, err, ErrWalletUnavailable)
}

func TestCreateTemplatePoSWithCoinstakeInstallsAndSigns(t *testing.T) {
	a := baseAssembler()
	serial := util.DoubleSha256([]byte("serial"))
	coinstake := &tx.Tx{
		Hash:         util.DoubleSha256([]byte("coinstake")),
		Kind:         tx.KindSpend,
		SerialHashes: []util.Hash{serial},
	}
	fw := &assemblerFakeWallet{
		coinstake:     coinstake,
		coinstakeTime: 5000,
		stakingOK:     true,
		key:           []byte("key"),
		sig:           []byte("sig"),
	}
	a.Wallet = &assemblerFakeMainWallet{w: fw}
	a.Chain = &assemblerFakeChain{tip: &chain.Index{Height: 2000, MedianTimePast: 900}}

	tmpl, err := a.CreateTemplate(nil, true, true, false)
	assert.NoError(t, err)
	assert.Len(t, tmpl.Block.Txs, 2)
	assert.Equal(t, coinstake, tmpl.Block.Txs[1])
	assert.Equal(t, []byte("sig"), tmpl.Block.Header.Signature)
	assert.Equal(t, util.Amount(-1), tmpl.TxFees[1])
}

func TestCreateTemplatePoSRejectsNonSpendCoinstake(t *testing.T) {
	a := baseAssembler()
	coinstake := &tx.Tx{Hash: util.DoubleSha256([]byte("coinstake")), Kind: tx.KindStandard}
	fw := &assemblerFakeWallet{coinstake: coinstake, stakingOK: true}
	a.Wallet = &assemblerFakeMainWallet{w: fw}
	a.Chain = &assemblerFakeChain{tip: &chain.Index{Height: 2000}}

	_, err := a.CreateTemplate(nil, true, true, false)
	assert.ErrorIs(t, err, ErrSignFailed)
}

func TestCreateTemplateValidityFailurePropagates(t *testing.T) {
	a := baseAssembler()
	a.Consensus = &assemblerFakeConsensus{validityErr: assert.AnError}
	_, err := a.CreateTemplate([]byte("miner"), true, false, false)
	assert.ErrorIs(t, err, ErrTemplateInvalid)
}

func TestCreateTemplateIdempotentAuxDataHash(t *testing.T) {
	a := baseAssembler()
	t1, err := a.CreateTemplate([]byte("miner"), true, false, false)
	assert.NoError(t, err)
	a2 := baseAssembler()
	t2, err := a2.CreateTemplate([]byte("miner"), true, false, false)
	assert.NoError(t, err)
	assert.Equal(t, t1.Block.Header.AuxDataHash, t2.Block.Header.AuxDataHash)
}
