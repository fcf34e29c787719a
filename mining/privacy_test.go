package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

type fakeChainAdapter struct {
	confirmedSerials  map[util.Hash]int32
	confirmedPubcoins map[util.Hash]int32
}

func (f *fakeChainAdapter) Tip() *chain.Index                            { return nil }
func (f *fakeChainAdapter) PrevIndex(h util.Hash) (*chain.Index, error)  { return nil, nil }

func (f *fakeChainAdapter) IsSerialConfirmed(serial util.Hash) (bool, int32) {
	at, ok := f.confirmedSerials[serial]
	return ok, at
}

func (f *fakeChainAdapter) IsPubcoinConfirmed(pubcoin util.Hash) (bool, int32) {
	at, ok := f.confirmedPubcoins[pubcoin]
	return ok, at
}

func (f *fakeChainAdapter) Lock()   {}
func (f *fakeChainAdapter) Unlock() {}

var _ chain.Chain = (*fakeChainAdapter)(nil)

func TestScreenDuplicatesWithinBlock(t *testing.T) {
	serial := util.DoubleSha256([]byte("serial-1"))
	txA := &tx.Tx{Hash: util.DoubleSha256([]byte("a")), Kind: tx.KindSpend, SerialHashes: []util.Hash{serial}}
	txB := &tx.Tx{Hash: util.DoubleSha256([]byte("b")), Kind: tx.KindSpend, SerialHashes: []util.Hash{serial}}

	c := &fakeChainAdapter{confirmedSerials: map[util.Hash]int32{}, confirmedPubcoins: map[util.Hash]int32{}}
	dup := ScreenDuplicates(c, 100, []*tx.Tx{txA, txB})

	assert.Contains(t, dup, txB.Hash)
	assert.NotContains(t, dup, txA.Hash)
}

func TestScreenDuplicatesAgainstConfirmedChain(t *testing.T) {
	pubcoin := util.DoubleSha256([]byte("pubcoin-1"))
	txA := &tx.Tx{Hash: util.DoubleSha256([]byte("a")), Kind: tx.KindMint, PubcoinHashes: []util.Hash{pubcoin}}

	c := &fakeChainAdapter{
		confirmedSerials:  map[util.Hash]int32{},
		confirmedPubcoins: map[util.Hash]int32{pubcoin: 50},
	}
	dup := ScreenDuplicates(c, 100, []*tx.Tx{txA})
	assert.Contains(t, dup, txA.Hash)
}

type fakeUTXOMissing struct {
	present tx.OutPoint
}

func (f fakeUTXOMissing) HaveInputs(out tx.OutPoint) bool {
	return out == f.present
}

func TestRebuildWithoutDuplicatesPreservesOrderAndDropsMissingInputs(t *testing.T) {
	ok := &tx.Tx{Hash: util.DoubleSha256([]byte("ok")), Ins: []tx.TxIn{{PrevOut: tx.OutPoint{Hash: util.DoubleSha256([]byte("p"))}}}}
	dup := &tx.Tx{Hash: util.DoubleSha256([]byte("dup"))}
	missing := &tx.Tx{Hash: util.DoubleSha256([]byte("missing")), Ins: []tx.TxIn{{PrevOut: tx.OutPoint{Hash: util.DoubleSha256([]byte("gone"))}}}}

	duplicates := map[util.Hash]struct{}{dup.Hash: {}}
	out := RebuildWithoutDuplicates([]*tx.Tx{ok, dup, missing}, duplicates, fakeUTXOMissing{present: ok.Ins[0].PrevOut})

	assert.Len(t, out, 1)
	assert.Equal(t, ok.Hash, out[0].Hash)
}

func TestRebuildWithoutDuplicatesKeepsPrivacySpendsRegardlessOfUTXO(t *testing.T) {
	spend := &tx.Tx{Hash: util.DoubleSha256([]byte("spend")), Kind: tx.KindSpend}
	out := RebuildWithoutDuplicates([]*tx.Tx{spend}, map[util.Hash]struct{}{}, fakeUTXOMissing{})
	assert.Len(t, out, 1)
}
