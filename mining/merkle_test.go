package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

func TestComputeMerkleRootEmpty(t *testing.T) {
	assert.Equal(t, util.HashZero, computeMerkleRoot(nil))
}

func TestComputeMerkleRootSingleLeaf(t *testing.T) {
	leaf := util.DoubleSha256([]byte("only"))
	assert.Equal(t, leaf, computeMerkleRoot([]util.Hash{leaf}))
}

func TestComputeMerkleRootPairHashesParent(t *testing.T) {
	a := util.DoubleSha256([]byte("a"))
	b := util.DoubleSha256([]byte("b"))
	want := util.DoubleSha256(append(append([]byte{}, a[:]...), b[:]...))
	assert.Equal(t, want, computeMerkleRoot([]util.Hash{a, b}))
}

func TestComputeMerkleRootOddCountDuplicatesLast(t *testing.T) {
	a := util.DoubleSha256([]byte("a"))
	b := util.DoubleSha256([]byte("b"))
	c := util.DoubleSha256([]byte("c"))
	ab := util.DoubleSha256(append(append([]byte{}, a[:]...), b[:]...))
	cc := util.DoubleSha256(append(append([]byte{}, c[:]...), c[:]...))
	want := util.DoubleSha256(append(append([]byte{}, ab[:]...), cc[:]...))
	assert.Equal(t, want, computeMerkleRoot([]util.Hash{a, b, c}))
}

func TestRecomputeHashAndMerkleKeepsWitnessRootInSync(t *testing.T) {
	tmpl := newTemplate()
	cb := &tx.Tx{Ins: []tx.TxIn{{ScriptSig: []byte{1, 2, 3}}}}
	tmpl.Block.Txs = []*tx.Tx{cb}
	tmpl.Block.Header.WitnessMerkleRoot = util.DoubleSha256([]byte("placeholder"))

	RecomputeHashAndMerkle(tmpl)

	assert.False(t, tmpl.Block.Txs[0].Hash.IsZero())
	assert.Equal(t, tmpl.Block.Header.MerkleRoot, tmpl.Block.Header.WitnessMerkleRoot)
}
