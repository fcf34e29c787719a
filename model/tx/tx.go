// Package tx models the minimal transaction surface the assembler and
// selector need. Full script evaluation, signature schemes, and
// zero-knowledge proof internals are out of scope (spec.md Non-goals);
// this type only carries what §3/§4.3/§8 require.
package tx

import "github.com/zzhertzmon/veil/util"

// Kind distinguishes the privacy extension's transaction shapes from
// ordinary transactions (spec glossary "Privacy spend / mint").
type Kind int

const (
	// KindStandard is an ordinary, non-privacy transaction.
	KindStandard Kind = iota
	// KindSpend references one or more zero-knowledge serial numbers.
	KindSpend
	// KindMint produces one or more zero-knowledge pubcoins.
	KindMint
)

// TxIn is a transaction input. PrevOut.Hash == util.HashZero identifies a
// coinbase input; AnonymousIndex >= 0 identifies an anonymous (privacy
// spend) input whose prevout is not a concrete UTXO.
type TxIn struct {
	PrevOut        OutPoint
	ScriptSig      []byte
	Sequence       uint32
	AnonymousIndex int
}

// OutPoint identifies a previous output being spent.
type OutPoint struct {
	Hash  util.Hash
	Index uint32
}

// TxOut is a transaction output.
type TxOut struct {
	Value        util.Amount
	ScriptPubKey []byte
	// IsStandard mirrors the teacher's IsStandardOutput predicate; a
	// non-standard output is never matched against the reserve address
	// (spec §9 open question (c)).
	IsStandard bool
}

// Tx is the trimmed transaction model consumed by the core.
type Tx struct {
	Hash     util.Hash
	Size     int
	SigOps   int
	LockTime uint32
	Ins      []TxIn
	Outs     []TxOut

	// HasWitness marks a transaction carrying witness data, needed by
	// TestFinality's "no witness when witness disabled" rule.
	HasWitness bool

	// Kind and the extracted serial/pubcoin hashes back the privacy
	// screening step (spec §4.3 step 8).
	Kind            Kind
	SerialHashes    []util.Hash
	PubcoinHashes   []util.Hash
}

// IsCoinBase reports whether tx is a coinbase transaction: exactly one
// input with a null prevout.
func (t *Tx) IsCoinBase() bool {
	return len(t.Ins) == 1 && t.Ins[0].PrevOut.Hash.IsZero()
}

// IsFinal reports whether tx may be included at height. A zero locktime,
// or a locktime below the cutoff (height when locktime < 500000000,
// lockTimeCutoff otherwise), is final; any other tx is final only if
// every input's sequence is 0xffffffff.
func (t *Tx) IsFinal(height int32, lockTimeCutoff int64) bool {
	if t.LockTime == 0 {
		return true
	}
	cutoff := lockTimeCutoff
	if t.LockTime < 500000000 {
		cutoff = int64(height)
	}
	if int64(t.LockTime) < cutoff {
		return true
	}
	for _, in := range t.Ins {
		if in.Sequence != 0xffffffff {
			return false
		}
	}
	return true
}
