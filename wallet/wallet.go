// Package wallet declares the Wallet collaborator interface (spec §6).
// Wallet key management is an explicit Non-goal; no implementation lives
// here. Interface method names are grounded on model/wallet/wallet.go
// (teacher) where they overlap (IsLocked), extended per spec §6.
package wallet

import (
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// Wallet is the external collaborator the PoS assembler path and PoS
// driver consume.
type Wallet interface {
	// CreateCoinStake asks the wallet to produce a stake transaction
	// against prevIndex at the given difficulty, returning the
	// coinstake and the resulting block timestamp (spec §4.3 step 2).
	CreateCoinStake(prevIndex *chain.Index, nBits uint32) (coinstake *tx.Tx, newTime int64, err error)

	// MintableCoins reports whether the wallet currently holds any
	// stake-eligible output.
	MintableCoins() bool

	IsStakingEnabled() bool
	IsLocked() bool
	IsUnlockedForStakingOnly() bool

	// GetZerocoinKey returns the private key keyed by a spend's serial
	// number, used when signing a PoS block (spec §4.3 step 17).
	GetZerocoinKey(serial util.Hash) ([]byte, error)

	// Sign produces the block signature over blockHash.
	Sign(blockHash util.Hash) ([]byte, error)

	// ReserveScript reserves a fresh payout script for a PoW template and
	// returns it plus a keep function the driver calls on block
	// acceptance (spec §6 "reserveScript lifecycle").
	ReserveScript() (script []byte, keep func(), err error)
}

// MainWallet is the collaborator surface for "is a main wallet present":
// the PoS assembler path fails with ErrWalletUnavailable when this
// returns nil (spec §7 WalletUnavailable).
type MainWallet interface {
	Main() Wallet
}
