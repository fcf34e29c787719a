package mining

import (
	"github.com/zzhertzmon/veil/log"
	"github.com/zzhertzmon/veil/model/chain"
	"github.com/zzhertzmon/veil/model/tx"
	"github.com/zzhertzmon/veil/util"
)

// ScreenDuplicates implements spec §4.3 step 8: for every included
// privacy tx, flag it as a duplicate if any of its serials/pubcoins
// collide with another included tx or with already-confirmed chain state
// at a lower height. No teacher equivalent exists (copernicus carries no
// privacy-tx concept); grounded on original_source/src/miner.cpp's
// zerocoin duplicate-check loop, expressed in the teacher's idiom: plain
// error-free scanning, loop-and-flag, no exceptions.
func ScreenDuplicates(c chain.Chain, height int32, txs []*tx.Tx) map[util.Hash]struct{} {
	duplicate := make(map[util.Hash]struct{})
	seenSerials := make(map[util.Hash]util.Hash)  // serial -> owning tx hash
	seenPubcoins := make(map[util.Hash]util.Hash) // pubcoin -> owning tx hash

	for _, t := range txs {
		switch t.Kind {
		case tx.KindSpend:
			for _, serial := range t.SerialHashes {
				if owner, ok := seenSerials[serial]; ok && owner != t.Hash {
					duplicate[t.Hash] = struct{}{}
					log.Debug("mining: duplicate serial in tx %s (conflicts with %s)", t.Hash, owner)
					continue
				}
				if confirmed, at := c.IsSerialConfirmed(serial); confirmed && at < height {
					duplicate[t.Hash] = struct{}{}
					log.Debug("mining: serial in tx %s already confirmed at height %d", t.Hash, at)
					continue
				}
				seenSerials[serial] = t.Hash
			}
		case tx.KindMint:
			for _, pubcoin := range t.PubcoinHashes {
				if owner, ok := seenPubcoins[pubcoin]; ok && owner != t.Hash {
					duplicate[t.Hash] = struct{}{}
					log.Debug("mining: duplicate pubcoin in tx %s (conflicts with %s)", t.Hash, owner)
					continue
				}
				if confirmed, at := c.IsPubcoinConfirmed(pubcoin); confirmed && at < height {
					duplicate[t.Hash] = struct{}{}
					log.Debug("mining: pubcoin in tx %s already confirmed at height %d", t.Hash, at)
					continue
				}
				seenPubcoins[pubcoin] = t.Hash
			}
		}
	}
	return duplicate
}

// RebuildWithoutDuplicates implements spec §4.3 step 9: drop duplicates
// and any tx whose inputs are missing from the UTXO view (except privacy
// spends/anonymous inputs, verified through their own proofs), preserving
// original order.
func RebuildWithoutDuplicates(txs []*tx.Tx, duplicate map[util.Hash]struct{}, utxo chain.UTXOView) []*tx.Tx {
	out := make([]*tx.Tx, 0, len(txs))
	for _, t := range txs {
		if _, dup := duplicate[t.Hash]; dup {
			continue
		}
		if !chain.TxInputsAvailable(t, utxo) {
			continue
		}
		out = append(out, t)
	}
	return out
}
