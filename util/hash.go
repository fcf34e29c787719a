package util

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"math/big"

	"golang.org/x/crypto/ripemd160"
)

const (
	// Hash256Size is the length in bytes of a double-sha256 digest.
	Hash256Size = 32
	// Hash160Size is the length in bytes of a Hash160 digest.
	Hash160Size = 20
)

// Hash is a double-sha256 digest, stored internal byte order (not reversed
// for display, unlike the hex string form returned by String).
type Hash [Hash256Size]byte

// HashZero is the all-zero hash, used for null prevouts and the genesis
// block's hashPrevBlock.
var HashZero = Hash{}

func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// DoubleSha256 returns sha256(sha256(b)).
func DoubleSha256(b []byte) Hash {
	first := calcHash(b, sha256.New())
	second := calcHash(first, sha256.New())
	var h Hash
	copy(h[:], second)
	return h
}

// Hash160 calculates ripemd160(sha256(b)), the digest used for payout
// script pubkey/script hashes.
func Hash160(b []byte) []byte {
	return calcHash(calcHash(b, sha256.New()), ripemd160.New())
}

// Sha1Sum returns the 20-byte SHA-1 digest of buf.
func Sha1Sum(buf []byte) [20]byte {
	return sha1.Sum(buf)
}

// String renders the hash in the conventional reversed-byte-order hex form.
func (h Hash) String() string {
	reversed := make([]byte, Hash256Size)
	for i := 0; i < Hash256Size; i++ {
		reversed[i] = h[Hash256Size-1-i]
	}
	return hex.EncodeToString(reversed)
}

// Cmp provides a total order over hashes, used as the selector's stable
// tie-break key.
func (h Hash) Cmp(other Hash) int {
	return new(big.Int).SetBytes(h[:]).Cmp(new(big.Int).SetBytes(other[:]))
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == HashZero
}
