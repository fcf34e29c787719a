// Package accumulator declares the Accumulator collaborator interface
// (spec §6). Zero-knowledge proof internals are an explicit Non-goal; no
// implementation lives here.
package accumulator

import "github.com/zzhertzmon/veil/util"

// Accumulator is the privacy-scheme cryptographic accumulator collaborator.
type Accumulator interface {
	// CalculateCheckpoint recomputes the checkpoint digest for height,
	// mutating mapInOut in place (spec §4.3 step 14, §6).
	CalculateCheckpoint(height int32, mapInOut map[uint32]util.Hash) error

	// GetCheckpoints returns every known checkpoint, or only the most
	// recent one when all is false.
	GetCheckpoints(all bool) map[uint32]util.Hash
}
