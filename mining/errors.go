// Package mining implements the Resource Accounting, Package Selector, and
// Block Assembler components (spec §4.1-§4.3).
package mining

import "github.com/pkg/errors"

// The §7 error taxonomy. All of these surface as a nil template plus a
// log line; callers never see exceptions cross a component boundary.
var (
	// ErrWalletUnavailable is returned when a PoS template is requested
	// with no main wallet present.
	ErrWalletUnavailable = errors.New("mining: wallet unavailable")

	// ErrCoinstakeFailed is returned when the wallet could not produce a
	// stake for the requested template.
	ErrCoinstakeFailed = errors.New("mining: coinstake creation failed")

	// ErrMempoolBusy is returned when the non-blocking mempool guard
	// could not be acquired.
	ErrMempoolBusy = errors.New("mining: mempool busy")

	// ErrTemplateInvalid is returned when the pre-submit validity check
	// fails.
	ErrTemplateInvalid = errors.New("mining: template failed validity check")

	// ErrSignFailed is returned when PoS block signing fails (missing
	// key or signature failure).
	ErrSignFailed = errors.New("mining: block signing failed")

	// ErrPoSNotActive is returned when a PoS template is requested before
	// the configured PoS start height.
	ErrPoSNotActive = errors.New("mining: proof-of-stake not yet active at this height")
)
