// Package miner implements the PoW and PoS Miner Driver loops (spec §4.4,
// §5): the cooperative-cancellation shared loop body, the process-wide
// extra-nonce state, and the thread-group lifecycle. Grounded on the
// teacher's mining package (which stops at CreateNewBlock — it has no
// standalone driver goroutine) for naming/error conventions, and on
// jaxnet-lab-jaxnetd's node/mining/cpuminer/cpuminer.go for the actual
// worker-loop/quit-channel shape, since that is the only pack example of a
// real PoW mining goroutine.
package miner

import "github.com/pkg/errors"

// ErrCancelled is returned when a driver loop observes cooperative
// cancellation (spec §7 "Cancelled").
var ErrCancelled = errors.New("miner: cancelled")
