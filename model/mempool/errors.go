package mempool

import "github.com/pkg/errors"

// errTooManyAncestors is returned by Ancestors when the exact ancestor set
// has more members than the caller's maxCount. InMemory does not check the
// size, sigop or descendant limits.
var errTooManyAncestors = errors.New("mempool: ancestor set exceeds limits")
