package util

// Amount is a count of the smallest indivisible unit of currency, mirroring
// the teacher's utils.Amount. A negative value (-1) is used internally by
// the template's per-tx fee slice to mark the coinstake slot.
type Amount int64

const (
	// COIN is the number of Amount units in one whole coin.
	COIN Amount = 100000000
	// MaxMoney is the maximum number of Amount units that can ever exist.
	MaxMoney Amount = 21000000 * COIN
)

// MaxNetworkReward caps the network-reward reserve carried across blocks
// (spec §4.3 step 7 / §8 scenario 5).
const MaxNetworkReward Amount = 21000000 * COIN
