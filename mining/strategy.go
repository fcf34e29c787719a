package mining

import "github.com/zzhertzmon/veil/util"

// Strategy selects the ancestor-aggregate ordering key the package
// selector sorts candidates by (spec §4.2), grounded on the teacher's
// sortByFee/sortByFeeRate split (model/mining/strategy.go). The zero
// value is SortByFeeRate, matching the teacher's defaultSortStrategy.
type Strategy int

const (
	// SortByFeeRate orders packages by ancestor feerate (fee per kB of
	// size), descending. This is the default.
	SortByFeeRate Strategy = iota
	// SortByFee orders packages by raw ancestor fee, descending,
	// ignoring size.
	SortByFee
)

// ParseStrategy maps the conf.AppConfig.Strategy string ("ancestorfee" /
// "ancestorfeerate") to a Strategy, falling back to SortByFeeRate for any
// unrecognized value, matching the teacher's init-time fallback behavior
// (model/mining/strategy.go's strategies map plus its "not exist, so use
// default" log line) minus the package-init global state.
func ParseStrategy(s string) Strategy {
	switch s {
	case "ancestorfee":
		return SortByFee
	case "ancestorfeerate":
		return SortByFeeRate
	default:
		return SortByFeeRate
	}
}

// key returns this strategy's comparison value for an ancestor aggregate:
// raw fee under SortByFee, feerate (satoshis/kB) under SortByFeeRate.
func (s Strategy) key(fee util.Amount, size int64) int64 {
	if s == SortByFee {
		return int64(fee)
	}
	return util.NewFeeRateWithSize(fee, size).SatoshisPerK
}
