package util

import "fmt"

// FeeRate expresses a fee in Amount units per kilobyte, the same
// representation the teacher's utils.FeeRate uses, and the unit the
// ancestor-feerate comparator (spec §4.2, §9) sorts by.
type FeeRate struct {
	SatoshisPerK int64
}

// NewFeeRate builds a FeeRate directly from a per-kB amount.
func NewFeeRate(amount int64) FeeRate {
	return FeeRate{SatoshisPerK: amount}
}

// NewFeeRateWithSize derives a FeeRate from a total fee paid over a size in
// bytes, the form used for ancestor-aggregated packages.
func NewFeeRateWithSize(feePaid Amount, bytes int64) FeeRate {
	if bytes <= 0 {
		return FeeRate{}
	}
	return FeeRate{SatoshisPerK: int64(feePaid) * 1000 / bytes}
}

// GetFee returns the fee for a given size in bytes.
func (r FeeRate) GetFee(bytes int64) Amount {
	fee := r.SatoshisPerK * bytes / 1000
	if fee == 0 && bytes != 0 {
		if r.SatoshisPerK > 0 {
			fee = 1
		} else if r.SatoshisPerK < 0 {
			fee = -1
		}
	}
	return Amount(fee)
}

// Less reports whether r is a strictly lower feerate than other, used by the
// optional minimum-feerate gate (spec §4.2 "Minimum-feerate gate").
func (r FeeRate) Less(other FeeRate) bool {
	return r.SatoshisPerK < other.SatoshisPerK
}

func (r FeeRate) String() string {
	return fmt.Sprintf("%d.%08d BTC/kB", r.SatoshisPerK/int64(COIN), r.SatoshisPerK%int64(COIN))
}
