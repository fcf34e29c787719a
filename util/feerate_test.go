package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFeeRateWithSize(t *testing.T) {
	fr := NewFeeRateWithSize(200, 100)
	assert.Equal(t, int64(2000), fr.SatoshisPerK)
}

func TestFeeRateGetFee(t *testing.T) {
	fr := NewFeeRate(1000)
	assert.Equal(t, Amount(500), fr.GetFee(500))
}

func TestFeeRateLess(t *testing.T) {
	low := NewFeeRate(100)
	high := NewFeeRate(200)
	assert.True(t, low.Less(high))
	assert.False(t, high.Less(low))
}

func TestAncestorFeeRateOrdering(t *testing.T) {
	// Scenario from spec §8 end-to-end #1: A(fee=100,size=100),
	// B(fee=200,size=100,parent=A); ancestor-aware feerate of {A,B} =
	// 300/200 = 1.5 beats C(fee=50,size=100)'s 0.5.
	ab := NewFeeRateWithSize(300, 200)
	c := NewFeeRateWithSize(50, 100)
	assert.True(t, c.Less(ab))
}
