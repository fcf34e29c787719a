package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockAdjustedNetworkTime(t *testing.T) {
	c := &MockClock{Seconds: 1000, Offset: 5}
	assert.Equal(t, int64(1005), c.AdjustedNetworkTime())
	assert.Equal(t, int64(1000), c.WallClockSeconds())
}

func TestMockClockSleepRecordsDuration(t *testing.T) {
	c := &MockClock{}
	c.Sleep(2 * time.Second)
	c.Sleep(3 * time.Second)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, c.Slept)
}

func TestMockClockRandInt(t *testing.T) {
	c := &MockClock{Rand: 7}
	assert.Equal(t, 2, c.RandInt(5))
	assert.Equal(t, 0, c.RandInt(0))
}

var _ Clock = (*MockClock)(nil)
var _ Clock = (*SystemClock)(nil)
