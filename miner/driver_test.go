package miner

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancelTokenIdempotent(t *testing.T) {
	c := NewCancelToken()
	assert.False(t, c.Cancelled())
	c.Cancel()
	c.Cancel()
	assert.True(t, c.Cancelled())
	select {
	case <-c.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestThreadGroupStartStopLifecycle(t *testing.T) {
	g := NewThreadGroup()
	var running int32
	g.StartGeneration(3, func(cancel *CancelToken, worker int) {
		atomic.AddInt32(&running, 1)
		<-cancel.Done()
		atomic.AddInt32(&running, -1)
	})
	assert.True(t, g.Running())

	g.StopGeneration()
	assert.False(t, g.Running())
	assert.Equal(t, int32(0), atomic.LoadInt32(&running))
}

func TestThreadGroupRestartReplacesWorkers(t *testing.T) {
	g := NewThreadGroup()
	started := make(chan int, 10)
	g.StartGeneration(2, func(cancel *CancelToken, worker int) {
		started <- worker
		<-cancel.Done()
	})
	time.Sleep(20 * time.Millisecond)

	g.StartGeneration(1, func(cancel *CancelToken, worker int) {
		started <- 100 + worker
		<-cancel.Done()
	})
	assert.True(t, g.Running())
	g.StopGeneration()
	assert.False(t, g.Running())
}

func TestThreadGroupZeroThreadsStopsGeneration(t *testing.T) {
	g := NewThreadGroup()
	g.StartGeneration(1, func(cancel *CancelToken, worker int) { <-cancel.Done() })
	assert.True(t, g.Running())
	g.StartGeneration(0, nil)
	assert.False(t, g.Running())
}
