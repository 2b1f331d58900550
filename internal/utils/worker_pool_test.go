package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(4)

	var done atomic.Int64
	for i := 0; i < 1000; i++ {
		pool.Submit(func() { done.Add(1) })
	}
	pool.Shutdown()

	assert.Equal(t, int64(1000), done.Load())
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(3)

	var running, peak atomic.Int64
	release := make(chan struct{})
	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
		})
	}
	close(release)
	pool.Shutdown()

	assert.LessOrEqual(t, peak.Load(), int64(3))
	assert.Zero(t, running.Load())
}

func TestNewWorkerPool_AtLeastOneWorker(t *testing.T) {
	for _, workers := range []int{0, -3} {
		pool := NewWorkerPool(workers)

		ran := false
		pool.Submit(func() { ran = true })
		pool.Shutdown()
		assert.True(t, ran, "workers=%d", workers)
	}
}
