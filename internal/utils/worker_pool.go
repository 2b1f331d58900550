package utils

import (
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines. A pool serves
// one collection pass: once Shutdown returns, every submitted task has run
// and the pool cannot be reused.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewWorkerPool starts workers goroutines (at least one). The task queue
// holds two tasks per worker so submitters rarely block on a busy pool.
func NewWorkerPool(workers int) *WorkerPool {
	workers = max(workers, 1)
	pool := &WorkerPool{tasks: make(chan func(), workers*2)}

	pool.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task()
			}
		}()
	}
	return pool
}

// Submit queues task, blocking while the queue is full.
func (wp *WorkerPool) Submit(task func()) {
	wp.tasks <- task
}

// Shutdown closes the queue and waits for the workers to drain it.
func (wp *WorkerPool) Shutdown() {
	close(wp.tasks)
	wp.wg.Wait()
}
