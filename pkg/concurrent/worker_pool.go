package concurrent

import (
	"sync"
)

type JobFunc[T any] func(job T) error

// WorkerPool. fixed-size pool draining a buffered job queue. Used for
// best-effort background work (tile pre-caching), so per-job errors are
// reported through the errFunc callback instead of a results channel.
type WorkerPool[T any] struct {
	numWorkers int
	jobQueue   chan T
	wg         sync.WaitGroup
}

func NewWorkerPool[T any](numWorkers, jobQueueSize int) *WorkerPool[T] {
	return &WorkerPool[T]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
	}
}

func (wp *WorkerPool[T]) worker(jobFunc JobFunc[T], errFunc func(job T, err error)) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if err := jobFunc(job); err != nil && errFunc != nil {
			errFunc(job, err)
		}
	}
}

func (wp *WorkerPool[T]) Start(jobFunc JobFunc[T], errFunc func(job T, err error)) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc, errFunc)
	}
}

// AddJob enqueues without blocking. Returns false when the queue is full,
// callers treat a full queue as a skipped best-effort job.
func (wp *WorkerPool[T]) AddJob(job T) bool {
	select {
	case wp.jobQueue <- job:
		return true
	default:
		return false
	}
}

func (wp *WorkerPool[T]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T]) Wait() {
	wp.wg.Wait()
}
