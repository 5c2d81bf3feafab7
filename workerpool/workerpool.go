// Package workerpool runs fire-and-forget background work (audit writes,
// notifications) on a fixed number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when submitting to a closed pool
var ErrClosed = errors.New("worker pool is closed")

// ErrQueueFull is returned by TrySubmit when the queue has no room
var ErrQueueFull = errors.New("worker pool queue is full")

// Task is one unit of work. ResultC is optional.
type Task struct {
	Fn      func(ctx context.Context) (any, error)
	ResultC chan Result
}

// Result carries the outcome of a Task
type Result struct {
	Value any
	Err   error
}

// WorkerPool executes tasks on workerCount goroutines
type WorkerPool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool with workerCount workers and a queue of queueSize
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		res, err := task.Fn(wp.ctx)
		if task.ResultC != nil {
			task.ResultC <- Result{Value: res, Err: err}
		}
	}
}

// Submit queues a task, blocking while the queue is full
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrClosed
	}
	wp.tasks <- task
	return nil
}

// TrySubmit queues a task or fails immediately when the queue is full
func (wp *WorkerPool) TrySubmit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrClosed
	}
	select {
	case wp.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Go queues fn without a result channel
func (wp *WorkerPool) Go(fn func(ctx context.Context) error) error {
	return wp.TrySubmit(Task{Fn: func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	}})
}

// Close stops accepting tasks, drains the queue and waits for the workers.
// The context passed to tasks is cancelled once the queue is drained.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.cancel()
}
