// Package executor runs submitted tasks on a bounded number of goroutines and
// joins them before the caller moves on. There is no cancellation or timeout:
// Wait blocks until every submitted task has returned.
package executor

import (
	stderrors "errors"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// ErrClosed is returned for tasks submitted after Wait started.
var ErrClosed = stderrors.New("executor: pool closed")

// Pool bounds concurrent task execution. Submission never blocks; tasks queue
// on a semaphore.
type Pool struct {
	sem chan struct{}

	mu       sync.Mutex
	wg       sync.WaitGroup
	closed   bool
	firstErr error
}

// New creates a pool running at most concurrency tasks at once.
func New(concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{sem: make(chan struct{}, concurrency)}
}

// Future is the eventual result of a submitted task.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Get blocks until the task finished and returns its result.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Submit schedules fn on p. A panic inside fn is returned as an internal error.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		f.err = ErrClosed
		close(f.done)
		return f
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		f.value, f.err = run(fn)
		p.record(f.err)
		close(f.done)
	}()
	return f
}

func run[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError("task panicked").WithCause(fmt.Errorf("%v", r)).Build()
		}
	}()
	return fn()
}

func (p *Pool) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil && p.firstErr == nil {
		p.firstErr = err
	}
}

// Wait closes the pool to new submissions, waits for every submitted task
// and returns the first error that occurred.
func (p *Pool) Wait() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}
