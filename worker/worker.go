package worker

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/motion/oerror"
)

// Pool runs submitted functions on a fixed number of goroutines. A panicking function is
// recovered, reported to sentry and to the panic handler of the pool, and does not take its
// goroutine down.
type Pool struct {
	queue   chan func()
	workers sync.WaitGroup
	once    sync.Once

	onPanic func(err error)
}

// NewPool starts a pool of n goroutines, or one per CPU if n is not positive. onPanic may be
// nil.
func NewPool(n int, onPanic func(err error)) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n), onPanic: onPanic}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = oerror.New("%v", r)
			}
			sentry.CurrentHub().Recover(err)
			if p.onPanic != nil {
				p.onPanic(fmt.Errorf("worker panic: %w", err))
			}
		}
	}()
	f()
}

// Submit queues f. It blocks while every goroutine is busy and the queue is full.
// To be used by a function that may be CPU intensive.
func (p *Pool) Submit(f func()) {
	p.queue <- f
}

// Run calls f for every index in [0, n) on the pool and waits for all calls to return.
func (p *Pool) Run(n int, f func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			defer wg.Done()
			f(i)
		})
	}
	wg.Wait()
}

// Close stops accepting work and waits for queued functions to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
		p.workers.Wait()
	})
}
