package worker

import (
	"sync"
)

type task func()

// Pool is a bounded fire-and-forget executor for side effects that must not
// block a request (notification inserts and the like).
type Pool struct {
	wg      sync.WaitGroup
	jobs    chan task
	onDepth func(int)
}

// NewPool starts n workers. onDepth, when non-nil, receives the queue depth
// after every enqueue/dequeue (wired to a metrics gauge in main).
func NewPool(n int, onDepth func(int)) *Pool {
	p := &Pool{jobs: make(chan task, 1024), onDepth: onDepth}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				p.reportDepth()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	p.jobs <- f
	p.reportDepth()
}

// Stop closes the queue and waits for queued jobs to drain.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Pool) reportDepth() {
	if p.onDepth != nil {
		p.onDepth(len(p.jobs))
	}
}
