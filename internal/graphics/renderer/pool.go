package renderer

import (
	"context"
	"sync"
)

// rowJob asks a worker to shade one image row
type rowJob struct {
	y    int
	fn   func(y int)
	done *sync.WaitGroup
}

// rowPool is a fixed set of goroutines shading rows for the current frame.
// A frame is a fork-join: Run queues every row and waits for all of them.
type rowPool struct {
	jobQueue chan rowJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func newRowPool(workers int) *rowPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &rowPool{
		jobQueue: make(chan rowJob, workers*4),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for range workers {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// Run shades rows [0, height) with fn and returns once every row finished.
// After Shutdown the rows are shaded on the calling goroutine.
func (p *rowPool) Run(height int, fn func(y int)) {
	if p.ctx.Err() != nil {
		for y := range height {
			fn(y)
		}
		return
	}

	var done sync.WaitGroup
	done.Add(height)
	for y := range height {
		p.jobQueue <- rowJob{y: y, fn: fn, done: &done}
	}
	done.Wait()
}

func (p *rowPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			job.fn(job.y)
			job.done.Done()
		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops all workers. It must not race with Run.
func (p *rowPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
