package world

import "sync"

// workerPool runs generation and mesh-compilation tasks on a fixed set
// of goroutines. Submission never blocks: when the queue is full the
// task is rejected and the caller retries on a later tick.
type workerPool struct {
	mu     sync.RWMutex
	closed bool
	jobs   chan func()
	wg     sync.WaitGroup
}

func newWorkerPool(workers, queueSize int) *workerPool {
	p := &workerPool{jobs: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// TrySubmit queues a task, reporting whether it was accepted. Rejected
// after Close or when the queue is full.
func (p *workerPool) TrySubmit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Close stops accepting work and waits for queued tasks to finish. The
// read lock held by in-flight submissions keeps the channel open until
// they complete.
func (p *workerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
}
