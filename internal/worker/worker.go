package worker

import (
	"context"
	"log"
	"runtime"
	"sync"
)

// Task is a unit of background work.
type Task interface {
	Execute()
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func()

func (f TaskFunc) Execute() { f() }

// Pool is a fixed-size goroutine pool with a bounded queue.
type Pool struct {
	workers int
	queue   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewPool creates a pool. Non-positive arguments fall back to defaults.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if queueSize <= 0 {
		queueSize = 1000
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		queue:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.started = true
	log.Printf("Worker pool started with %d workers", p.workers)
}

// Stop signals the workers to exit and waits for running tasks to
// finish. Queued tasks that never started are dropped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	log.Println("Worker pool stopped")
}

// Submit enqueues a task without blocking. A full queue or a stopped pool
// drops the task.
func (p *Pool) Submit(task Task) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case p.queue <- task:
		return true
	default:
		log.Println("WARN: Worker pool queue is full, task dropped")
		return false
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.executeTask(task)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) executeTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic recovered in worker task: %v", r)
		}
	}()
	task.Execute()
}
