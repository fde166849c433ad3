package daemons

import (
	"context"
	"sync"
)

type DaemonFunc func(ctx context.Context, workerID int, totalWorkers int)

// DaemonPool runs workersCount copies of a daemon until Stop.
type DaemonPool struct {
	daemonFunc	DaemonFunc
	workersCount	int
	wg		sync.WaitGroup
	ctx		context.Context
	cancel		context.CancelFunc
	mu		sync.Mutex
	started		bool
}

func NewPool(ctx context.Context, numWorkers int, daemon DaemonFunc) *DaemonPool {
	ctx, cancel := context.WithCancel(ctx)
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &DaemonPool{
		daemonFunc:	daemon,
		workersCount:	numWorkers,
		ctx:		ctx,
		cancel:		cancel,
	}
}

// Start is a no-op on an already started pool.
func (p *DaemonPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	count := p.workersCount
	for i := 0; i < count; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.daemonFunc(p.ctx, id, count)
		}(i)
	}
}

func (p *DaemonPool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *DaemonPool) GetWorkerCount() int {
	return p.workersCount
}
