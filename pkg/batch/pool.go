// Package batch parses many sources concurrently. Every job gets its own
// parser and interner, so workers share nothing but the queues.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/parser"
	"github.com/nooga/esfront/pkg/source"
)

// Job is one source to parse.
type Job struct {
	ID     int // caller-assigned, echoed in the Result
	Source *source.SourceFile
	Strict bool
}

// Result is the outcome of a Job. Err is the first syntax or early error.
type Result struct {
	ID       int
	Source   *source.SourceFile
	Script   *ast.Script
	Interner *interner.Interner
	Err      error
	Duration time.Duration
	WorkerID int
}

// Stats summarises the work done by a Pool.
type Stats struct {
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int
	FailedJobs    int
	AverageTime   time.Duration
	TotalTime     time.Duration
	WorkerCount   int
}

// Config sizes a Pool. Zero values pick defaults.
type Config struct {
	Workers      int // runtime.NumCPU() when zero
	JobBuffer    int
	ResultBuffer int
	Logger       *zap.Logger
}

// Pool runs parse jobs on a fixed set of worker goroutines.
type Pool struct {
	cfg Config
	log *zap.Logger

	jobs    chan *Job
	results chan *Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats   Stats
	statsMu sync.RWMutex
}

// NewPool creates a stopped pool.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{cfg: cfg, log: log}
}

// Start launches the workers. Cancelling ctx stops them after their
// current job.
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobs = make(chan *Job, p.cfg.JobBuffer)
	p.results = make(chan *Result, p.cfg.ResultBuffer)
	p.stats = Stats{WorkerCount: p.cfg.Workers}

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.log.Debug("worker pool started", zap.Int("workers", p.cfg.Workers))
	return nil
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job *Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&p.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}
	select {
	case p.jobs <- job:
		atomic.AddInt32(&p.activeJobs, 1)
		p.statsMu.Lock()
		p.stats.TotalJobs++
		p.statsMu.Unlock()
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results delivers one Result per submitted job, in completion order. It is
// closed by a successful Shutdown.
func (p *Pool) Results() <-chan *Result { return p.results }

// Shutdown stops accepting jobs and waits for the queued ones to finish.
// Results must be drained concurrently or the wait can block. If ctx ends
// first, the workers are cancelled and the remaining jobs are dropped. Either
// way Results is closed once Shutdown returns.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(p.results)
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log.Debug("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		p.log.Debug("worker pool cancelled", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := p.process(id, job)
			p.record(res)
			atomic.AddInt32(&p.activeJobs, -1)

			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) process(worker int, job *Job) *Result {
	start := time.Now()
	ps := parser.New(job.Source, parser.WithStrict(job.Strict), parser.WithLogger(p.log))
	script, err := ps.ParseScript()
	res := &Result{
		ID:       job.ID,
		Source:   job.Source,
		Script:   script,
		Interner: ps.Interner(),
		Err:      err,
		Duration: time.Since(start),
		WorkerID: worker,
	}
	if err != nil {
		p.log.Debug("parse failed",
			zap.String("source", job.Source.DisplayPath()),
			zap.Int("worker", worker),
			zap.Error(err),
		)
	}
	return res
}

func (p *Pool) record(res *Result) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	if res.Err == nil {
		p.stats.CompletedJobs++
	} else {
		p.stats.FailedJobs++
	}
	p.stats.TotalTime += res.Duration
	p.stats.AverageTime = p.stats.TotalTime / time.Duration(p.stats.CompletedJobs+p.stats.FailedJobs)
}

// ParseAll parses every source with a temporary pool and returns the
// results in input order. It fails rather than return a partial slice when
// ctx is cancelled before every source has been parsed.
func ParseAll(ctx context.Context, sources []*source.SourceFile, strict bool, cfg Config) ([]*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pool := NewPool(cfg)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	out := make([]*Result, len(sources))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range pool.Results() {
			out[res.ID] = res
		}
	}()

	var submitErr error
	for i, src := range sources {
		if submitErr = pool.Submit(&Job{ID: i, Source: src, Strict: strict}); submitErr != nil {
			break
		}
	}
	shutdownErr := pool.Shutdown(ctx)
	<-collected
	switch {
	case submitErr != nil:
		return nil, submitErr
	case shutdownErr != nil:
		return nil, shutdownErr
	}
	for i, res := range out {
		if res == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("no result for source %d", i)
		}
	}
	return out, nil
}
