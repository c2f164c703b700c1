package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const name = "github.com/hearth-web/hearth/pool"

var (
	ErrNoWorkers = errors.New("pool: at least one worker is required")
	ErrClosed    = errors.New("pool: submit on a stopped pool")
	ErrNilJob    = errors.New("pool: nil job")
)

var (
	outcomeOK    = metric.WithAttributes(attribute.String("outcome", "ok"))
	outcomePanic = metric.WithAttributes(attribute.String("outcome", "panic"))
)

// Job is a unit of work. Every submitted job is executed exactly once by exactly one
// worker.
type Job func()

// Pool is a fixed set of workers consuming jobs from a shared queue.
type Pool struct {
	queue         chan Job
	queueSize     int
	mu            sync.RWMutex
	closed        bool
	wg            sync.WaitGroup
	states        []atomic.Uint32
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	jobs          metric.Int64Counter
	busy          metric.Int64UpDownCounter
}

// New starts a pool of the given number of workers.
func New(workers int, opts ...Option) (*Pool, error) {
	if workers <= 0 {
		return nil, ErrNoWorkers
	}

	p := &Pool{
		logger:        slog.Default(),
		meterProvider: otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.instrument(); err != nil {
		return nil, err
	}

	p.queue = make(chan Job, p.queueSize)
	p.states = make([]atomic.Uint32, workers)
	p.wg.Add(workers)

	for i := range workers {
		go p.worker(i)
	}

	return p, nil
}

func (p *Pool) instrument() (err error) {
	meter := p.meterProvider.Meter(name)

	p.jobs, err = meter.Int64Counter("hearth.pool.jobs",
		metric.WithDescription("The number of executed jobs by their outcome"),
		metric.WithUnit("{job}"))
	if err != nil {
		return fmt.Errorf("pool: create jobs counter: %w", err)
	}

	p.busy, err = meter.Int64UpDownCounter("hearth.pool.busy",
		metric.WithDescription("The number of workers currently running a job"),
		metric.WithUnit("{worker}"))
	if err != nil {
		return fmt.Errorf("pool: create busy counter: %w", err)
	}

	return nil
}

// Submit enqueues the job. It blocks while the queue is full. Once the pool is stopped,
// ErrClosed is returned and the job is not executed.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	p.queue <- job
	return nil
}

// Stop closes the queue and waits until workers are done with the jobs already
// enqueued. Calling it more than once is harmless.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.states)
}

// States returns a snapshot of the workers' states.
func (p *Pool) States() []State {
	states := make([]State, len(p.states))
	for i := range p.states {
		states[i] = State(p.states[i].Load())
	}

	return states
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	state := &p.states[id]
	for job := range p.queue {
		state.Store(uint32(Running))
		p.run(id, job)
		state.Store(uint32(Idle))
	}

	state.Store(uint32(Stopped))
}

func (p *Pool) run(id int, job Job) {
	ctx := context.Background()
	p.busy.Add(ctx, 1)

	defer func() {
		p.busy.Add(ctx, -1)

		if r := recover(); r != nil {
			p.jobs.Add(ctx, 1, outcomePanic)
			p.logger.Error("job panicked",
				slog.Int("worker", id),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			return
		}

		p.jobs.Add(ctx, 1, outcomeOK)
	}()

	job()
}
