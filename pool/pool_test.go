package pool

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew(t *testing.T) {
	for _, workers := range []int{0, -1} {
		p, err := New(workers)
		require.ErrorIs(t, err, ErrNoWorkers)
		require.Nil(t, p)
	}

	p, err := New(3, WithQueueSize(-5))
	require.NoError(t, err)
	require.Equal(t, 3, p.Size())
	require.Equal(t, []State{Idle, Idle, Idle}, p.States())
	p.Stop()
}

func TestPool(t *testing.T) {
	t.Run("every job runs exactly once", func(t *testing.T) {
		p, err := New(4, WithQueueSize(8))
		require.NoError(t, err)

		const jobs = 500
		counters := make([]atomic.Int32, jobs)
		for i := range jobs {
			require.NoError(t, p.Submit(func() {
				counters[i].Add(1)
			}))
		}

		p.Stop()
		for i := range counters {
			require.Equal(t, int32(1), counters[i].Load(), "job %d", i)
		}
	})

	t.Run("concurrency is bounded", func(t *testing.T) {
		const workers = 3
		p, err := New(workers)
		require.NoError(t, err)

		var running, peak atomic.Int32
		for range 30 {
			require.NoError(t, p.Submit(func() {
				now := running.Add(1)
				for {
					old := peak.Load()
					if now <= old || peak.CompareAndSwap(old, now) {
						break
					}
				}

				time.Sleep(time.Millisecond)
				running.Add(-1)
			}))
		}

		p.Stop()
		require.LessOrEqual(t, peak.Load(), int32(workers))
		require.Positive(t, peak.Load())
	})

	t.Run("blocked workers hold the queue", func(t *testing.T) {
		const (
			workers = 3
			jobs    = 8
		)

		p, err := New(workers, WithQueueSize(jobs))
		require.NoError(t, err)

		var (
			started  atomic.Int32
			counters [jobs]atomic.Int32
			release  = make(chan struct{}, jobs)
		)

		for i := range jobs {
			require.NoError(t, p.Submit(func() {
				started.Add(1)
				<-release
				counters[i].Add(1)
			}))
		}

		require.Eventually(t, func() bool {
			return started.Load() == workers
		}, time.Second, time.Millisecond)
		require.Never(t, func() bool {
			return started.Load() > workers
		}, 50*time.Millisecond, time.Millisecond)
		require.Equal(t, []State{Running, Running, Running}, p.States())

		release <- struct{}{}
		require.Eventually(t, func() bool {
			return started.Load() == workers+1
		}, time.Second, time.Millisecond)
		require.Never(t, func() bool {
			return started.Load() > workers+1
		}, 50*time.Millisecond, time.Millisecond)

		for range jobs - 1 {
			release <- struct{}{}
		}

		p.Stop()
		require.Equal(t, int32(jobs), started.Load())
		for i := range counters {
			require.Equal(t, int32(1), counters[i].Load(), "job %d", i)
		}
	})

	t.Run("running state", func(t *testing.T) {
		p, err := New(1)
		require.NoError(t, err)

		started, release := make(chan struct{}), make(chan struct{})
		require.NoError(t, p.Submit(func() {
			close(started)
			<-release
		}))

		<-started
		require.Equal(t, []State{Running}, p.States())
		close(release)
		p.Stop()
		require.Equal(t, []State{Stopped}, p.States())
	})

	t.Run("panicking job", func(t *testing.T) {
		logs := new(bytes.Buffer)
		logger := slog.New(slog.NewTextHandler(logs, nil))
		p, err := New(1, WithLogger(logger))
		require.NoError(t, err)

		require.NoError(t, p.Submit(func() {
			panic("boom")
		}))

		done := make(chan struct{})
		require.NoError(t, p.Submit(func() {
			close(done)
		}))

		select {
		case <-done:
		case <-time.After(time.Second):
			require.FailNow(t, "worker didn't survive the panic")
		}

		p.Stop()
		require.Contains(t, logs.String(), "job panicked")
		require.Contains(t, logs.String(), "boom")
	})

	t.Run("submit after stop", func(t *testing.T) {
		p, err := New(2)
		require.NoError(t, err)
		p.Stop()
		p.Stop()

		executed := false
		require.ErrorIs(t, p.Submit(func() { executed = true }), ErrClosed)
		require.False(t, executed)
		require.Equal(t, []State{Stopped, Stopped}, p.States())
	})

	t.Run("nil job", func(t *testing.T) {
		p, err := New(1)
		require.NoError(t, err)
		require.ErrorIs(t, p.Submit(nil), ErrNilJob)
		p.Stop()
	})

	t.Run("stop drains the queue", func(t *testing.T) {
		p, err := New(1, WithQueueSize(16))
		require.NoError(t, err)

		var executed atomic.Int32
		for range 16 {
			require.NoError(t, p.Submit(func() {
				time.Sleep(time.Millisecond)
				executed.Add(1)
			}))
		}

		p.Stop()
		require.Equal(t, int32(16), executed.Load())
	})

	t.Run("concurrent submit and stop", func(t *testing.T) {
		p, err := New(2)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					if err := p.Submit(func() {}); err != nil {
						assert.ErrorIs(t, err, ErrClosed)
						return
					}
				}
			}()
		}

		time.Sleep(10 * time.Millisecond)
		p.Stop()
		wg.Wait()
	})
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logger := slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))

	p, err := New(2, WithMeterProvider(provider), WithLogger(logger))
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, p.Submit(func() {}))
	}
	require.NoError(t, p.Submit(func() { panic("oops") }))
	p.Stop()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	jobs, ok := byName["hearth.pool.jobs"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	outcomes := make(map[string]int64)
	for _, dp := range jobs.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		outcomes[outcome.AsString()] = dp.Value
	}
	require.Equal(t, map[string]int64{"ok": 5, "panic": 1}, outcomes)

	busy, ok := byName["hearth.pool.busy"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, busy.DataPoints, 1)
	require.Zero(t, busy.DataPoints[0].Value)
}
