package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/linguaflash/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := worker.NewPool(2, 8)
	p.Start(context.Background())
	defer p.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(funcJob{name: "count", fn: func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		}}))
	}
	wg.Wait()
	assert.Equal(t, 5, ran)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	p := worker.NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover")
	}
}

func TestPool_SubmitQueueFull(t *testing.T) {
	p := worker.NewPool(1, 1) // not started, nothing drains the queue
	defer p.Stop()

	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), worker.ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := worker.NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestPool_SubmitWaitBlocksUntilRoom(t *testing.T) {
	p := worker.NewPool(1, 1)
	defer p.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "slow", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	p.Start(context.Background())
	<-started
	require.NoError(t, p.Submit(funcJob{name: "queued", fn: func(context.Context) error { return nil }}))

	submitted := make(chan error, 1)
	go func() {
		submitted <- p.SubmitWait(context.Background(), funcJob{name: "waiting", fn: func(context.Context) error { return nil }})
	}()

	select {
	case <-submitted:
		t.Fatal("SubmitWait returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-submitted:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("SubmitWait did not return after room was made")
	}
}

func TestPool_SubmitWaitHonoursContext(t *testing.T) {
	p := worker.NewPool(1, 1) // not started
	defer p.Stop()

	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.SubmitWait(ctx, noop), context.DeadlineExceeded)
}

func TestPool_SubmitWaitReleasedByStop(t *testing.T) {
	p := worker.NewPool(1, 1) // not started
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))

	submitted := make(chan error, 1)
	go func() { submitted <- p.SubmitWait(context.Background(), noop) }()
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	select {
	case err := <-submitted:
		assert.ErrorIs(t, err, worker.ErrPoolStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not release a waiting submitter")
	}
}
