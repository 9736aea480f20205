package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/linguaflash/internal/jobs"
	"github.com/vytor/linguaflash/internal/testutil/mocks"
	"github.com/vytor/linguaflash/internal/worker"
)

type staticUsers struct {
	ids []string
	err error
}

func (s staticUsers) UserIDs(context.Context) ([]string, error) { return s.ids, s.err }

func TestScheduler_SweepEnqueuesEveryUser(t *testing.T) {
	q := new(mocks.MockJobQueue)
	q.On("EnqueueStreakDecay", mock.Anything, "a").Return(nil)
	q.On("EnqueueStreakDecay", mock.Anything, "b").Return(nil)
	q.On("EnqueueStreakDecay", mock.Anything, "c").Return(nil)

	s := jobs.NewScheduler(staticUsers{ids: []string{"a", "b", "c"}}, q, time.Hour)
	n, err := s.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	q.AssertExpectations(t)
}

func TestScheduler_SweepStopsWhenEnqueueFails(t *testing.T) {
	q := new(mocks.MockJobQueue)
	q.On("EnqueueStreakDecay", mock.Anything, "a").Return(nil)
	q.On("EnqueueStreakDecay", mock.Anything, "b").Return(worker.ErrPoolStopped)

	s := jobs.NewScheduler(staticUsers{ids: []string{"a", "b", "c"}}, q, time.Hour)
	n, err := s.Sweep(context.Background())

	assert.ErrorIs(t, err, worker.ErrPoolStopped)
	assert.Equal(t, 1, n)
	q.AssertNotCalled(t, "EnqueueStreakDecay", mock.Anything, "c")
}

func TestScheduler_SweepListError(t *testing.T) {
	q := new(mocks.MockJobQueue)
	s := jobs.NewScheduler(staticUsers{err: errors.New("db down")}, q, time.Hour)

	_, err := s.Sweep(context.Background())
	assert.Error(t, err)
	q.AssertNotCalled(t, "EnqueueStreakDecay", mock.Anything, mock.Anything)
}

func TestScheduler_RunDisabled(t *testing.T) {
	s := jobs.NewScheduler(staticUsers{}, new(mocks.MockJobQueue), 0)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when disabled")
	}
}

type recordingDecayer struct {
	calls chan string
}

func (d recordingDecayer) DecayStreak(_ context.Context, userID string) (bool, error) {
	d.calls <- userID
	return true, nil
}

func TestWorkerQueue_RunsDecayJob(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	d := recordingDecayer{calls: make(chan string, 1)}
	q := jobs.NewWorkerQueue(pool, d)
	require.NoError(t, q.EnqueueStreakDecay(context.Background(), "user-1"))

	select {
	case id := <-d.calls:
		assert.Equal(t, "user-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("decay job did not run")
	}
}

type countingDecayer struct {
	mu    sync.Mutex
	calls map[string]int
}

func (d *countingDecayer) DecayStreak(_ context.Context, userID string) (bool, error) {
	time.Sleep(time.Millisecond)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[userID]++
	return false, nil
}

func (d *countingDecayer) count(userID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[userID]
}

func TestScheduler_SweepReachesUsersBeyondQueueSize(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	d := &countingDecayer{calls: map[string]int{}}
	s := jobs.NewScheduler(staticUsers{ids: ids}, jobs.NewWorkerQueue(pool, d), time.Hour)

	for sweep := 0; sweep < 3; sweep++ {
		n, err := s.Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, len(ids), n)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			if d.count(id) != 3 {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}
