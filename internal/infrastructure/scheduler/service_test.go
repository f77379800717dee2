package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	timescheduler "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/scheduler/gocron"
	"github.com/stretchr/testify/require"
)

func TestScheduleTask(t *testing.T) {
	t.Parallel()

	svc := timescheduler.NewScheduler()
	svc.Start()
	t.Cleanup(svc.Stop)

	t.Run("task_once", func(t *testing.T) {
		var called atomic.Bool
		err := svc.ScheduleTaskOnce(time.Now().Add(time.Second), func() {
			called.Store(true)
		})
		require.NoError(t, err)

		time.Sleep(3 * time.Second)
		require.True(t, called.Load())
	})

	t.Run("task_every", func(t *testing.T) {
		var runs atomic.Int32
		err := svc.ScheduleTaskEvery(time.Second, func() {
			runs.Add(1)
		})
		require.NoError(t, err)

		time.Sleep(3500 * time.Millisecond)
		require.GreaterOrEqual(t, runs.Load(), int32(2))
	})

	t.Run("invalid_interval", func(t *testing.T) {
		require.Error(t, svc.ScheduleTaskEvery(0, func() {}))
	})

	t.Run("past_start_time", func(t *testing.T) {
		require.Error(t, svc.ScheduleTaskOnce(time.Now().Add(-time.Minute), func() {}))
	})
}
