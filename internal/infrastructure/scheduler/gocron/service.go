package timescheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

func (s *service) ScheduleTaskEvery(interval time.Duration, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval: %s", interval)
	}
	_, err := s.scheduler.Every(interval).Do(task)
	return err
}

func (s *service) ScheduleTaskOnce(at time.Time, task func()) error {
	if at.Before(time.Now()) {
		return fmt.Errorf("cannot schedule task in the past")
	}
	_, err := s.scheduler.Every(1).LimitRunsTo(1).StartAt(at).Do(task)
	return err
}
