package ports

import "time"

// SchedulerService runs background jobs such as the periodic supply audit.
type SchedulerService interface {
	Start()
	Stop()
	ScheduleTaskEvery(interval time.Duration, task func()) error
	ScheduleTaskOnce(at time.Time, task func()) error
}
