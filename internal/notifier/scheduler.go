package notifier

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the periodic execution of the overdue job. Start and Stop
// are explicit so main controls the lifecycle.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the job under the given cron spec (e.g. "0 0 * * *"
// for daily at midnight). Job failures are logged, never fatal.
func NewScheduler(spec string, job *Job) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := job.Run(context.Background()); err != nil {
			log.Printf("overdue notifier: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
