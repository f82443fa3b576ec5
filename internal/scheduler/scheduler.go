package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/walkd/internal/observability"
)

const probeTimeout = 5 * time.Second

// Pinger is anything whose reachability can be probed, typically the walk store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler periodically probes the store and exports the result as a gauge.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Pinger
	interval  time.Duration
}

// New creates a new Scheduler.
func New(target Pinger, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
	}
}

// Start schedules the probe job and starts the underlying scheduler.
// A non-positive interval disables probing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: store probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.probe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := s.target.Ping(ctx); err != nil {
		log.Printf("ERROR: scheduler: store probe failed: %v", err)
		observability.RecordStoreProbe(false)
		return
	}
	observability.RecordStoreProbe(true)
}
