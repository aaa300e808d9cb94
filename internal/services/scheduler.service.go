package services

import (
	"context"
	"sync"
	"time"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // 02:00 UTC
)

// A run that exceeds this is cancelled through its context.
const jobRunTimeout = 10 * time.Minute

// Job is a unit of background work run by the scheduler.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      map[string]Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	scheduler := gocron.NewScheduler(time.UTC)
	// A run still in progress when the next tick fires makes that tick a no-op.
	scheduler.SingletonModeAll()

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make(map[string]Job),
		log:       logger.New("schedulerService"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddJob registers job under its name. Names are unique.
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	if _, exists := s.jobs[job.Name()]; exists {
		return log.Err("job already registered", types.ErrConflict, "job", job.Name())
	}

	every := s.scheduler.Every(1)
	switch job.Schedule() {
	case Hourly:
		every = every.Hour()
	case Daily:
		every = every.Day().At("02:00")
	default:
		return log.Err("unknown job schedule", types.ErrInvalidInput, "job", job.Name())
	}

	if _, err := every.Tag(job.Name()).Do(s.runScheduled, job); err != nil {
		return log.Err("failed to schedule job", err, "job", job.Name())
	}

	s.jobs[job.Name()] = job
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule())
	return nil
}

func (s *SchedulerService) runScheduled(job Job) {
	log := s.log.Function("runScheduled")

	ctx, cancel := context.WithTimeout(s.ctx, jobRunTimeout)
	defer cancel()

	started := time.Now()
	if err := job.Execute(ctx); err != nil {
		log.Er("scheduled job failed", err, "job", job.Name(), "duration", time.Since(started))
		return
	}
	log.Info("Scheduled job finished", "job", job.Name(), "duration", time.Since(started))
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// RunJob executes a registered job synchronously by name.
func (s *SchedulerService) RunJob(ctx context.Context, jobName string) error {
	s.mu.Lock()
	job, ok := s.jobs[jobName]
	s.mu.Unlock()

	log := s.log.Function("RunJob")
	if !ok {
		return log.Err("job not found", types.ErrNotFound, "job", jobName)
	}

	log.Info("Manually running job", "job", jobName)
	return job.Execute(ctx)
}
