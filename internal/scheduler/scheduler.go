package scheduler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	ErrEmptyJobName    = errors.New("job name is required")
	ErrInvalidInterval = errors.New("job interval must be positive")
)

// Service wraps a gocron scheduler for the background jobs of the server.
type Service struct {
	scheduler gocron.Scheduler
	stopOnce  sync.Once
	stopErr   error
}

// New creates a scheduler that logs panicking jobs instead of crashing.
func New() (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error("Scheduler job panicked", "job_id", jobID.String(), "job_name", jobName, "panic", recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	log.Info("Scheduler initialized")
	return &Service{scheduler: sched}, nil
}

// Start begins running scheduled jobs.
func (s *Service) Start() {
	log.Info("Scheduler starting")
	s.scheduler.Start()
}

// Stop shuts down the scheduler and waits for running jobs.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		log.Info("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// Every registers a task that runs on a fixed interval. A run that is still
// going when the next one is due causes that next run to be skipped.
func (s *Service) Every(name string, interval time.Duration, task func(), options ...gocron.JobOption) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	jobLogger := log.With("job_name", name, "interval", interval)
	jobLogger.Info("Registering scheduler job")

	wrappedTask := func() {
		jobLogger.Debug("Scheduler job started")
		task()
		jobLogger.Debug("Scheduler job completed")
	}

	opts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, options...)
	job, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(wrappedTask), opts...)
	if err != nil {
		jobLogger.Error("Failed to register scheduler job", "error", err)
		return nil, err
	}
	jobLogger.Info("Scheduler job registered")
	return job, nil
}

// MatchProcessor is the part of the processor the periodic job drives.
type MatchProcessor interface {
	ProcessMatches(dryRun bool)
}

// RegisterMatchProcessing runs the result pipeline every interval, starting
// immediately.
func RegisterMatchProcessing(s *Service, p MatchProcessor, interval time.Duration) (gocron.Job, error) {
	return s.Every("process_matches", interval, func() {
		p.ProcessMatches(false)
	}, gocron.WithStartAt(gocron.WithStartImmediately()))
}
