package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is a unit of scheduled work. The context is cancelled on Stop.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on UTC cron specs.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	names   map[cron.EntryID]string
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		names:  make(map[cron.EntryID]string),
	}
}

// AddJob registers job under spec. A run that is still going when the next
// tick fires is not overlapped.
func (s *Scheduler) AddJob(spec, name string, job Job) error {
	if job == nil {
		return errors.New("scheduler: nil job " + name)
	}
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.run(name, job)
	}))
	id, err := s.cron.AddJob(spec, wrapped)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.names[id] = name
	s.mu.Unlock()
	log.Info().Str("job", name).Str("spec", spec).Msg("scheduled job")
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job", name).Interface("panic", r).Msg("scheduled job panicked")
		}
	}()
	if err := job(s.ctx); err != nil {
		log.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job failed")
		return
	}
	log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job done")
}

// RunNow runs the named job synchronously, outside the cron schedule.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	var found cron.EntryID
	for id, n := range s.names {
		if n == name {
			found = id
			break
		}
	}
	s.mu.Unlock()
	if found == 0 {
		return false
	}
	s.cron.Entry(found).WrappedJob.Run()
	return true
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	log.Info().Int("jobs", len(s.names)).Msg("scheduler started")
}

// Stop waits for running jobs and cancels their context.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	s.cancel()
	if wasRunning {
		<-s.cron.Stop().Done()
	}
	log.Info().Msg("scheduler stopped")
}

// IsRunning reports whether Start was called and Stop was not.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
