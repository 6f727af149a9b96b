package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"fxeval/internal/logger"
)

// Job is one schedulable unit of work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// JobStatus is the last observed state of one registered job, served by the
// status endpoint.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	Runs      int64      `json:"runs"`
	Failures  int64      `json:"failures"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

type jobEntry struct {
	job      Job
	schedule string
	entryID  cron.EntryID

	mu        sync.Mutex
	running   bool
	runs      int64
	failures  int64
	lastRun   time.Time
	lastError string
}

// Scheduler runs registered jobs on cron schedules. Each job keeps at most
// one invocation in flight; an overdue run is skipped, not queued.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries []*jobEntry
	started bool
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cronLogger{})),
	}
}

// AddJob registers a job on a standard 5-field cron schedule (descriptors
// like @hourly and @every also work).
func (s *Scheduler) AddJob(schedule string, job Job) error {
	entry := &jobEntry{job: job, schedule: schedule}
	id, err := s.cron.AddFunc(schedule, func() { s.invoke(entry) })
	if err != nil {
		return err
	}
	entry.entryID = id
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	logger.Infof("scheduler: registered job %s (%s)", job.Name(), schedule)
	return nil
}

func (s *Scheduler) invoke(e *jobEntry) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		logger.Warnf("scheduler: job %s still running, skipping this tick", e.job.Name())
		return
	}
	e.running = true
	e.mu.Unlock()

	start := time.Now()
	err := e.job.Run(context.Background())

	e.mu.Lock()
	e.running = false
	e.runs++
	e.lastRun = start
	if err != nil {
		e.failures++
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
	e.mu.Unlock()

	if err != nil {
		logger.Errorf("scheduler: job %s failed after %s: %v", e.job.Name(), time.Since(start).Round(time.Millisecond), err)
		return
	}
	logger.Infof("scheduler: job %s completed in %s", e.job.Name(), time.Since(start).Round(time.Millisecond))
}

// RunNow executes a job outside its schedule, still honoring the
// one-in-flight rule.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	var target *jobEntry
	for _, e := range s.entries {
		if e.job.Name() == name {
			target = e
			break
		}
	}
	s.mu.Unlock()
	if target == nil {
		return false
	}
	go s.invoke(target)
	return true
}

// Start begins dispatching. Idempotent.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	logger.Infof("scheduler: started with %d jobs", len(s.entries))
}

// Stop halts dispatching and waits for in-flight runs started by cron to
// return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	logger.Infof("scheduler: stopped")
}

// Status reports every registered job.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	entries := append([]*jobEntry(nil), s.entries...)
	started := s.started
	s.mu.Unlock()

	out := make([]JobStatus, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		st := JobStatus{
			Name:      e.job.Name(),
			Schedule:  e.schedule,
			Running:   e.running,
			Runs:      e.runs,
			Failures:  e.failures,
			LastError: e.lastError,
		}
		if !e.lastRun.IsZero() {
			t := e.lastRun
			st.LastRun = &t
		}
		e.mu.Unlock()
		if started {
			if next := s.cron.Entry(e.entryID).Next; !next.IsZero() {
				st.NextRun = &next
			}
		}
		out = append(out, st)
	}
	return out
}

// cronLogger routes cron's internal messages into the service log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debugf("cron: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Errorf("cron: %s: %v %v", msg, err, keysAndValues)
}
