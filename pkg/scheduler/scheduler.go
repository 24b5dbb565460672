// Package scheduler sweeps the task store and fires due reminders.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"toodone/pkg/notify"
	"toodone/pkg/store"
	"toodone/pkg/utils"
)

// State is the lifecycle of a task's reminder.
type State int

const (
	StatePending State = iota // due timestamp set, threshold not crossed
	StateDue                  // threshold crossed, notification not yet delivered
	StateFiring               // dispatch in flight
	StateFired                // notification delivered, terminal for this due timestamp
	StateCancelled            // task completed or deleted, terminal
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDue:
		return "due"
	case StateFiring:
		return "firing"
	case StateFired:
		return "fired"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// TaskSource is the slice of the store the scheduler reads.
type TaskSource interface {
	ChangedSince(rev uint64) ([]store.Task, uint64, error)
	Get(id int64) (store.Task, error)
}

type reminder struct {
	taskID int64
	title  string
	due    time.Time
	state  State
}

// Options configure a Scheduler.
type Options struct {
	// Lead is subtracted from the due timestamp to form the reminder
	// threshold.
	Lead time.Duration
	// Interval is the sweep period for Run.
	Interval time.Duration
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Scheduler tracks reminder state per task and delivers each reminder at
// most once per distinct due timestamp. Dispatch failures leave the
// reminder due so the next sweep retries.
type Scheduler struct {
	mu         sync.Mutex
	source     TaskSource
	dispatcher notify.Dispatcher
	lead       time.Duration
	interval   time.Duration
	now        func() time.Time
	lastRev    uint64
	reminders  map[int64]*reminder
	wg         sync.WaitGroup
}

// New creates a Scheduler. The first sweep sees every task because the
// initial revision is zero.
func New(source TaskSource, dispatcher notify.Dispatcher, opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Scheduler{
		source:     source,
		dispatcher: dispatcher,
		lead:       opts.Lead,
		interval:   opts.Interval,
		now:        opts.Now,
		reminders:  make(map[int64]*reminder),
	}
}

// Run sweeps on a fixed ticker until the context is cancelled, then waits
// for in-flight dispatches to settle.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep()
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep ingests store changes since the last sweep and evaluates tracked
// reminders against the current time. Safe to call concurrently; the
// Due -> Firing transition is mutex-guarded so a reminder never fires twice.
func (s *Scheduler) Sweep() {
	changed, rev, err := s.source.ChangedSince(s.lastSeenRev())
	if err != nil {
		// Store failure: keep state, retry next sweep.
		utils.Warn("sweep: reading changes failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lastRev = rev
	for _, t := range changed {
		s.ingestLocked(t)
	}

	now := s.now()
	type firing struct {
		taskID int64
		due    time.Time
	}
	var toFire []firing
	for _, r := range s.reminders {
		if r.state == StatePending && !now.Before(r.due.Add(-s.lead)) {
			r.state = StateDue
		}
		if r.state == StateDue {
			r.state = StateFiring
			toFire = append(toFire, firing{taskID: r.taskID, due: r.due})
		}
	}
	s.mu.Unlock()

	// Dispatch outside the lock and off the sweep path: a slow or failing
	// platform call must not delay evaluation of other tasks.
	for _, f := range toFire {
		s.wg.Add(1)
		go s.fire(f.taskID, f.due)
	}
}

// ingestLocked folds one mutated task into the reminder table.
func (s *Scheduler) ingestLocked(t store.Task) {
	r, tracked := s.reminders[t.ID]

	if t.Done || !t.HasDue() {
		if tracked {
			r.state = StateCancelled
			delete(s.reminders, t.ID)
			utils.Log("reminder for task %d cancelled", t.ID)
		}
		return
	}

	if !tracked {
		s.reminders[t.ID] = &reminder{taskID: t.ID, title: t.Title, due: t.DueDate, state: StatePending}
		return
	}

	r.title = t.Title
	if !r.due.Equal(t.DueDate) {
		// Due timestamp edited: the reminder re-enters pending and may
		// fire again for the new threshold.
		r.due = t.DueDate
		r.state = StatePending
	}
}

// fire re-reads the task and dispatches its notification. Cancellation wins
// over an in-flight sweep: a task deleted or completed after the sweep
// started is never notified.
func (s *Scheduler) fire(taskID int64, due time.Time) {
	defer s.wg.Done()

	t, err := s.source.Get(taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.cancel(taskID)
			return
		}
		utils.Warn("fire: reading task %d failed: %v", taskID, err)
		s.revert(taskID, due, StateDue)
		return
	}
	if t.Done || !t.DueDate.Equal(due) {
		// Completed, or the due timestamp moved under us; the next sweep
		// re-evaluates from the store's view.
		s.cancel(taskID)
		if !t.Done && t.HasDue() {
			s.track(t)
		}
		return
	}

	if err := s.dispatcher.Notify(t.ID, t.Title, reminderMessage(due)); err != nil {
		// Retryable: leave the reminder due for the next sweep.
		utils.Warn("dispatch for task %d failed, will retry: %v", t.ID, err)
		s.revert(taskID, due, StateDue)
		return
	}

	s.revert(taskID, due, StateFired)
	utils.Log("reminder for task %d fired (due %s)", taskID, due.Format(time.RFC3339))
}

// revert moves a firing reminder to the given state, unless the reminder
// was cancelled or re-targeted while dispatch was in flight.
func (s *Scheduler) revert(taskID int64, due time.Time, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reminders[taskID]; ok && r.state == StateFiring && r.due.Equal(due) {
		r.state = state
	}
}

func (s *Scheduler) cancel(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reminders[taskID]; ok {
		r.state = StateCancelled
		delete(s.reminders, taskID)
	}
}

func (s *Scheduler) track(t store.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[t.ID] = &reminder{taskID: t.ID, title: t.Title, due: t.DueDate, state: StatePending}
}

func (s *Scheduler) lastSeenRev() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRev
}

// TaskState reports the tracked reminder state for a task. The second
// return is false when the scheduler tracks no reminder for it.
func (s *Scheduler) TaskState(taskID int64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[taskID]
	if !ok {
		return StateCancelled, false
	}
	return r.state, true
}

// Wait blocks until in-flight dispatches finish. Tests use it to observe
// the outcome of a sweep.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func reminderMessage(due time.Time) string {
	return "due " + due.Local().Format("2006-01-02 15:04")
}
