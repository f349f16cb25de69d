package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

type ProjectCalculator interface {
	ComputeProject(ctx context.Context, projectID int64) (models.ProgressReport, error)
}

type ProgressPusher interface {
	UpdateProjectProgress(ctx context.Context, projectID int64, progress float64) (models.Project, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, activity models.ProgressActivity) error
}

// Trigger reasons.
const (
	TriggerInitialLoad    = "initial-load"
	TriggerTaskCreated    = "task-created"
	TriggerTaskStatus     = "task-status"
	TriggerTaskDeleted    = "task-deleted"
	TriggerSubtaskCreated = "subtask-created"
	TriggerSubtaskChanged = "subtask-changed"
	TriggerSubtaskDeleted = "subtask-deleted"
	TriggerManual         = "manual"
)

const pushTimeout = 15 * time.Second

// Synchronizer keeps one project's held progress in step with its tasks and
// writes the value back to the collaborator. Triggers inside the debounce
// window collapse into one recompute on the trailing edge.
type Synchronizer struct {
	projectID  int64
	calculator ProjectCalculator
	pusher     ProgressPusher
	activity   ActivityRecorder
	debounce   time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	armed       bool
	generation  uint64
	triggerCtx  context.Context
	reason      string
	held        int
	hasHeld     bool
	lastRemote  *float64
	lastPushErr error
	updatedAt   time.Time
	closed      bool
	observers   []func(models.ProgressSnapshot)
	pending     sync.WaitGroup
}

func NewSynchronizer(projectID int64, calculator ProjectCalculator, pusher ProgressPusher, activity ActivityRecorder, debounce time.Duration) *Synchronizer {
	return &Synchronizer{
		projectID:  projectID,
		calculator: calculator,
		pusher:     pusher,
		activity:   activity,
		debounce:   debounce,
	}
}

// ObserveRemote records the progress value last seen on the collaborator.
func (s *Synchronizer) ObserveRemote(progress *float64) {
	if progress == nil {
		return
	}
	v := *progress
	s.mu.Lock()
	s.lastRemote = &v
	s.mu.Unlock()
}

// OnChange registers an observer called whenever the held value changes.
func (s *Synchronizer) OnChange(fn func(models.ProgressSnapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Trigger schedules a recompute after the debounce window. The context's
// values (forwarded credentials) are kept, its cancellation is not.
func (s *Synchronizer) Trigger(ctx context.Context, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.generation++
	s.triggerCtx = context.WithoutCancel(ctx)
	s.reason = reason
	s.armed = true

	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.fire)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Synchronizer) fire() {
	s.mu.Lock()
	if s.closed || !s.armed {
		s.mu.Unlock()
		return
	}
	s.armed = false
	gen, ctx, reason := s.generation, s.triggerCtx, s.reason
	s.pending.Add(1)
	s.mu.Unlock()
	defer s.pending.Done()

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if _, err := s.recompute(ctx, gen, reason); err != nil && !errors.Is(err, errStaleRecompute) {
		logging.Logger.Warnf("Event ID: PROGRESS_RECOMPUTE_FAILED, Description: Project %d progress recompute failed: %v", s.projectID, err)
	}
}

// Flush recomputes and pushes immediately, superseding any pending trigger.
func (s *Synchronizer) Flush(ctx context.Context) (models.ProgressReport, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ProgressReport{}, ErrSynchronizerClosed
	}
	s.generation++
	gen := s.generation
	s.disarmLocked()
	s.pending.Add(1)
	s.mu.Unlock()
	defer s.pending.Done()

	report, err := s.recompute(ctx, gen, TriggerManual)
	if errors.Is(err, errStaleRecompute) {
		return report, nil
	}
	return report, err
}

// Seed reconciles a report the caller already computed, superseding any
// pending trigger. The push runs in the background.
func (s *Synchronizer) Seed(ctx context.Context, report models.ProgressReport, reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.disarmLocked()
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
		defer cancel()
		if err := s.reconcile(ctx, gen, reason, report); err != nil && !errors.Is(err, errStaleRecompute) {
			logging.Logger.Warnf("Event ID: PROGRESS_RECOMPUTE_FAILED, Description: Project %d progress reconcile failed: %v", s.projectID, err)
		}
	}()
}

// disarmLocked cancels the debounce timer. A timer that already fired finds
// armed unset and returns without recomputing.
func (s *Synchronizer) disarmLocked() {
	s.armed = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Synchronizer) recompute(ctx context.Context, gen uint64, reason string) (models.ProgressReport, error) {
	report, err := s.calculator.ComputeProject(ctx, s.projectID)
	if err != nil {
		return models.ProgressReport{}, err
	}
	return report, s.reconcile(ctx, gen, reason, report)
}

func (s *Synchronizer) reconcile(ctx context.Context, gen uint64, reason string, report models.ProgressReport) error {
	computed := report.Percent

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		logging.Logger.Debugf("Event ID: PROGRESS_RECOMPUTE_STALE, Description: Discarding stale progress %d for project %d", computed, s.projectID)
		return errStaleRecompute
	}
	var previous *int
	if s.hasHeld {
		p := s.held
		previous = &p
	}
	changed := !s.hasHeld || s.held != computed
	if changed {
		s.held = computed
		s.hasHeld = true
		s.updatedAt = time.Now()
	}
	needPush := s.lastRemote == nil || *s.lastRemote != float64(computed)
	snapshot := s.snapshotLocked()
	observers := append([]func(models.ProgressSnapshot){}, s.observers...)
	s.mu.Unlock()

	if changed {
		for _, fn := range observers {
			fn(snapshot)
		}
	}

	activity := models.ProgressActivity{
		ProjectID: s.projectID,
		Previous:  previous,
		Computed:  computed,
		Outcome:   models.OutcomeUnchanged,
		Trigger:   reason,
		Timestamp: time.Now(),
	}
	if needPush {
		activity.Outcome = s.push(ctx, computed)
		if activity.Outcome == models.OutcomePushError {
			activity.Details = s.Snapshot().LastPushErr
		}
	}
	if s.activity != nil {
		if err := s.activity.Record(context.WithoutCancel(ctx), activity); err != nil {
			logging.Logger.Warnf("Event ID: PROGRESS_ACTIVITY_RECORD_FAILED, Description: Could not record progress activity for project %d: %v", s.projectID, err)
		}
	}
	return nil
}

// push writes the value back. Failures keep the held value and are retried on
// the next trigger because lastRemote stays behind.
func (s *Synchronizer) push(ctx context.Context, computed int) models.ActivityOutcome {
	_, err := s.pusher.UpdateProjectProgress(ctx, s.projectID, float64(computed))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastPushErr = err
		logging.Logger.Warnf("Event ID: PROGRESS_PUSH_FAILED, Description: Failed to push progress %d for project %d: %v", computed, s.projectID, err)
		return models.OutcomePushError
	}
	v := float64(computed)
	s.lastRemote = &v
	s.lastPushErr = nil
	logging.Logger.Infof("Event ID: PROGRESS_PUSHED, Description: Project %d progress set to %d", s.projectID, computed)
	return models.OutcomePushed
}

func (s *Synchronizer) Snapshot() models.ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() models.ProgressSnapshot {
	snap := models.ProgressSnapshot{
		ProjectID: s.projectID,
		Held:      s.held,
		HasHeld:   s.hasHeld,
		UpdatedAt: s.updatedAt,
	}
	if s.lastRemote != nil {
		v := *s.lastRemote
		snap.LastRemote = &v
	}
	if s.lastPushErr != nil {
		snap.LastPushErr = s.lastPushErr.Error()
	}
	return snap
}

// Close stops pending work. Results of recomputes still in flight are discarded.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.disarmLocked()
	s.mu.Unlock()
}

// Wait blocks until in-flight recomputes have returned.
func (s *Synchronizer) Wait() {
	s.pending.Wait()
}
