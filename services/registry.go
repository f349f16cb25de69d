package services

import (
	"context"
	"sync"
	"time"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

// SynchronizerRegistry hands out one Synchronizer per project.
type SynchronizerRegistry struct {
	calculator ProjectCalculator
	pusher     ProgressPusher
	activity   ActivityRecorder
	debounce   time.Duration

	mu    sync.Mutex
	syncs map[int64]*Synchronizer
}

func NewSynchronizerRegistry(calculator ProjectCalculator, pusher ProgressPusher, activity ActivityRecorder, debounce time.Duration) *SynchronizerRegistry {
	return &SynchronizerRegistry{
		calculator: calculator,
		pusher:     pusher,
		activity:   activity,
		debounce:   debounce,
		syncs:      make(map[int64]*Synchronizer),
	}
}

func (r *SynchronizerRegistry) For(projectID int64) *Synchronizer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.syncs[projectID]; ok {
		return s
	}
	s := NewSynchronizer(projectID, r.calculator, r.pusher, r.activity, r.debounce)
	s.OnChange(func(snap models.ProgressSnapshot) {
		logging.Logger.Infof("Event ID: PROGRESS_HELD_CHANGED, Description: Project %d progress now %d", snap.ProjectID, snap.Held)
	})
	r.syncs[projectID] = s
	return s
}

// Trigger schedules a debounced recompute for the project.
func (r *SynchronizerRegistry) Trigger(ctx context.Context, projectID int64, reason string) {
	if projectID == 0 {
		return
	}
	r.For(projectID).Trigger(ctx, reason)
}

// Load seeds the project's last remote value and reconciles the report the
// caller computed on load, pushing it when it differs from the remote value.
func (r *SynchronizerRegistry) Load(ctx context.Context, project models.Project, report models.ProgressReport) *Synchronizer {
	s := r.For(project.ID)
	s.ObserveRemote(project.Progress)
	s.Seed(ctx, report, TriggerInitialLoad)
	return s
}

// Forget closes and drops a project's synchronizer, e.g. after the project is deleted.
func (r *SynchronizerRegistry) Forget(projectID int64) {
	r.mu.Lock()
	s, ok := r.syncs[projectID]
	delete(r.syncs, projectID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Close stops every synchronizer and waits for in-flight recomputes.
func (r *SynchronizerRegistry) Close() {
	r.mu.Lock()
	syncs := make([]*Synchronizer, 0, len(r.syncs))
	for _, s := range r.syncs {
		syncs = append(syncs, s)
	}
	r.syncs = make(map[int64]*Synchronizer)
	r.mu.Unlock()

	for _, s := range syncs {
		s.Close()
	}
	for _, s := range syncs {
		s.Wait()
	}
}
