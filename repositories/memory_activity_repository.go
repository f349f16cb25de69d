package repositories

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"projecthub/microservices/progress-service/models"
)

const defaultMemoryCapacity = 200

// MemoryActivityRepository keeps the most recent activity per project in
// process. It is used when no MongoDB is configured; history is lost on restart.
type MemoryActivityRepository struct {
	capacity int

	mu       sync.Mutex
	projects map[int64][]models.ProgressActivity
}

// NewMemoryActivityRepository keeps at most capacity entries per project.
func NewMemoryActivityRepository(capacity int) *MemoryActivityRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryActivityRepository{
		capacity: capacity,
		projects: make(map[int64][]models.ProgressActivity),
	}
}

func (r *MemoryActivityRepository) Record(ctx context.Context, activity models.ProgressActivity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entries := append(r.projects[activity.ProjectID], activity)
	if len(entries) > r.capacity {
		entries = append([]models.ProgressActivity(nil), entries[len(entries)-r.capacity:]...)
	}
	r.projects[activity.ProjectID] = entries
	return nil
}

// ListByProject returns the newest activity first, at most limit entries.
func (r *MemoryActivityRepository) ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProgressActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.projects[projectID]
	n := int64(len(entries))
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.ProgressActivity, 0, n)
	for i := len(entries) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
