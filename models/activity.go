package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityOutcome string

const (
	OutcomePushed    ActivityOutcome = "Pushed"
	OutcomePushError ActivityOutcome = "PushFailed"
	OutcomeUnchanged ActivityOutcome = "Unchanged"
)

// ProgressActivity records one synchronizer recompute for a project.
type ProgressActivity struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID int64              `json:"projectId" bson:"projectId"`
	Previous  *int               `json:"previous,omitempty" bson:"previous,omitempty"`
	Computed  int                `json:"computed" bson:"computed"`
	Outcome   ActivityOutcome    `json:"outcome" bson:"outcome"`
	Trigger   string             `json:"trigger,omitempty" bson:"trigger,omitempty"`
	Details   string             `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}
