package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Attachment struct {
	ID             int64     `json:"id"`
	FileURL        string    `json:"fileUrl,omitempty"`
	FileName       string    `json:"fileName"`
	RevisionNumber float64   `json:"revisionNumber"`
	UploadedAt     *Date     `json:"uploadedAt,omitempty"`
	TaskID         int64     `json:"taskId,omitempty"`
	UploadedBy     *Employee `json:"uploadedBy,omitempty"`
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	type plain Attachment
	var wire struct {
		plain
		Task *projectRef `json:"task,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("attachment: %w", err)
	}
	*a = Attachment(wire.plain)
	if a.TaskID == 0 && wire.Task != nil {
		a.TaskID = wire.Task.ID
	}
	return nil
}

// NextRevision returns the revision a new upload of fileName on taskID should carry.
// Revisions are strictly increasing per (task, file name); file names compare case-insensitively.
func NextRevision(attachments []Attachment, taskID int64, fileName string) float64 {
	highest := 0.0
	for _, a := range attachments {
		if a.TaskID != taskID || !strings.EqualFold(a.FileName, fileName) {
			continue
		}
		if a.RevisionNumber > highest {
			highest = a.RevisionNumber
		}
	}
	return math.Floor(highest) + 1
}
