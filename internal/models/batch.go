package models

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
)

type Batch struct {
	ID        uuid.UUID
	Status    BatchStatus
	SendEmail bool
	Documents []Document
	Processed int
	Records   []CandidateRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Batch) Total() int {
	return len(b.Documents)
}

// Progress is the completed fraction in [0,1]. An empty batch is complete.
func (b *Batch) Progress() float64 {
	if len(b.Documents) == 0 {
		return 1
	}
	return float64(b.Processed) / float64(len(b.Documents))
}

type ScoreEntry struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

type Summary struct {
	Total         int                         `json:"total"`
	Selected      int                         `json:"selected"`
	Rejected      int                         `json:"rejected"`
	Notifications map[NotificationOutcome]int `json:"notifications"`
	MinScore      float64                     `json:"min_score"`
	MaxScore      float64                     `json:"max_score"`
	MeanScore     float64                     `json:"mean_score"`
	Scores        []ScoreEntry                `json:"scores"`
}
