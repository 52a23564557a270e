// Package batch tracks the lifecycle of per-section extraction jobs
// derived from one multi-patient document.
package batch

import (
	"time"

	"github.com/google/uuid"

	"github.com/glosalabs/glosaflow/internal/extract"
)

// SectionStatus is the lifecycle of one section's extraction job. A
// section moves from pending through processing to completed or error
// exactly once per run.
type SectionStatus string

const (
	SectionPending    SectionStatus = "pending"
	SectionProcessing SectionStatus = "processing"
	SectionCompleted  SectionStatus = "completed"
	SectionError      SectionStatus = "error"
)

// State is the aggregate batch state machine:
// splitting, processing, then completed, partial_error, or error.
type State string

const (
	StateSplitting    State = "splitting"
	StateProcessing   State = "processing"
	StateCompleted    State = "completed"
	StatePartialError State = "partial_error"
	StateError        State = "error"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StatePartialError || s == StateError
}

// ParentState maps a terminal batch state to the single signal downstream
// consumers observe on the parent record: partial success still counts as
// completed there.
func (s State) ParentState() State {
	switch s {
	case StateCompleted, StatePartialError:
		return StateCompleted
	case StateError:
		return StateError
	default:
		return StateProcessing
	}
}

// SectionRecord is the persisted status of one section job.
type SectionRecord struct {
	ID          uuid.UUID       `json:"id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Index       int             `json:"index"`
	StartPage   int             `json:"start_page"`
	EndPage     int             `json:"end_page"`
	PatientHint string          `json:"patient_hint,omitempty"`
	Status      SectionStatus   `json:"status"`
	Error       string          `json:"error,omitempty"`
	Result      *extract.Result `json:"result,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Record is the persisted batch aggregate.
type Record struct {
	ID        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectionProgress is one entry of a progress snapshot.
type SectionProgress struct {
	ID     uuid.UUID     `json:"id"`
	Index  int           `json:"index"`
	Status SectionStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// Progress is the pollable snapshot of a batch.
type Progress struct {
	BatchID    uuid.UUID         `json:"batch_id"`
	State      State             `json:"state"`
	Total      int               `json:"total"`
	Completed  int               `json:"completed"`
	Failed     int               `json:"failed"`
	Percent    float64           `json:"percent"`
	Terminal   bool              `json:"terminal"`
	PerSection []SectionProgress `json:"per_section"`
}

// LogLevel classifies a processing log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "INFO"
	LogWarning LogLevel = "WARNING"
	LogError   LogLevel = "ERROR"
)

// LogEntry is one line of a batch's processing log.
type LogEntry struct {
	Time         time.Time `json:"time"`
	Level        LogLevel  `json:"level"`
	Message      string    `json:"message"`
	SectionIndex int       `json:"section_index,omitempty"`
}
