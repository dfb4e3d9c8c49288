package board

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cheachwood/GitOnBoard/errors"
)

// Event types, one per accepted mutation kind.
const (
	EventNewJob               = "NewJob"
	EventJobEdited            = "JobEdited"
	EventCandidateAssigned    = "CandidateAssigned"
	EventJobUpdated           = "JobUpdated"
	EventJobToggled           = "JobToggled"
	EventOwnershipTransferred = "OwnershipTransferred"
)

// Event is one entry of the append-only log. Seq is assigned by the store
// and monotonically increasing; Payload carries the event-specific fields
// as JSON.
type Event struct {
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	JobID     int64           `json:"jobId,omitempty"`
	Actor     string          `json:"actor"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Event payloads. Field names match the JSON surface of the registry.

// NewJobPayload accompanies EventNewJob.
type NewJobPayload struct {
	ID          int64  `json:"id"`
	Author      string `json:"author"`
	DailyRate   int64  `json:"dailyRate"`
	Description string `json:"description"`
}

// JobEditedPayload accompanies EventJobEdited.
type JobEditedPayload struct {
	ID          int64  `json:"id"`
	Author      string `json:"author"`
	DailyRate   int64  `json:"dailyRate"`
	Description string `json:"description"`
}

// CandidateAssignedPayload accompanies EventCandidateAssigned.
type CandidateAssignedPayload struct {
	ID             int64  `json:"id"`
	Candidate      string `json:"candidate"`
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
}

// JobUpdatedPayload accompanies EventJobUpdated (status changes).
type JobUpdatedPayload struct {
	ID        int64  `json:"id"`
	NewStatus Status `json:"newStatus"`
	Author    string `json:"author"`
}

// JobToggledPayload accompanies EventJobToggled.
type JobToggledPayload struct {
	ID       int64  `json:"id"`
	IsActive bool   `json:"isActive"`
	Author   string `json:"author"`
}

// OwnershipTransferredPayload accompanies EventOwnershipTransferred.
// NewOwner is empty after renouncement.
type OwnershipTransferredPayload struct {
	PreviousOwner string `json:"previousOwner"`
	NewOwner      string `json:"newOwner"`
}

// newEvent builds an unsaved event with a marshaled payload.
func newEvent(eventType string, jobID int64, actor string, payload interface{}) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s payload", eventType)
	}
	return &Event{
		Type:      eventType,
		JobID:     jobID,
		Actor:     actor,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// appendEvent inserts the event inside the mutation's transaction and
// fills in the assigned sequence number.
func appendEvent(tx *sql.Tx, event *Event) error {
	result, err := tx.Exec(`
		INSERT INTO job_events (type, job_id, actor, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		event.Type, event.JobID, event.Actor, string(event.Payload), event.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "append %s event", event.Type)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "event sequence number")
	}
	event.Seq = seq
	return nil
}
