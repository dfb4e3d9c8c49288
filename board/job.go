// Package board implements the job-posting registry: job records, the
// status lifecycle, authorization rules, persistence and the append-only
// event log.
package board

import (
	"time"
)

// Status is the lifecycle state of a job. Values are serialized as their
// ordinal in JSON and events.
type Status int

const (
	StatusOpen       Status = 0
	StatusInProgress Status = 1
	StatusCompleted  Status = 2
	StatusCancelled  Status = 3
)

// Valid reports whether s is one of the defined status values.
func (s Status) Valid() bool {
	return s >= StatusOpen && s <= StatusCancelled
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "InProgress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseStatus converts a status name (case-sensitive, as produced by
// Status.String) to its value.
func ParseStatus(name string) (Status, bool) {
	switch name {
	case "Open":
		return StatusOpen, true
	case "InProgress":
		return StatusInProgress, true
	case "Completed":
		return StatusCompleted, true
	case "Cancelled":
		return StatusCancelled, true
	default:
		return 0, false
	}
}

// Job is a single job posting.
//
// ID, CreationDate and Author never change after creation. Candidate (with
// CandidateName and CandidateEmail) is set at most once and never cleared.
type Job struct {
	ID             int64     `json:"id"`
	CreationDate   time.Time `json:"creationDate"`
	DailyRate      int64     `json:"dailyRate"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	IsActive       bool      `json:"isActive"`
	Author         string    `json:"author"`
	Candidate      string    `json:"candidate,omitempty"`
	CandidateName  string    `json:"candidateName,omitempty"`
	CandidateEmail string    `json:"candidateEmail,omitempty"`
}

// HasCandidate reports whether a candidate has been assigned.
func (j *Job) HasCandidate() bool {
	return j.Candidate != ""
}
