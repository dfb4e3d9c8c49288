package board

// The status lifecycle is a fixed graph:
//
//	Open       -> InProgress, Cancelled
//	InProgress -> Open, Completed, Cancelled
//	Completed  -> (terminal)
//	Cancelled  -> (terminal)
//
// A transition to the current status is always rejected, and InProgress
// requires an assigned candidate.

// ValidateTransition checks whether a job may move from one status to
// another. Checks are ordered so the most specific rejection wins:
// invalid target, terminal source, no-op transition, missing candidate,
// then the per-source transition rules.
func ValidateTransition(from, to Status, hasCandidate bool) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if from.Terminal() {
		return ErrJobTerminal
	}
	if to == from {
		return ErrStatusAlreadySet
	}
	if to == StatusInProgress && !hasCandidate {
		return ErrInProgressNeedsCandidate
	}

	switch from {
	case StatusOpen:
		// Open allows InProgress and Cancelled only
		if to != StatusInProgress && to != StatusCancelled {
			return ErrInvalidTransitionFromOpen
		}
	case StatusInProgress:
		// Every other valid status is reachable from InProgress
		if to != StatusOpen && to != StatusCompleted && to != StatusCancelled {
			return ErrInvalidTransitionFromInProgress
		}
	}

	return nil
}

// ValidateAssignment checks whether a candidate may be assigned to a job.
// The caller must not be the job's author, the job must still be Open,
// and only one candidate is ever accepted.
func ValidateAssignment(job *Job, caller, name, email string) error {
	if name == "" {
		return ErrCandidateNameEmpty
	}
	if email == "" {
		return ErrCandidateEmailEmpty
	}
	if job.Status != StatusOpen {
		return ErrJobNotOpenForAssignment
	}
	if job.HasCandidate() {
		return ErrCandidateAlreadyAssigned
	}
	if caller == job.Author {
		return ErrCannotApplyToOwnJob
	}
	return nil
}

// ValidatePosting checks the mutable fields shared by create and update.
func ValidatePosting(rate int64, description string) error {
	if rate <= 0 {
		return ErrInvalidRate
	}
	if description == "" {
		return ErrEmptyDescription
	}
	return nil
}
