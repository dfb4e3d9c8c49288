package board

import "github.com/cheachwood/GitOnBoard/errors"

// Sentinel errors for every way a registry operation can be rejected.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrJobDoesNotExist indicates the referenced job id is unknown
	ErrJobDoesNotExist = errors.New("job does not exist")

	// ErrCandidateNameEmpty indicates an assignment with an empty candidate name
	ErrCandidateNameEmpty = errors.New("candidate name is empty")

	// ErrCandidateEmailEmpty indicates an assignment with an empty candidate email
	ErrCandidateEmailEmpty = errors.New("candidate email is empty")

	// ErrJobNotOpenForAssignment indicates the job is not in the Open status
	ErrJobNotOpenForAssignment = errors.New("job is not open for assignment")

	// ErrCandidateAlreadyAssigned indicates the job already has a candidate
	ErrCandidateAlreadyAssigned = errors.New("candidate already assigned")

	// ErrCannotApplyToOwnJob indicates the author tried to assign themselves
	ErrCannotApplyToOwnJob = errors.New("cannot apply to own job")

	// ErrOnlyAuthor indicates the caller is not the job's author
	ErrOnlyAuthor = errors.New("only the author can perform this action")

	// ErrOnlyAuthorOrOwner indicates the caller is neither author nor board owner
	ErrOnlyAuthorOrOwner = errors.New("only the author or board owner can toggle this job")

	// ErrNotOwner indicates the caller is not the board owner
	ErrNotOwner = errors.New("caller is not the board owner")

	// ErrInvalidOwner indicates an ownership transfer to the empty identity
	ErrInvalidOwner = errors.New("new owner is invalid")

	// ErrInvalidStatus indicates a status value outside the defined ordinals
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrStatusAlreadySet indicates a transition to the job's current status
	ErrStatusAlreadySet = errors.New("status already set")

	// ErrJobTerminal indicates a change to a Completed or Cancelled job
	ErrJobTerminal = errors.New("cannot change a completed or cancelled job")

	// ErrInProgressNeedsCandidate indicates InProgress without an assigned candidate
	ErrInProgressNeedsCandidate = errors.New("cannot set in-progress without a candidate")

	// ErrInvalidTransitionFromOpen indicates a transition Open does not allow
	ErrInvalidTransitionFromOpen = errors.New("invalid transition from open")

	// ErrInvalidTransitionFromInProgress indicates a transition InProgress does not allow
	ErrInvalidTransitionFromInProgress = errors.New("invalid transition from in-progress")

	// ErrInvalidRate indicates a non-positive daily rate
	ErrInvalidRate = errors.New("daily rate must be positive")

	// ErrEmptyDescription indicates an empty job description
	ErrEmptyDescription = errors.New("description is empty")

	// ErrEmptyIdentity indicates a mutation without a caller identity
	ErrEmptyIdentity = errors.New("caller identity is empty")
)
