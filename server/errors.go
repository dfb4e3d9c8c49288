package server

import (
	"net/http"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/errors"
)

// statusForError maps registry rejections onto HTTP status codes:
// 400 for malformed input, 401 for a missing caller identity, 403 for
// authorization failures, 404 for unknown jobs and 409 for lifecycle or
// assignment violations.
func statusForError(err error) int {
	switch {
	case errors.Is(err, board.ErrEmptyIdentity):
		return http.StatusUnauthorized

	case errors.Is(err, board.ErrJobDoesNotExist):
		return http.StatusNotFound

	case errors.Is(err, board.ErrOnlyAuthor),
		errors.Is(err, board.ErrOnlyAuthorOrOwner),
		errors.Is(err, board.ErrNotOwner),
		errors.Is(err, board.ErrCannotApplyToOwnJob):
		return http.StatusForbidden

	case errors.Is(err, board.ErrCandidateNameEmpty),
		errors.Is(err, board.ErrCandidateEmailEmpty),
		errors.Is(err, board.ErrInvalidRate),
		errors.Is(err, board.ErrEmptyDescription),
		errors.Is(err, board.ErrInvalidStatus),
		errors.Is(err, board.ErrInvalidOwner):
		return http.StatusBadRequest

	case errors.Is(err, board.ErrJobNotOpenForAssignment),
		errors.Is(err, board.ErrCandidateAlreadyAssigned),
		errors.Is(err, board.ErrStatusAlreadySet),
		errors.Is(err, board.ErrJobTerminal),
		errors.Is(err, board.ErrInProgressNeedsCandidate),
		errors.Is(err, board.ErrInvalidTransitionFromOpen),
		errors.Is(err, board.ErrInvalidTransitionFromInProgress):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// writeRegistryError writes a registry error with its mapped status.
// Internal failures are logged and masked; domain rejections pass their
// message through to the client.
func (s *BoardServer) writeRegistryError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorw("Internal error", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
