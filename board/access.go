package board

// Authorization predicates. Identities are opaque strings supplied by the
// caller's environment; an empty owner slot (after renouncement) fails
// every owner check.

// requireAuthor rejects callers other than the job's author.
func requireAuthor(job *Job, caller string) error {
	if caller != job.Author {
		return ErrOnlyAuthor
	}
	return nil
}

// requireAuthorOrOwner rejects callers that are neither the job's author
// nor the current board owner.
func requireAuthorOrOwner(job *Job, caller, owner string) error {
	if caller == job.Author {
		return nil
	}
	if owner != "" && caller == owner {
		return nil
	}
	return ErrOnlyAuthorOrOwner
}

// requireOwner rejects callers other than the current board owner.
func requireOwner(caller, owner string) error {
	if owner == "" || caller != owner {
		return ErrNotOwner
	}
	return nil
}
