package board

import (
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cheachwood/GitOnBoard/errors"
)

const (
	// SubscriberChannelBufferSize is the buffer size for event subscriber channels
	SubscriberChannelBufferSize = 100
)

// Registry is the single-writer coordinator over the job store.
//
// Every mutation takes the registry mutex, runs its validations against
// the current state and commits exactly one transaction containing both
// the record change and its event row. Rejected calls commit nothing.
// Subscribers are notified after commit, so they only ever see durable
// events. Reads bypass the mutex and observe committed state.
type Registry struct {
	store  *Store
	logger *zap.SugaredLogger

	mu          sync.Mutex // serializes mutations
	subMu       sync.RWMutex
	subscribers []chan *Event
}

// NewRegistry creates a registry over the given database and installs the
// initial owner on first startup. The bootstrap is recorded as an
// OwnershipTransferred event from the empty identity, and happens only
// once: later startups leave the (possibly transferred or renounced)
// owner slot alone.
func NewRegistry(db *sql.DB, initialOwner string, logger *zap.SugaredLogger) (*Registry, error) {
	r := &Registry{
		store:       NewStore(db),
		logger:      logger,
		subscribers: make([]chan *Event, 0),
	}

	bootstrapped, err := r.store.hasMetaRow()
	if err != nil {
		return nil, err
	}
	if !bootstrapped && initialOwner != "" {
		if err := r.bootstrapOwner(initialOwner); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Store returns the underlying store for read-only access.
func (r *Registry) Store() *Store {
	return r.store
}

func (r *Registry) bootstrapOwner(owner string) error {
	event, err := newEvent(EventOwnershipTransferred, 0, owner, OwnershipTransferredPayload{
		PreviousOwner: "",
		NewOwner:      owner,
	})
	if err != nil {
		return err
	}

	err = r.inTx(func(tx *sql.Tx) error {
		if err := setOwnerTx(tx, owner); err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return errors.Wrap(err, "bootstrap owner")
	}

	if r.logger != nil {
		r.logger.Infow("Board owner installed", "owner", owner)
	}
	return nil
}

// inTx runs fn inside a transaction with rollback on error.
func (r *Registry) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.store.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// CreateJob creates a new Open, active job authored by caller and returns it.
func (r *Registry) CreateJob(caller string, dailyRate int64, description string) (*Job, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}
	if err := ValidatePosting(dailyRate, description); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var job *Job
	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		id, err := nextJobIDTx(tx)
		if err != nil {
			return err
		}

		job = &Job{
			ID:           id,
			CreationDate: time.Now().UTC(),
			DailyRate:    dailyRate,
			Description:  description,
			Status:       StatusOpen,
			IsActive:     true,
			Author:       caller,
		}
		if err := insertJobTx(tx, job); err != nil {
			return err
		}

		event, err = newEvent(EventNewJob, id, caller, NewJobPayload{
			ID:          id,
			Author:      caller,
			DailyRate:   dailyRate,
			Description: description,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("Job created", "job_id", job.ID, "author", caller, "daily_rate", dailyRate)
	}
	r.notifySubscribers(event)
	return job, nil
}

// UpdateJob rewrites a job's rate and description. Author only.
func (r *Registry) UpdateJob(id int64, caller string, dailyRate int64, description string) (*Job, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var job *Job
	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		var err error
		job, err = getJobTx(tx, id)
		if err != nil {
			return err
		}
		if err := requireAuthor(job, caller); err != nil {
			return err
		}
		if err := ValidatePosting(dailyRate, description); err != nil {
			return err
		}

		job.DailyRate = dailyRate
		job.Description = description
		if err := updateJobTx(tx, job); err != nil {
			return err
		}

		event, err = newEvent(EventJobEdited, id, caller, JobEditedPayload{
			ID:          id,
			Author:      caller,
			DailyRate:   dailyRate,
			Description: description,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("Job updated", "job_id", id, "author", caller)
	}
	r.notifySubscribers(event)
	return job, nil
}

// AssignCandidate assigns caller as the job's candidate with the given
// contact details. A job accepts exactly one candidate, only while Open,
// and never its own author.
func (r *Registry) AssignCandidate(id int64, caller, name, email string) (*Job, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var job *Job
	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		var err error
		job, err = getJobTx(tx, id)
		if err != nil {
			return err
		}
		if err := ValidateAssignment(job, caller, name, email); err != nil {
			return err
		}

		job.Candidate = caller
		job.CandidateName = name
		job.CandidateEmail = email
		if err := updateJobTx(tx, job); err != nil {
			return err
		}

		event, err = newEvent(EventCandidateAssigned, id, caller, CandidateAssignedPayload{
			ID:             id,
			Candidate:      caller,
			CandidateName:  name,
			CandidateEmail: email,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("Candidate assigned", "job_id", id, "candidate", caller)
	}
	r.notifySubscribers(event)
	return job, nil
}

// ChangeStatus moves a job along the lifecycle graph. Author only.
func (r *Registry) ChangeStatus(id int64, caller string, newStatus Status) (*Job, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var job *Job
	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		var err error
		job, err = getJobTx(tx, id)
		if err != nil {
			return err
		}
		if err := requireAuthor(job, caller); err != nil {
			return err
		}
		if err := ValidateTransition(job.Status, newStatus, job.HasCandidate()); err != nil {
			return err
		}

		job.Status = newStatus
		if err := updateJobTx(tx, job); err != nil {
			return err
		}

		event, err = newEvent(EventJobUpdated, id, caller, JobUpdatedPayload{
			ID:        id,
			NewStatus: newStatus,
			Author:    caller,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("Job status changed", "job_id", id, "new_status", newStatus.String())
	}
	r.notifySubscribers(event)
	return job, nil
}

// ToggleActive flips a job's visibility flag. Author or board owner, any
// status, any number of times.
func (r *Registry) ToggleActive(id int64, caller string) (*Job, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var job *Job
	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		var err error
		job, err = getJobTx(tx, id)
		if err != nil {
			return err
		}
		owner, err := ownerTx(tx)
		if err != nil {
			return err
		}
		if err := requireAuthorOrOwner(job, caller, owner); err != nil {
			return err
		}

		job.IsActive = !job.IsActive
		if err := updateJobTx(tx, job); err != nil {
			return err
		}

		event, err = newEvent(EventJobToggled, id, caller, JobToggledPayload{
			ID:       id,
			IsActive: job.IsActive,
			Author:   job.Author,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Infow("Job toggled", "job_id", id, "is_active", job.IsActive)
	}
	r.notifySubscribers(event)
	return job, nil
}

// TransferOwnership hands the board to a new, non-empty owner. Owner only.
func (r *Registry) TransferOwnership(caller, newOwner string) error {
	if caller == "" {
		return ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		owner, err := ownerTx(tx)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, owner); err != nil {
			return err
		}
		if newOwner == "" {
			return ErrInvalidOwner
		}

		if err := setOwnerTx(tx, newOwner); err != nil {
			return err
		}

		event, err = newEvent(EventOwnershipTransferred, 0, caller, OwnershipTransferredPayload{
			PreviousOwner: owner,
			NewOwner:      newOwner,
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Infow("Ownership transferred", "previous_owner", caller, "new_owner", newOwner)
	}
	r.notifySubscribers(event)
	return nil
}

// RenounceOwnership clears the owner slot. Owner only, and permanent:
// every owner-gated operation fails afterwards.
func (r *Registry) RenounceOwnership(caller string) error {
	if caller == "" {
		return ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var event *Event
	err := r.inTx(func(tx *sql.Tx) error {
		owner, err := ownerTx(tx)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, owner); err != nil {
			return err
		}

		if err := setOwnerTx(tx, ""); err != nil {
			return err
		}

		event, err = newEvent(EventOwnershipTransferred, 0, caller, OwnershipTransferredPayload{
			PreviousOwner: owner,
			NewOwner:      "",
		})
		if err != nil {
			return err
		}
		return appendEvent(tx, event)
	})
	if err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Infow("Ownership renounced", "previous_owner", caller)
	}
	r.notifySubscribers(event)
	return nil
}

// GetJob retrieves a single job.
func (r *Registry) GetJob(id int64) (*Job, error) {
	return r.store.GetJob(id)
}

// ListJobs returns every job in ascending id order.
func (r *Registry) ListJobs() ([]*Job, error) {
	return r.store.ListJobs()
}

// ListActiveJobs returns active jobs in ascending id order.
func (r *Registry) ListActiveJobs() ([]*Job, error) {
	return r.store.ListActiveJobs()
}

// Owner returns the current board owner, or empty.
func (r *Registry) Owner() (string, error) {
	return r.store.Owner()
}

// ListEvents returns recent events, newest first.
func (r *Registry) ListEvents(limit int) ([]*Event, error) {
	return r.store.ListEvents(limit)
}

// Subscribe returns a channel receiving every committed event. The channel
// is buffered; subscribers that fall behind lose events rather than block
// mutations.
func (r *Registry) Subscribe() chan *Event {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	ch := make(chan *Event, SubscriberChannelBufferSize)
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel. The channel is not closed, so
// a racing notify cannot panic.
func (r *Registry) Unsubscribe(ch chan *Event) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	for i, sub := range r.subscribers {
		if sub == ch {
			r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
			break
		}
	}
}

// notifySubscribers delivers an event to all subscribers without blocking.
func (r *Registry) notifySubscribers(event *Event) {
	if event == nil {
		return
	}

	r.subMu.RLock()
	defer r.subMu.RUnlock()

	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full, drop rather than block the mutation path
			if r.logger != nil {
				r.logger.Warnw("Event subscriber buffer full, dropping event",
					"event_type", event.Type,
					"seq", event.Seq,
				)
			}
		}
	}
}
