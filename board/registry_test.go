package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbtesting "github.com/cheachwood/GitOnBoard/internal/testing"
)

func newTestRegistry(t *testing.T, initialOwner string) *Registry {
	t.Helper()

	database := gbtesting.CreateTestDB(t)
	registry, err := NewRegistry(database, initialOwner, nil)
	require.NoError(t, err)
	return registry
}

func TestCreateJob(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	assert.Equal(t, int64(1), job.ID)
	assert.Equal(t, StatusOpen, job.Status)
	assert.True(t, job.IsActive)
	assert.Equal(t, "alice", job.Author)
	assert.Equal(t, int64(500), job.DailyRate)
	assert.False(t, job.HasCandidate())
	assert.WithinDuration(t, time.Now().UTC(), job.CreationDate, 5*time.Second)
}

func TestCreateJobValidation(t *testing.T) {
	registry := newTestRegistry(t, "")

	_, err := registry.CreateJob("", 500, "Backend developer")
	assert.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = registry.CreateJob("alice", 0, "Backend developer")
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = registry.CreateJob("alice", 500, "")
	assert.ErrorIs(t, err, ErrEmptyDescription)

	// Nothing was persisted by the rejected calls
	jobs, err := registry.ListJobs()
	require.NoError(t, err)
	assert.Empty(t, jobs)

	events, err := registry.ListEvents(0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestJobIDsAreSequential(t *testing.T) {
	registry := newTestRegistry(t, "")

	for i := 1; i <= 5; i++ {
		job, err := registry.CreateJob("alice", 100, "Job posting")
		require.NoError(t, err)
		assert.Equal(t, int64(i), job.ID)
	}
}

func TestUpdateJob(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	updated, err := registry.UpdateJob(job.ID, "alice", 650, "Senior backend developer")
	require.NoError(t, err)
	assert.Equal(t, int64(650), updated.DailyRate)
	assert.Equal(t, "Senior backend developer", updated.Description)

	// Identity fields survive the update
	assert.Equal(t, job.ID, updated.ID)
	assert.Equal(t, "alice", updated.Author)
	assert.Equal(t, StatusOpen, updated.Status)
}

func TestUpdateJobAuthorization(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	_, err = registry.UpdateJob(job.ID, "bob", 650, "Hijacked")
	assert.ErrorIs(t, err, ErrOnlyAuthor)

	_, err = registry.UpdateJob(999, "alice", 650, "Missing")
	assert.ErrorIs(t, err, ErrJobDoesNotExist)

	// Rejected update left the job unchanged
	current, err := registry.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), current.DailyRate)
	assert.Equal(t, "Backend developer", current.Description)
}

func TestAssignCandidate(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	assigned, err := registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "bob.dupont@mail.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", assigned.Candidate)
	assert.Equal(t, "Bob Dupont", assigned.CandidateName)
	assert.Equal(t, "bob.dupont@mail.com", assigned.CandidateEmail)
	assert.True(t, assigned.HasCandidate())
}

func TestAssignCandidateRejections(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	_, err = registry.AssignCandidate(999, "bob", "Bob Dupont", "bob@mail.com")
	assert.ErrorIs(t, err, ErrJobDoesNotExist)

	_, err = registry.AssignCandidate(job.ID, "", "Bob Dupont", "bob@mail.com")
	assert.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = registry.AssignCandidate(job.ID, "bob", "", "bob@mail.com")
	assert.ErrorIs(t, err, ErrCandidateNameEmpty)

	_, err = registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "")
	assert.ErrorIs(t, err, ErrCandidateEmailEmpty)

	_, err = registry.AssignCandidate(job.ID, "alice", "Alice Martin", "alice@mail.com")
	assert.ErrorIs(t, err, ErrCannotApplyToOwnJob)

	// First valid assignment wins; the slot never changes afterwards
	_, err = registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "bob@mail.com")
	require.NoError(t, err)
	_, err = registry.AssignCandidate(job.ID, "carol", "Carol Bernard", "carol@mail.com")
	assert.ErrorIs(t, err, ErrCandidateAlreadyAssigned)

	current, err := registry.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", current.Candidate)
}

func TestAssignCandidateRequiresOpen(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)
	_, err = registry.ChangeStatus(job.ID, "alice", StatusCancelled)
	require.NoError(t, err)

	_, err = registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "bob@mail.com")
	assert.ErrorIs(t, err, ErrJobNotOpenForAssignment)
}

func TestChangeStatusFullLifecycle(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)
	_, err = registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "bob@mail.com")
	require.NoError(t, err)

	// Open -> InProgress -> Open -> InProgress -> Completed
	for _, target := range []Status{StatusInProgress, StatusOpen, StatusInProgress, StatusCompleted} {
		updated, err := registry.ChangeStatus(job.ID, "alice", target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}

	// Completed is terminal
	_, err = registry.ChangeStatus(job.ID, "alice", StatusOpen)
	assert.ErrorIs(t, err, ErrJobTerminal)
}

func TestChangeStatusRejections(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	_, err = registry.ChangeStatus(999, "alice", StatusCancelled)
	assert.ErrorIs(t, err, ErrJobDoesNotExist)

	// Authorization runs before lifecycle checks
	_, err = registry.ChangeStatus(job.ID, "bob", StatusOpen)
	assert.ErrorIs(t, err, ErrOnlyAuthor)

	_, err = registry.ChangeStatus(job.ID, "alice", StatusOpen)
	assert.ErrorIs(t, err, ErrStatusAlreadySet)

	_, err = registry.ChangeStatus(job.ID, "alice", StatusInProgress)
	assert.ErrorIs(t, err, ErrInProgressNeedsCandidate)

	_, err = registry.ChangeStatus(job.ID, "alice", StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransitionFromOpen)

	_, err = registry.ChangeStatus(job.ID, "alice", Status(7))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	current, err := registry.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, current.Status)
}

func TestToggleActive(t *testing.T) {
	registry := newTestRegistry(t, "olivia")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	// Author may toggle
	toggled, err := registry.ToggleActive(job.ID, "alice")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	// Owner may toggle it back
	toggled, err = registry.ToggleActive(job.ID, "olivia")
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	// Anyone else may not
	_, err = registry.ToggleActive(job.ID, "mallory")
	assert.ErrorIs(t, err, ErrOnlyAuthorOrOwner)

	// Toggling works regardless of status
	_, err = registry.ChangeStatus(job.ID, "alice", StatusCancelled)
	require.NoError(t, err)
	_, err = registry.ToggleActive(job.ID, "alice")
	require.NoError(t, err)
}

func TestListActiveJobs(t *testing.T) {
	registry := newTestRegistry(t, "")

	first, err := registry.CreateJob("alice", 500, "First")
	require.NoError(t, err)
	_, err = registry.CreateJob("alice", 600, "Second")
	require.NoError(t, err)

	_, err = registry.ToggleActive(first.ID, "alice")
	require.NoError(t, err)

	all, err := registry.ListJobs()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := registry.ListActiveJobs()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Second", active[0].Description)
}

func TestOwnershipBootstrap(t *testing.T) {
	registry := newTestRegistry(t, "olivia")

	owner, err := registry.Owner()
	require.NoError(t, err)
	assert.Equal(t, "olivia", owner)

	// Bootstrap is recorded as a transfer from the empty identity
	events, err := registry.ListEvents(0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventOwnershipTransferred, events[0].Type)

	var payload OwnershipTransferredPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "", payload.PreviousOwner)
	assert.Equal(t, "olivia", payload.NewOwner)
}

func TestOwnershipBootstrapRunsOnce(t *testing.T) {
	database := gbtesting.CreateTestDB(t)

	registry, err := NewRegistry(database, "olivia", nil)
	require.NoError(t, err)
	require.NoError(t, registry.TransferOwnership("olivia", "oscar"))

	// A restart with the original configured owner must not undo the transfer
	restarted, err := NewRegistry(database, "olivia", nil)
	require.NoError(t, err)

	owner, err := restarted.Owner()
	require.NoError(t, err)
	assert.Equal(t, "oscar", owner)
}

func TestTransferOwnership(t *testing.T) {
	registry := newTestRegistry(t, "olivia")

	err := registry.TransferOwnership("mallory", "mallory")
	assert.ErrorIs(t, err, ErrNotOwner)

	err = registry.TransferOwnership("olivia", "")
	assert.ErrorIs(t, err, ErrInvalidOwner)

	err = registry.TransferOwnership("olivia", "oscar")
	require.NoError(t, err)

	owner, err := registry.Owner()
	require.NoError(t, err)
	assert.Equal(t, "oscar", owner)

	// Previous owner lost the role
	err = registry.TransferOwnership("olivia", "olivia")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRenounceOwnership(t *testing.T) {
	registry := newTestRegistry(t, "olivia")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	err = registry.RenounceOwnership("mallory")
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, registry.RenounceOwnership("olivia"))

	owner, err := registry.Owner()
	require.NoError(t, err)
	assert.Equal(t, "", owner)

	// Renouncement is permanent: owner checks never match again, not even
	// for the former owner
	assert.ErrorIs(t, registry.TransferOwnership("olivia", "oscar"), ErrNotOwner)
	assert.ErrorIs(t, registry.RenounceOwnership("olivia"), ErrNotOwner)
	_, err = registry.ToggleActive(job.ID, "olivia")
	assert.ErrorIs(t, err, ErrOnlyAuthorOrOwner)

	// The author is unaffected
	_, err = registry.ToggleActive(job.ID, "alice")
	assert.NoError(t, err)
}

func TestEventLogRecordsEveryMutation(t *testing.T) {
	registry := newTestRegistry(t, "")

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)
	_, err = registry.UpdateJob(job.ID, "alice", 600, "Senior backend developer")
	require.NoError(t, err)
	_, err = registry.AssignCandidate(job.ID, "bob", "Bob Dupont", "bob@mail.com")
	require.NoError(t, err)
	_, err = registry.ChangeStatus(job.ID, "alice", StatusInProgress)
	require.NoError(t, err)
	_, err = registry.ToggleActive(job.ID, "alice")
	require.NoError(t, err)

	// A rejected mutation adds nothing
	_, err = registry.ChangeStatus(job.ID, "mallory", StatusCompleted)
	require.Error(t, err)

	events, err := registry.ListEvents(0)
	require.NoError(t, err)
	require.Len(t, events, 5)

	// Newest first, sequence strictly decreasing
	types := make([]string, len(events))
	for i, event := range events {
		types[i] = event.Type
		if i > 0 {
			assert.Less(t, event.Seq, events[i-1].Seq)
		}
	}
	assert.Equal(t, []string{
		EventJobToggled,
		EventJobUpdated,
		EventCandidateAssigned,
		EventJobEdited,
		EventNewJob,
	}, types)

	// Payloads round-trip the mutation's fields
	var created NewJobPayload
	require.NoError(t, json.Unmarshal(events[4].Payload, &created))
	assert.Equal(t, job.ID, created.ID)
	assert.Equal(t, "alice", created.Author)
	assert.Equal(t, int64(500), created.DailyRate)

	var statusChange JobUpdatedPayload
	require.NoError(t, json.Unmarshal(events[1].Payload, &statusChange))
	assert.Equal(t, StatusInProgress, statusChange.NewStatus)
}

func TestListEventsLimit(t *testing.T) {
	registry := newTestRegistry(t, "")

	for i := 0; i < 5; i++ {
		_, err := registry.CreateJob("alice", 100, "Job posting")
		require.NoError(t, err)
	}

	events, err := registry.ListEvents(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(5), events[0].JobID)
	assert.Equal(t, int64(4), events[1].JobID)
}

func TestSubscribeReceivesCommittedEvents(t *testing.T) {
	registry := newTestRegistry(t, "")

	ch := registry.Subscribe()
	defer registry.Unsubscribe(ch)

	job, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	select {
	case event := <-ch:
		assert.Equal(t, EventNewJob, event.Type)
		assert.Equal(t, job.ID, event.JobID)
		assert.Equal(t, "alice", event.Actor)
		assert.NotZero(t, event.Seq)
	case <-time.After(time.Second):
		t.Fatal("expected an event after commit")
	}

	// Rejected mutations notify nobody
	_, err = registry.CreateJob("alice", -1, "Bad")
	require.Error(t, err)
	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s for a rejected mutation", event.Type)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	registry := newTestRegistry(t, "")

	ch := registry.Subscribe()
	registry.Unsubscribe(ch)

	_, err := registry.CreateJob("alice", 500, "Backend developer")
	require.NoError(t, err)

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s after unsubscribe", event.Type)
	default:
	}
}
