package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbtesting "github.com/cheachwood/GitOnBoard/internal/testing"
)

func TestStoreGetJobNotFound(t *testing.T) {
	store := NewStore(gbtesting.CreateTestDB(t))

	_, err := store.GetJob(42)
	assert.ErrorIs(t, err, ErrJobDoesNotExist)
}

func TestStoreOwnerDefaultsToEmpty(t *testing.T) {
	store := NewStore(gbtesting.CreateTestDB(t))

	owner, err := store.Owner()
	require.NoError(t, err)
	assert.Equal(t, "", owner)

	exists, err := store.hasMetaRow()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreOwnerSlot(t *testing.T) {
	database := gbtesting.CreateTestDB(t)
	store := NewStore(database)

	setOwner := func(owner string) {
		tx, err := database.Begin()
		require.NoError(t, err)
		require.NoError(t, setOwnerTx(tx, owner))
		require.NoError(t, tx.Commit())
	}

	setOwner("olivia")
	owner, err := store.Owner()
	require.NoError(t, err)
	assert.Equal(t, "olivia", owner)

	// Upsert keeps the single meta row
	setOwner("oscar")
	owner, err = store.Owner()
	require.NoError(t, err)
	assert.Equal(t, "oscar", owner)

	// The slot survives being emptied, distinct from never-bootstrapped
	setOwner("")
	exists, err := store.hasMetaRow()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreListJobsOrdering(t *testing.T) {
	registry := newTestRegistry(t, "")

	for _, description := range []string{"first", "second", "third"} {
		_, err := registry.CreateJob("alice", 100, description)
		require.NoError(t, err)
	}

	jobs, err := registry.Store().ListJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	for i, job := range jobs {
		assert.Equal(t, int64(i+1), job.ID)
	}
}

func TestStoreJobRoundTrip(t *testing.T) {
	registry := newTestRegistry(t, "")

	created, err := registry.CreateJob("alice", 750, "Développeur Rust - Smart contracts Solana")
	require.NoError(t, err)
	_, err = registry.AssignCandidate(created.ID, "bob", "Bob Dupont", "bob.dupont@mail.com")
	require.NoError(t, err)

	loaded, err := registry.Store().GetJob(created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, int64(750), loaded.DailyRate)
	assert.Equal(t, "Développeur Rust - Smart contracts Solana", loaded.Description)
	assert.Equal(t, StatusOpen, loaded.Status)
	assert.True(t, loaded.IsActive)
	assert.Equal(t, "alice", loaded.Author)
	assert.Equal(t, "bob", loaded.Candidate)
	assert.Equal(t, "Bob Dupont", loaded.CandidateName)
	assert.Equal(t, "bob.dupont@mail.com", loaded.CandidateEmail)
}

func TestStoreGetStats(t *testing.T) {
	registry := newTestRegistry(t, "")

	first, err := registry.CreateJob("alice", 500, "First")
	require.NoError(t, err)
	second, err := registry.CreateJob("alice", 600, "Second")
	require.NoError(t, err)
	_, err = registry.CreateJob("bob", 700, "Third")
	require.NoError(t, err)

	_, err = registry.ToggleActive(first.ID, "alice")
	require.NoError(t, err)
	_, err = registry.AssignCandidate(second.ID, "carol", "Carol Bernard", "carol@mail.com")
	require.NoError(t, err)
	_, err = registry.ChangeStatus(second.ID, "alice", StatusInProgress)
	require.NoError(t, err)

	stats, err := registry.Store().GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalJobs)
	assert.Equal(t, int64(2), stats.ActiveJobs)
	assert.Equal(t, int64(2), stats.OpenJobs)
	// 3 creates + toggle + assignment + status change
	assert.Equal(t, int64(6), stats.TotalEvents)
}
