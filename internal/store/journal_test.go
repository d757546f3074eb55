package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncJournal_AppendAndFinish(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.AppendSyncJob(ctx, "projectCommitments", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	jobs, err := s.ListRecentSyncJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, SyncStatusRequested, jobs[0].Status)
	assert.Equal(t, "projectCommitments", jobs[0].Resource)
	assert.Equal(t, "p1", jobs[0].ProjectID)
	assert.Nil(t, jobs[0].FinishedAt)

	require.NoError(t, s.FinishSyncJob(ctx, id, SyncStatusSucceeded, ""))

	jobs, err = s.ListRecentSyncJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, SyncStatusSucceeded, jobs[0].Status)
	assert.Empty(t, jobs[0].Error)
	require.NotNil(t, jobs[0].FinishedAt)
}

func TestSyncJournal_FailureKeepsError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.AppendSyncJob(ctx, "projects", "")
	require.NoError(t, err)

	require.NoError(t, s.FinishSyncJob(ctx, id, SyncStatusFailed, "remote returned 502"))

	jobs, err := s.ListRecentSyncJobs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, SyncStatusFailed, jobs[0].Status)
	assert.Equal(t, "remote returned 502", jobs[0].Error)
}

func TestFinishSyncJob_InvalidStatusAndUnknownID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.FinishSyncJob(ctx, "any", "running", ""))
	assert.Error(t, s.FinishSyncJob(ctx, "missing-id", SyncStatusSucceeded, ""))
}

func TestListRecentSyncJobs_OrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last string
	for _, res := range []string{"projects", "projectBudget", "projectCommitments"} {
		id, err := s.AppendSyncJob(ctx, res, "p1")
		require.NoError(t, err)
		last = id
	}

	jobs, err := s.ListRecentSyncJobs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	// UUIDv7 ids are time-sortable, so the tie-break on id keeps insertion
	// order stable even when timestamps collide.
	assert.Equal(t, last, jobs[0].ID)
}
