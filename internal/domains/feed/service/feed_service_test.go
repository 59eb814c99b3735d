package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dat-backend/internal/domains/feed/model"
)

type fakeFeedRepo struct {
	rows     []model.ProfileChangeRow
	appended []model.ProfileChangeRow
	upserted []model.ProfileChangeRow
	err      error
}

func (f *fakeFeedRepo) All(ctx context.Context) ([]model.ProfileChangeRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeFeedRepo) Append(ctx context.Context, row model.ProfileChangeRow) error {
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeFeedRepo) Upsert(ctx context.Context, row model.ProfileChangeRow) error {
	f.upserted = append(f.upserted, row)
	return nil
}

func at(day int) time.Time {
	return time.Date(2025, 7, day, 12, 0, 0, 0, time.UTC)
}

func seedChanges() []model.ProfileChangeRow {
	return []model.ProfileChangeRow{
		{ID: "5a0b49c2-3f6f-4f7e-9a4e-111111111111", Timestamp: at(1), AlumniSlug: "jane-doe", Field: "location", Before: "NYC", After: "Berlin"},
		{ID: "5a0b49c2-3f6f-4f7e-9a4e-222222222222", Timestamp: at(3), AlumniSlug: "old-timer", Field: "currentUpdate", After: "New show"},
		{ID: "5a0b49c2-3f6f-4f7e-9a4e-333333333333", Timestamp: at(2), AlumniSlug: "jane-doe", Field: "website", After: "https://jane.example", IsUndone: true},
	}
}

func TestFeedHidesUndoneAndSortsNewestFirst(t *testing.T) {
	svc := NewService(&fakeFeedRepo{rows: seedChanges()})

	feed, err := svc.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "old-timer", feed[0].AlumniSlug)
	assert.Equal(t, "jane-doe", feed[1].AlumniSlug)
}

func TestRecordChangeAppendsValidRow(t *testing.T) {
	repo := &fakeFeedRepo{}
	svc := NewService(repo).(*feedService)
	svc.now = func() time.Time { return at(10) }

	err := svc.RecordChange(context.Background(), "jane-doe", "location", "NYC", "Berlin")
	require.NoError(t, err)
	require.Len(t, repo.appended, 1)

	row := repo.appended[0]
	assert.NoError(t, uuid.Validate(row.ID))
	assert.Equal(t, at(10), row.Timestamp)
	assert.Equal(t, "location", row.Field)
	assert.False(t, row.IsUndone)
}

func TestUndoMarksRowWithoutDeleting(t *testing.T) {
	repo := &fakeFeedRepo{rows: seedChanges()}
	svc := NewService(repo)

	row, err := svc.Undo(context.Background(), "5a0b49c2-3f6f-4f7e-9a4e-111111111111")
	require.NoError(t, err)
	assert.True(t, row.IsUndone)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "location", repo.upserted[0].Field, "row content survives the undo")
}

func TestUndoAlreadyUndoneIsNoop(t *testing.T) {
	repo := &fakeFeedRepo{rows: seedChanges()}
	svc := NewService(repo)

	row, err := svc.Undo(context.Background(), "5a0b49c2-3f6f-4f7e-9a4e-333333333333")
	require.NoError(t, err)
	assert.True(t, row.IsUndone)
	assert.Empty(t, repo.upserted)
}

func TestUndoUnknownID(t *testing.T) {
	svc := NewService(&fakeFeedRepo{rows: seedChanges()})

	_, err := svc.Undo(context.Background(), "5a0b49c2-3f6f-4f7e-9a4e-999999999999")
	assert.ErrorIs(t, err, model.ErrChangeNotFound)
}
