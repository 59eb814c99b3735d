package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dat-backend/internal/domains/alumni/model"
)

type fakeRepo struct {
	profiles []model.AlumniProfile
	upserted []model.AlumniProfile
	err      error
}

func (f *fakeRepo) All(ctx context.Context) ([]model.AlumniProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (*model.AlumniProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.profiles {
		if f.profiles[i].Slug == slug {
			p := f.profiles[i]
			return &p, nil
		}
	}
	return nil, model.ErrProfileNotFound
}

func (f *fakeRepo) Upsert(ctx context.Context, p model.AlumniProfile) error {
	f.upserted = append(f.upserted, p)
	return nil
}

type recordedChange struct {
	slug, field, before, after string
}

type fakeRecorder struct {
	changes []recordedChange
}

func (f *fakeRecorder) RecordChange(ctx context.Context, slug, field, before, after string) error {
	f.changes = append(f.changes, recordedChange{slug, field, before, after})
	return nil
}

func seedProfiles() []model.AlumniProfile {
	expired := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.AlumniProfile{
		{Slug: "jane-doe", Name: "Jane Doe", Status: model.StatusLive, Location: "NYC",
			CurrentUpdate: "Touring with a new show"},
		{Slug: "old-timer", Name: "Old Timer", Status: model.StatusLive,
			CurrentUpdate: "stale news", CurrentUpdateExpires: &expired},
		{Slug: "hidden-one", Name: "Hidden One", Status: model.StatusPending},
	}
}

func newTestService(repo *fakeRepo, rec ChangeRecorder) *alumniService {
	s := NewService(repo, rec).(*alumniService)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestListVisibleFiltersPending(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	views, err := svc.ListVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "jane-doe", views[0].Slug)
	assert.Equal(t, "old-timer", views[1].Slug)
}

func TestListVisibleBlanksExpiredUpdate(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	views, err := svc.ListVisible(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Touring with a new show", views[0].CurrentUpdate)
	assert.Empty(t, views[1].CurrentUpdate, "expired update must not leak into the projection")
}

func TestGetProfileNormalizesSlug(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	view, err := svc.GetProfile(context.Background(), "Jane-DOE")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", view.Slug)
}

func TestGetProfilePendingLooksAbsent(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	_, err := svc.GetProfile(context.Background(), "hidden-one")
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}

func TestGetProfileUnknownSlug(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	_, err := svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}

func TestUpdateProfileRecordsOneEntryPerChangedField(t *testing.T) {
	repo := &fakeRepo{profiles: seedProfiles()}
	rec := &fakeRecorder{}
	svc := newTestService(repo, rec)

	loc := "Berlin"
	update := "Directing a workshop"
	req := model.UpdateProfileRequest{Location: &loc, CurrentUpdate: &update}

	p, err := svc.UpdateProfile(context.Background(), "jane-doe", req)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", p.Location)

	require.Len(t, repo.upserted, 1)
	require.Len(t, rec.changes, 2)
	assert.Equal(t, recordedChange{"jane-doe", "location", "NYC", "Berlin"}, rec.changes[0])
	assert.Equal(t, recordedChange{"jane-doe", "currentUpdate", "Touring with a new show", "Directing a workshop"}, rec.changes[1])
}

func TestUpdateProfileNoopSkipsWriteAndAudit(t *testing.T) {
	repo := &fakeRepo{profiles: seedProfiles()}
	rec := &fakeRecorder{}
	svc := newTestService(repo, rec)

	same := "NYC"
	_, err := svc.UpdateProfile(context.Background(), "jane-doe", model.UpdateProfileRequest{Location: &same})
	require.NoError(t, err)
	assert.Empty(t, repo.upserted)
	assert.Empty(t, rec.changes)
}

func TestUpdateProfileRejectsBadStatus(t *testing.T) {
	repo := &fakeRepo{profiles: seedProfiles()}
	svc := newTestService(repo, nil)

	bad := "archived"
	_, err := svc.UpdateProfile(context.Background(), "jane-doe", model.UpdateProfileRequest{Status: &bad})
	assert.Error(t, err)
	assert.Empty(t, repo.upserted)
}

func TestUpdateProfileCanPublishPendingRow(t *testing.T) {
	repo := &fakeRepo{profiles: seedProfiles()}
	svc := newTestService(repo, nil)

	live := model.StatusLive
	p, err := svc.UpdateProfile(context.Background(), "hidden-one", model.UpdateProfileRequest{Status: &live})
	require.NoError(t, err)
	assert.True(t, p.Visible())
	require.Len(t, repo.upserted, 1)
}

func TestExportRosterIncludesPendingRows(t *testing.T) {
	svc := newTestService(&fakeRepo{profiles: seedProfiles()}, nil)

	f, err := svc.ExportRoster(context.Background())
	require.NoError(t, err)

	rows, err := f.GetRows("Alumni")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus all three rows, pending included")
	assert.Equal(t, "Slug", rows[0][0])
	assert.Equal(t, "hidden-one", rows[3][0])
}
