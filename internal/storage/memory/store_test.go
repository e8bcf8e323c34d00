package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fork(root, artist string, version int, services ...int64) domains.FormTemplate {
	return domains.FormTemplate{
		ID:                 fmt.Sprintf("%s-%s-%d", root, artist, version),
		ArtistID:           strPtr(artist),
		RootFormTemplateID: strPtr(root),
		VersionNumber:      version,
		Services:           services,
		Sections:           []domains.Section{{ID: "s1", Title: "Client"}},
	}
}

func TestInsertFormTemplateConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.InsertFormTemplate(ctx, domains.FormTemplate{ID: "consent"})
	require.NoError(t, err)

	_, err = s.InsertFormTemplate(ctx, domains.FormTemplate{ID: "consent"})
	require.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.InsertFormTemplate(ctx, fork("consent", "a1", 1))
	require.NoError(t, err)

	dup := fork("consent", "a1", 1)
	dup.ID = "other-id"
	_, err = s.InsertFormTemplate(ctx, dup)
	require.ErrorIs(t, err, storage.ErrConflict, "one version number per chain")
}

func TestGetLatestFormTemplateByArtist(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, v := range []int{2, 1, 3} {
		_, err := s.InsertFormTemplate(ctx, fork("consent", "a1", v))
		require.NoError(t, err)
	}
	_, err := s.InsertFormTemplate(ctx, fork("consent", "a2", 5))
	require.NoError(t, err)

	latest, err := s.GetLatestFormTemplateByArtist(ctx, "a1", "consent")
	require.NoError(t, err)
	assert.Equal(t, 3, latest.VersionNumber)

	_, err = s.GetLatestFormTemplateByArtist(ctx, "a3", "consent")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertFormTemplate(ctx, fork("consent", "a1", 1, 1))
	require.NoError(t, err)

	got, err := s.GetFormTemplateByID(ctx, "consent-a1-1")
	require.NoError(t, err)
	got.Sections[0].Title = "mutated"
	got.Services[0] = 99

	again, err := s.GetFormTemplateByID(ctx, "consent-a1-1")
	require.NoError(t, err)
	assert.Equal(t, "Client", again.Sections[0].Title)
	assert.Equal(t, []int64{1}, again.Services)
}

func TestListRootFormTemplates(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, root := range []domains.FormTemplate{
		{ID: "b", Order: 2, Services: []int64{1}},
		{ID: "a", Order: 2, Services: []int64{2}},
		{ID: "c", Order: 1, Services: []int64{3}},
		{ID: "gone", Services: []int64{1}, IsDeleted: true},
	} {
		_, err := s.InsertFormTemplate(ctx, root)
		require.NoError(t, err)
	}
	_, err := s.InsertFormTemplate(ctx, fork("a", "a1", 1, 1))
	require.NoError(t, err)

	all, err := s.ListRootFormTemplates(ctx, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	matched, err := s.ListRootFormTemplates(ctx, []int64{1, 3})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "c", matched[0].ID)
	assert.Equal(t, "b", matched[1].ID)
}

func TestForkOnlyMutations(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertFormTemplate(ctx, domains.FormTemplate{ID: "consent", Services: []int64{1}})
	require.NoError(t, err)
	_, err = s.InsertFormTemplate(ctx, fork("consent", "a1", 1, 1))
	require.NoError(t, err)

	_, err = s.UpdateFormTemplateServices(ctx, "consent", []int64{2})
	require.ErrorIs(t, err, storage.ErrNotFound, "roots are immutable")
	_, err = s.MarkFormTemplateDeleted(ctx, "consent", time.Now())
	require.ErrorIs(t, err, storage.ErrNotFound)

	updated, err := s.UpdateFormTemplateServices(ctx, "consent-a1-1", []int64{2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, updated.Services)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	deleted, err := s.MarkFormTemplateDeleted(ctx, "consent-a1-1", at)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, at, *deleted.DeletedAt)

	_, err = s.UpdateFormTemplateServices(ctx, "consent-a1-1", []int64{3})
	require.ErrorIs(t, err, storage.ErrNotFound, "deletion is terminal")
}

func TestReconciliationOutbox(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.EnqueueReconciliation(ctx, id))
	}

	first, err := s.ClaimReconciliations(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, first)

	rest, err := s.ClaimReconciliations(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3"}, rest)

	empty, err := s.ClaimReconciliations(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestArtists(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.ErrorIs(t, s.SetOfferedServices(ctx, "a1", []int64{1}), storage.ErrNotFound)

	s.PutArtist(domains.Artist{ID: "a1", OfferedServices: []int64{1, 2}})
	require.NoError(t, s.SetOfferedServices(ctx, "a1", []int64{2}))

	artist, err := s.GetArtist(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, artist.OfferedServices)
}
