package services_test

import (
	"context"
	"testing"

	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardService() services.NameCardService {
	return services.NewNameCardService(repositories.NewNameCardRepository())
}

func TestCardCreate_AllocatesSlugFromDisplayName(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-300", "Card Owner")

	view, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", view.Slug)
	assert.Equal(t, models.PublishStatusDraft, view.Status)
	assert.Nil(t, view.PublishedAt)

	// A second card with the same name gets a suffix instead of a conflict.
	view, err = svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-1", view.Slug)
}

func TestCardCreate_ExplicitSlugConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-301", "Owner A")
	other := createUser(t, db, "ext-302", "Owner B")

	_, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "A",
		Slug:        strPtr("chosen-slug"),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), db, other.ID, &dto.CreateCardRequest{
		DisplayName: "B",
		Slug:        strPtr("chosen-slug"),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestCardCreate_RejectsPrivateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-303", "Owner")

	_, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "C",
		Status:      "private",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestCardPublishTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-304", "Owner")

	view, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{DisplayName: "P"})
	require.NoError(t, err)

	// draft -> published stamps PublishedAt.
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Status: strPtr("published"),
	})
	require.NoError(t, err)
	require.NotNil(t, view.PublishedAt)
	stamped := *view.PublishedAt

	// Unrelated edit while published keeps the stamp.
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Title: strPtr("New Title"),
	})
	require.NoError(t, err)
	require.NotNil(t, view.PublishedAt)
	assert.True(t, stamped.Equal(*view.PublishedAt))

	// published -> draft clears it.
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Status: strPtr("draft"),
	})
	require.NoError(t, err)
	assert.Nil(t, view.PublishedAt)

	// Re-publishing stamps fresh instead of restoring the old time.
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Status: strPtr("published"),
	})
	require.NoError(t, err)
	require.NotNil(t, view.PublishedAt)
	assert.True(t, view.PublishedAt.After(stamped))
}

func TestCardGetOwned_OtherUsersCardIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-305", "Owner")
	stranger := createUser(t, db, "ext-306", "Stranger")

	view, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{DisplayName: "Mine"})
	require.NoError(t, err)

	// Not 403: existence of another user's card is not disclosed.
	_, err = svc.GetOwned(context.Background(), db, stranger.ID, view.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestCardUpdate_ReplacesChildCollections(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-307", "Owner")

	view, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "Linked",
		Links: []dto.CardLinkInput{
			{Platform: "instagram", URL: "https://instagram.com/a", SortOrder: 0},
			{Platform: "x", URL: "https://x.com/a", SortOrder: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.Links, 2)

	links := []dto.CardLinkInput{
		{Platform: "youtube", URL: "https://youtube.com/@a", SortOrder: 0},
	}
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Links: &links,
	})
	require.NoError(t, err)
	require.Len(t, view.Links, 1)
	assert.Equal(t, "youtube", view.Links[0].Platform)

	// Absent collection is untouched.
	view, err = svc.Update(context.Background(), db, owner.ID, view.ID, &dto.UpdateCardRequest{
		Title: strPtr("still linked"),
	})
	require.NoError(t, err)
	assert.Len(t, view.Links, 1)
}

func TestCardGetPublic_ProjectsVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-308", "Owner")

	created, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "Visible",
		Status:      "published",
		Phone:       "+123",
		ShowPhone:   false,
		Company:     "Acme",
		ShowCompany: true,
	})
	require.NoError(t, err)

	public, err := svc.GetPublic(context.Background(), db, created.Slug, "")
	require.NoError(t, err)
	assert.Nil(t, public.Phone)
	require.NotNil(t, public.Company)
	assert.Equal(t, "Acme", *public.Company)
	assert.False(t, public.ShowPhone)
	assert.True(t, public.ShowCompany)
	assert.False(t, public.IsOwner)

	// The owner is flagged but sees the same projection on the public path.
	asOwner, err := svc.GetPublic(context.Background(), db, created.Slug, owner.ID)
	require.NoError(t, err)
	assert.True(t, asOwner.IsOwner)
	assert.Nil(t, asOwner.Phone)

	// The owned-resource path is ungated.
	owned, err := svc.GetOwned(context.Background(), db, owner.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, owned.Phone)
	assert.Equal(t, "+123", *owned.Phone)
}

func TestCardGetPublic_DraftIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-309", "Owner")

	created, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{DisplayName: "Hidden"})
	require.NoError(t, err)

	_, err = svc.GetPublic(context.Background(), db, created.Slug, "")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestCardListPublic_CursorPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-310", "Owner")

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
			DisplayName: "Card",
			Status:      "published",
		})
		require.NoError(t, err)
	}

	page, err := svc.ListPublic(context.Background(), db, &dto.CursorQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	seen := map[string]bool{page.Items[0].ID: true, page.Items[1].ID: true}

	page, err = svc.ListPublic(context.Background(), db, &dto.CursorQuery{Cursor: page.NextCursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.False(t, seen[item.ID], "pages must not overlap")
		seen[item.ID] = true
	}

	page, err = svc.ListPublic(context.Background(), db, &dto.CursorQuery{Cursor: page.NextCursor, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Empty(t, page.NextCursor)
}

func TestCardDelete_CascadesChildren(t *testing.T) {
	db := newTestDB(t)
	svc := newCardService()
	owner := createUser(t, db, "ext-311", "Owner")

	view, err := svc.Create(context.Background(), db, owner.ID, &dto.CreateCardRequest{
		DisplayName: "Doomed",
		Images:      []dto.CardImageInput{{URL: "https://img.example.com/1.png"}},
		Links:       []dto.CardLinkInput{{URL: "https://x.com/doomed"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), db, owner.ID, view.ID))

	var imageCount, linkCount int64
	require.NoError(t, db.Model(&models.CardImage{}).Where("card_id = ?", view.ID).Count(&imageCount).Error)
	require.NoError(t, db.Model(&models.CardLink{}).Where("card_id = ?", view.ID).Count(&linkCount).Error)
	assert.Zero(t, imageCount)
	assert.Zero(t, linkCount)
}
