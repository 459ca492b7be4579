package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/telegram-movie-ingest/internal/db"
	"github.com/cinelog/telegram-movie-ingest/internal/db/models"
	"github.com/cinelog/telegram-movie-ingest/internal/db/testutil"
)

func strPtr(s string) *string { return &s }

func TestMovieRepository_UpsertMovie(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	movieRepo := NewMovieRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates new movie", func(t *testing.T) {
		td.TruncateTables(t)

		movie := &models.Movie{
			TGMessageID: 42,
			Title:       strPtr("Inception"),
			Director:    strPtr("C. Nolan"),
			Genre:       strPtr("Sci-Fi"),
			TGDate:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		}
		err := movieRepo.UpsertMovie(ctx, movie)
		require.NoError(t, err)

		stored, err := movieRepo.GetMovieByMessageID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Inception", *stored.Title)
		assert.Equal(t, "C. Nolan", *stored.Director)
		assert.Equal(t, "Sci-Fi", *stored.Genre)
		assert.Nil(t, stored.Link)
		assert.Nil(t, stored.CoverURL)
		assert.Nil(t, stored.UserID)
	})

	t.Run("re-run supersedes without duplicating", func(t *testing.T) {
		td.TruncateTables(t)

		first := &models.Movie{
			TGMessageID: 42,
			Title:       strPtr("Inception"),
			Synopsis:    strPtr("A thief steals secrets through dreams."),
			TGDate:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, movieRepo.UpsertMovie(ctx, first))

		second := &models.Movie{
			TGMessageID: 42,
			Title:       strPtr("Inception (2010)"),
			Genre:       strPtr("Sci-Fi"),
			TGDate:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, movieRepo.UpsertMovie(ctx, second))

		var count int
		err := td.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies WHERE tg_message_id = 42").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		stored, err := movieRepo.GetMovieByMessageID(ctx, 42)
		require.NoError(t, err)

		// Fields present on the second run win.
		assert.Equal(t, "Inception (2010)", *stored.Title)
		assert.Equal(t, "Sci-Fi", *stored.Genre)
		assert.Equal(t, second.TGDate.Unix(), stored.TGDate.Unix())

		// Fields absent from the second run keep their stored values.
		require.NotNil(t, stored.Synopsis)
		assert.Equal(t, "A thief steals secrets through dreams.", *stored.Synopsis)
	})

	t.Run("owner id persists", func(t *testing.T) {
		td.TruncateTables(t)

		owner := uuid.New()
		movie := &models.Movie{
			TGMessageID: 7,
			Title:       strPtr("Heat"),
			TGDate:      time.Now().UTC(),
			UserID:      &owner,
		}
		require.NoError(t, movieRepo.UpsertMovie(ctx, movie))

		stored, err := movieRepo.GetMovieByMessageID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, stored.UserID)
		assert.Equal(t, owner, *stored.UserID)
	})
}

func TestMovieRepository_GetMovieByMessageID(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	movieRepo := NewMovieRepository(td.Pool)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := movieRepo.GetMovieByMessageID(ctx, 999)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestMovieRepository_ListMoviesSince(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	movieRepo := NewMovieRepository(td.Pool)
	ctx := context.Background()

	td.TruncateTables(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		movie := &models.Movie{
			TGMessageID: i,
			Title:       strPtr("Movie"),
			TGDate:      base.AddDate(0, 0, int(i)),
		}
		require.NoError(t, movieRepo.UpsertMovie(ctx, movie))
	}

	movies, err := movieRepo.ListMoviesSince(ctx, base.AddDate(0, 0, 2), 10)
	require.NoError(t, err)

	require.Len(t, movies, 2)
	// Newest first.
	assert.Equal(t, int64(3), movies[0].TGMessageID)
	assert.Equal(t, int64(2), movies[1].TGMessageID)
}
