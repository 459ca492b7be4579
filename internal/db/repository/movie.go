package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinelog/telegram-movie-ingest/internal/db"
	"github.com/cinelog/telegram-movie-ingest/internal/db/models"
)

// MovieRepository defines operations for managing ingested movies.
type MovieRepository interface {
	// UpsertMovie creates a new movie or supersedes the existing row
	// keyed on the source message id. Attributes that are nil on the
	// incoming record leave the stored values untouched.
	UpsertMovie(ctx context.Context, movie *models.Movie) error

	// GetMovieByMessageID retrieves a single movie by its source
	// message id.
	GetMovieByMessageID(ctx context.Context, messageID int64) (*models.Movie, error)

	// ListMoviesSince retrieves movies whose source timestamp is at or
	// after the given time, newest first.
	ListMoviesSince(ctx context.Context, since time.Time, limit int) ([]*models.Movie, error)
}

type movieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &movieRepository{pool: pool}
}

func (r *movieRepository) UpsertMovie(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (tg_message_id, title, link, synopsis, director, product, stars, imdb, release_info, genre, cover_url, tg_date, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tg_message_id) DO UPDATE
		SET title = COALESCE(EXCLUDED.title, movies.title),
		    link = COALESCE(EXCLUDED.link, movies.link),
		    synopsis = COALESCE(EXCLUDED.synopsis, movies.synopsis),
		    director = COALESCE(EXCLUDED.director, movies.director),
		    product = COALESCE(EXCLUDED.product, movies.product),
		    stars = COALESCE(EXCLUDED.stars, movies.stars),
		    imdb = COALESCE(EXCLUDED.imdb, movies.imdb),
		    release_info = COALESCE(EXCLUDED.release_info, movies.release_info),
		    genre = COALESCE(EXCLUDED.genre, movies.genre),
		    cover_url = COALESCE(EXCLUDED.cover_url, movies.cover_url),
		    tg_date = EXCLUDED.tg_date,
		    user_id = COALESCE(EXCLUDED.user_id, movies.user_id)
	`

	_, err := r.pool.Exec(ctx, query,
		movie.TGMessageID,
		movie.Title,
		movie.Link,
		movie.Synopsis,
		movie.Director,
		movie.Product,
		movie.Stars,
		movie.IMDB,
		movie.ReleaseInfo,
		movie.Genre,
		movie.CoverURL,
		movie.TGDate,
		movie.UserID,
	)

	if err != nil {
		return db.WrapError(err, "upsert movie")
	}

	return nil
}

func (r *movieRepository) GetMovieByMessageID(ctx context.Context, messageID int64) (*models.Movie, error) {
	query := `
		SELECT tg_message_id, title, link, synopsis, director, product, stars, imdb, release_info, genre, cover_url, tg_date, user_id
		FROM movies
		WHERE tg_message_id = $1
	`

	movie := &models.Movie{}
	err := r.pool.QueryRow(ctx, query, messageID).Scan(
		&movie.TGMessageID,
		&movie.Title,
		&movie.Link,
		&movie.Synopsis,
		&movie.Director,
		&movie.Product,
		&movie.Stars,
		&movie.IMDB,
		&movie.ReleaseInfo,
		&movie.Genre,
		&movie.CoverURL,
		&movie.TGDate,
		&movie.UserID,
	)

	if err != nil {
		return nil, db.WrapError(err, "get movie by message id")
	}

	return movie, nil
}

func (r *movieRepository) ListMoviesSince(ctx context.Context, since time.Time, limit int) ([]*models.Movie, error) {
	query := `
		SELECT tg_message_id, title, link, synopsis, director, product, stars, imdb, release_info, genre, cover_url, tg_date, user_id
		FROM movies
		WHERE tg_date >= $1
		ORDER BY tg_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, db.WrapError(err, "list movies since")
	}
	defer rows.Close()

	return scanMovies(rows)
}

// Helper function to scan multiple movies from query results
func scanMovies(rows pgx.Rows) ([]*models.Movie, error) {
	var movies []*models.Movie

	for rows.Next() {
		movie := &models.Movie{}
		err := rows.Scan(
			&movie.TGMessageID,
			&movie.Title,
			&movie.Link,
			&movie.Synopsis,
			&movie.Director,
			&movie.Product,
			&movie.Stars,
			&movie.IMDB,
			&movie.ReleaseInfo,
			&movie.Genre,
			&movie.CoverURL,
			&movie.TGDate,
			&movie.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}
