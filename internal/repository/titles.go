package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetrack/cinetrack/internal/domain"
)

// TitlesRepository provides persistence helpers for cached title metadata.
type TitlesRepository struct {
	pool *pgxpool.Pool
}

const titleColumns = `
    imdb_id,
    title,
    year,
    type,
    rated,
    released,
    runtime,
    genre,
    director,
    writer,
    actors,
    plot,
    language,
    country,
    awards,
    poster,
    imdb_rating,
    imdb_votes,
    box_office,
    production,
    website,
    created_at,
    updated_at
`

// Insert persists a freshly resolved title. Titles are insert-only: when
// a concurrent resolution already stored the same imdb_id, the winner's
// row is returned instead of a uniqueness violation.
func (r *TitlesRepository) Insert(ctx context.Context, title domain.Title) (domain.Title, error) {
	query := fmt.Sprintf(`
        INSERT INTO titles (
            imdb_id, title, year, type, rated, released, runtime, genre,
            director, writer, actors, plot, language, country, awards,
            poster, imdb_rating, imdb_votes, box_office, production, website
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        ON CONFLICT (imdb_id) DO NOTHING
        RETURNING %s
    `, titleColumns)

	row := r.pool.QueryRow(ctx, query,
		title.ImdbID, title.Title, title.Year, title.Type,
		title.Rated, title.Released, title.Runtime, title.Genre,
		title.Director, title.Writer, title.Actors, title.Plot,
		title.Language, title.Country, title.Awards, title.Poster,
		title.ImdbRating, title.ImdbVotes, title.BoxOffice,
		title.Production, title.Website,
	)
	stored, err := scanTitle(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Lost the insert race; re-read the winner's row by key.
			return r.GetByImdbID(ctx, title.ImdbID)
		}
		return domain.Title{}, err
	}
	return stored, nil
}

// GetByImdbID fetches a cached title by its external identifier.
func (r *TitlesRepository) GetByImdbID(ctx context.Context, imdbID string) (domain.Title, error) {
	query := fmt.Sprintf(`SELECT %s FROM titles WHERE imdb_id = $1`, titleColumns)
	title, err := scanTitle(r.pool.QueryRow(ctx, query, imdbID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Title{}, ErrNotFound
		}
		return domain.Title{}, err
	}
	return title, nil
}

// ListByType returns locally cached titles of one content type, newest
// first, paginated.
func (r *TitlesRepository) ListByType(ctx context.Context, contentType string, page, limit int) ([]domain.Title, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	query := fmt.Sprintf(`
        SELECT %s FROM titles
        WHERE type = $1
        ORDER BY created_at DESC, imdb_id DESC
        LIMIT $2 OFFSET $3
    `, titleColumns)

	rows, err := r.pool.Query(ctx, query, contentType, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make([]domain.Title, 0, limit)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}

// Count reports how many titles are cached, optionally per content type.
func (r *TitlesRepository) Count(ctx context.Context, contentType *string) (int64, error) {
	var count int64
	var err error
	if contentType != nil {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM titles WHERE type = $1`, *contentType).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM titles`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return count, nil
}

func scanTitle(row pgx.Row) (domain.Title, error) {
	var title domain.Title
	err := row.Scan(
		&title.ImdbID,
		&title.Title,
		&title.Year,
		&title.Type,
		&title.Rated,
		&title.Released,
		&title.Runtime,
		&title.Genre,
		&title.Director,
		&title.Writer,
		&title.Actors,
		&title.Plot,
		&title.Language,
		&title.Country,
		&title.Awards,
		&title.Poster,
		&title.ImdbRating,
		&title.ImdbVotes,
		&title.BoxOffice,
		&title.Production,
		&title.Website,
		&title.CreatedAt,
		&title.UpdatedAt,
	)
	if err != nil {
		return domain.Title{}, err
	}
	return title, nil
}
