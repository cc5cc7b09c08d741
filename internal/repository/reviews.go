package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetrack/cinetrack/internal/domain"
)

// ReviewsRepository provides helpers for per-user title reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `id, user_id, imdb_id, rating, comment, created_at, updated_at`

// ReviewUpsertParams captures the payload required to upsert a review.
type ReviewUpsertParams struct {
	UserID  string
	ImdbID  string
	Rating  int
	Comment *string
}

// Upsert inserts or overwrites the user's review for a title and
// indicates whether it was newly created. The (user_id, imdb_id)
// uniqueness constraint guarantees one vote per user.
func (r *ReviewsRepository) Upsert(ctx context.Context, params ReviewUpsertParams) (domain.Review, bool, error) {
	query := fmt.Sprintf(`
        INSERT INTO reviews (user_id, imdb_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, imdb_id)
        DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = now()
        RETURNING %s, (xmax = 0) AS inserted
    `, reviewColumns)

	var review domain.Review
	var inserted bool
	err := r.pool.QueryRow(ctx, query, params.UserID, params.ImdbID, params.Rating, params.Comment).Scan(
		&review.ID,
		&review.UserID,
		&review.ImdbID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Review{}, false, err
	}
	return review, inserted, nil
}

// GetByID retrieves a single review.
func (r *ReviewsRepository) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)
	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// Delete removes a review by id.
func (r *ReviewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Aggregate returns the review count and mean rating for a title.
// Average is 0 when no reviews exist.
func (r *ReviewsRepository) Aggregate(ctx context.Context, imdbID string) (domain.ReviewAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(rating), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM reviews
        WHERE imdb_id = $1
    `

	var agg domain.ReviewAggregate
	if err := r.pool.QueryRow(ctx, query, imdbID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.ReviewAggregate{}, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg, nil
}

// ListByTitle returns one page of a title's reviews, newest first, plus
// the total count across all pages.
func (r *ReviewsRepository) ListByTitle(ctx context.Context, imdbID string, page, limit int) ([]domain.Review, int64, error) {
	return r.list(ctx, `imdb_id`, imdbID, page, limit)
}

// ListByUser returns one page of a user's reviews, newest first, plus the
// total count across all pages.
func (r *ReviewsRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]domain.Review, int64, error) {
	return r.list(ctx, `user_id`, userID, page, limit)
}

func (r *ReviewsRepository) list(ctx context.Context, keyColumn, key string, page, limit int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	query := fmt.Sprintf(`
        SELECT %s FROM reviews
        WHERE %s = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `, reviewColumns, keyColumn)

	rows, err := r.pool.Query(ctx, query, key, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM reviews WHERE %s = $1`, keyColumn)
	if err := r.pool.QueryRow(ctx, countQuery, key).Scan(&total); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Recent returns the newest reviews across all titles.
func (r *ReviewsRepository) Recent(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	query := fmt.Sprintf(`
        SELECT %s FROM reviews
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, reviewColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ImdbID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}
