package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetrack/cinetrack/internal/domain"
)

// InterestsRepository manages the per-user association sets (watchlist,
// favorites, watched). The sets share one shape and differ only in the
// backing table.
type InterestsRepository struct {
	pool *pgxpool.Pool
}

// interestTables is the closed set of tables the kind may address; the
// kind is never interpolated into SQL directly.
var interestTables = map[domain.InterestKind]string{
	domain.InterestWatchlist: "watchlist",
	domain.InterestFavorites: "favorites",
	domain.InterestWatched:   "watched",
}

func interestTable(kind domain.InterestKind) (string, error) {
	table, ok := interestTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown interest kind %q", kind)
	}
	return table, nil
}

// Add places a title in the user's set. Returns false when the pair was
// already present.
func (r *InterestsRepository) Add(ctx context.Context, kind domain.InterestKind, userID, imdbID string) (bool, error) {
	table, err := interestTable(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (user_id, imdb_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id, imdb_id) DO NOTHING
    `, table)
	tag, err := r.pool.Exec(ctx, query, userID, imdbID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes a title from the user's set.
func (r *InterestsRepository) Remove(ctx context.Context, kind domain.InterestKind, userID, imdbID string) error {
	table, err := interestTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND imdb_id = $2`, table)
	tag, err := r.pool.Exec(ctx, query, userID, imdbID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's set, newest first.
func (r *InterestsRepository) List(ctx context.Context, kind domain.InterestKind, userID string) ([]domain.Interest, error) {
	table, err := interestTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        SELECT user_id, imdb_id, created_at
        FROM %s
        WHERE user_id = $1
        ORDER BY created_at DESC, imdb_id DESC
    `, table)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interests := make([]domain.Interest, 0)
	for rows.Next() {
		var interest domain.Interest
		if err := rows.Scan(&interest.UserID, &interest.ImdbID, &interest.CreatedAt); err != nil {
			return nil, err
		}
		interests = append(interests, interest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interests, nil
}

// Count reports how many users hold the title in the given set.
func (r *InterestsRepository) Count(ctx context.Context, kind domain.InterestKind, imdbID string) (int64, error) {
	table, err := interestTable(kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE imdb_id = $1`, table)
	var count int64
	if err := r.pool.QueryRow(ctx, query, imdbID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
