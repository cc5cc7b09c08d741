package domain

import "time"

// Title is the canonical cached metadata for one movie or series, keyed
// by the upstream IMDb identifier. Descriptive fields are optional: the
// upstream marks unknown values with a sentinel that is normalized to
// nil before a Title is ever constructed.
type Title struct {
	ImdbID     string
	Title      string
	Year       string
	Type       string // "movie" or "series"
	Rated      *string
	Released   *string
	Runtime    *string
	Genre      *string
	Director   *string
	Writer     *string
	Actors     *string
	Plot       *string
	Language   *string
	Country    *string
	Awards     *string
	Poster     *string
	ImdbRating *float64
	ImdbVotes  *int64
	BoxOffice  *string
	Production *string
	Website    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TitleStats carries the derived per-title aggregates. They are computed
// from the child tables at read time and never stored.
type TitleStats struct {
	ReviewCount    int64
	AverageRating  float64
	WatchlistCount int64
	FavoriteCount  int64
}
