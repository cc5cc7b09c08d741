package domain

import "time"

// InterestKind names one of the per-user association sets. The sets share
// a single shape and differ only in which table backs them.
type InterestKind string

const (
	InterestWatchlist InterestKind = "watchlist"
	InterestFavorites InterestKind = "favorites"
	InterestWatched   InterestKind = "watched"
)

// Interest marks a title as belonging to one of a user's sets.
type Interest struct {
	UserID    string
	ImdbID    string
	CreatedAt time.Time
}
