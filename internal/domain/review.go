package domain

import "time"

// Review is a single user's rating and optional comment for a title.
// At most one review exists per (user, title) pair.
type Review struct {
	ID        int64
	UserID    string
	ImdbID    string
	Rating    int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewAggregate provides the review count and mean rating for a title.
// Average is 0 when Count is 0.
type ReviewAggregate struct {
	Count   int64
	Average float64
}
