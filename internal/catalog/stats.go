package catalog

import (
	"context"
	"errors"

	"github.com/cinetrack/cinetrack/internal/domain"
	"github.com/cinetrack/cinetrack/internal/repository"
)

// Identity is the request principal as asserted by the gateway. The core
// only compares it against ownership; it never authenticates.
type Identity struct {
	UserID string
	Admin  bool
}

// ReviewStore is the slice of persistence the aggregate maintainer
// needs. Satisfied by repository.ReviewsRepository.
type ReviewStore interface {
	Upsert(ctx context.Context, params repository.ReviewUpsertParams) (domain.Review, bool, error)
	GetByID(ctx context.Context, id int64) (domain.Review, error)
	Delete(ctx context.Context, id int64) error
	Aggregate(ctx context.Context, imdbID string) (domain.ReviewAggregate, error)
}

// InterestCounter counts membership of a title in a user association set.
// Satisfied by repository.InterestsRepository.
type InterestCounter interface {
	Count(ctx context.Context, kind domain.InterestKind, imdbID string) (int64, error)
}

// Stats recomputes derived per-title aggregates at read time and owns
// the review mutations those aggregates depend on. No incremental
// counters are kept: correctness rests entirely on the child tables'
// own constraints.
type Stats struct {
	reviews   ReviewStore
	interests InterestCounter
}

// NewStats constructs the aggregate maintainer.
func NewStats(reviews ReviewStore, interests InterestCounter) *Stats {
	return &Stats{reviews: reviews, interests: interests}
}

// AnnotatedTitle pairs a title with its freshly computed aggregates.
type AnnotatedTitle struct {
	Title domain.Title
	Stats domain.TitleStats
}

// Annotate attaches review and interest counts to a title. Read-only.
// AverageRating is 0 when ReviewCount is 0; callers distinguish "no
// data" via the count.
func (s *Stats) Annotate(ctx context.Context, title domain.Title) (AnnotatedTitle, error) {
	agg, err := s.reviews.Aggregate(ctx, title.ImdbID)
	if err != nil {
		return AnnotatedTitle{}, err
	}
	watchlist, err := s.interests.Count(ctx, domain.InterestWatchlist, title.ImdbID)
	if err != nil {
		return AnnotatedTitle{}, err
	}
	favorites, err := s.interests.Count(ctx, domain.InterestFavorites, title.ImdbID)
	if err != nil {
		return AnnotatedTitle{}, err
	}

	return AnnotatedTitle{
		Title: title,
		Stats: domain.TitleStats{
			ReviewCount:    agg.Count,
			AverageRating:  agg.Average,
			WatchlistCount: watchlist,
			FavoriteCount:  favorites,
		},
	}, nil
}

// SubmitReview upserts the user's review for a title. A resubmission
// overwrites rating and comment in place, keeping the aggregate at
// exactly one vote per user.
func (s *Stats) SubmitReview(ctx context.Context, user Identity, imdbID string, rating int, comment *string) (domain.Review, bool, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, false, ErrInvalidRating
	}
	return s.reviews.Upsert(ctx, repository.ReviewUpsertParams{
		UserID:  user.UserID,
		ImdbID:  imdbID,
		Rating:  rating,
		Comment: comment,
	})
}

// DeleteReview removes a review on behalf of its owner or an admin.
func (s *Stats) DeleteReview(ctx context.Context, user Identity, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if review.UserID != user.UserID && !user.Admin {
		return ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}
