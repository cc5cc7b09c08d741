package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/cinetrack/cinetrack/internal/domain"
	"github.com/cinetrack/cinetrack/internal/repository"
)

type fakeReviewStore struct {
	reviews map[int64]domain.Review
	agg     domain.ReviewAggregate
	nextID  int64
	upserts int
	deletes int
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[int64]domain.Review), nextID: 1}
}

func (s *fakeReviewStore) Upsert(_ context.Context, params repository.ReviewUpsertParams) (domain.Review, bool, error) {
	s.upserts++
	for id, review := range s.reviews {
		if review.UserID == params.UserID && review.ImdbID == params.ImdbID {
			review.Rating = params.Rating
			review.Comment = params.Comment
			s.reviews[id] = review
			return review, false, nil
		}
	}
	review := domain.Review{
		ID:      s.nextID,
		UserID:  params.UserID,
		ImdbID:  params.ImdbID,
		Rating:  params.Rating,
		Comment: params.Comment,
	}
	s.nextID++
	s.reviews[review.ID] = review
	return review, true, nil
}

func (s *fakeReviewStore) GetByID(_ context.Context, id int64) (domain.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, repository.ErrNotFound
	}
	return review, nil
}

func (s *fakeReviewStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	s.deletes++
	delete(s.reviews, id)
	return nil
}

func (s *fakeReviewStore) Aggregate(_ context.Context, _ string) (domain.ReviewAggregate, error) {
	return s.agg, nil
}

type fakeInterestCounter struct {
	counts map[domain.InterestKind]int64
}

func (c *fakeInterestCounter) Count(_ context.Context, kind domain.InterestKind, _ string) (int64, error) {
	return c.counts[kind], nil
}

func TestAnnotateComposesCounts(t *testing.T) {
	reviews := newFakeReviewStore()
	reviews.agg = domain.ReviewAggregate{Count: 3, Average: 4.0}
	interests := &fakeInterestCounter{counts: map[domain.InterestKind]int64{
		domain.InterestWatchlist: 7,
		domain.InterestFavorites: 2,
	}}
	stats := NewStats(reviews, interests)

	annotated, err := stats.Annotate(context.Background(), domain.Title{ImdbID: "tt0137523", Title: "Fight Club"})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if annotated.Stats.ReviewCount != 3 || annotated.Stats.AverageRating != 4.0 {
		t.Fatalf("review stats = %+v", annotated.Stats)
	}
	if annotated.Stats.WatchlistCount != 7 || annotated.Stats.FavoriteCount != 2 {
		t.Fatalf("interest stats = %+v", annotated.Stats)
	}
	if annotated.Title.Title != "Fight Club" {
		t.Fatalf("title lost: %+v", annotated.Title)
	}
}

func TestAnnotateWithoutReviews(t *testing.T) {
	stats := NewStats(newFakeReviewStore(), &fakeInterestCounter{counts: map[domain.InterestKind]int64{}})

	annotated, err := stats.Annotate(context.Background(), domain.Title{ImdbID: "tt0000001"})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if annotated.Stats.ReviewCount != 0 || annotated.Stats.AverageRating != 0 {
		t.Fatalf("expected zero stats, got %+v", annotated.Stats)
	}
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	reviews := newFakeReviewStore()
	stats := NewStats(reviews, &fakeInterestCounter{})
	user := Identity{UserID: "user1"}

	for _, rating := range []int{0, 6, -3} {
		_, _, err := stats.SubmitReview(context.Background(), user, "tt0137523", rating, nil)
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: err = %v, want ErrInvalidRating", rating, err)
		}
	}
	if reviews.upserts != 0 {
		t.Fatalf("invalid ratings must not reach the store")
	}

	for _, rating := range []int{1, 5} {
		if _, _, err := stats.SubmitReview(context.Background(), user, "tt0137523", rating, nil); err != nil {
			t.Fatalf("rating %d: %v", rating, err)
		}
	}
}

func TestSubmitReviewResubmissionUpdates(t *testing.T) {
	reviews := newFakeReviewStore()
	stats := NewStats(reviews, &fakeInterestCounter{})
	user := Identity{UserID: "user1"}

	first, created, err := stats.SubmitReview(context.Background(), user, "tt0137523", 2, nil)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !created {
		t.Fatalf("first submit should create")
	}

	second, created, err := stats.SubmitReview(context.Background(), user, "tt0137523", 5, nil)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatalf("resubmission should update, not create")
	}
	if second.ID != first.ID || second.Rating != 5 {
		t.Fatalf("resubmission = %+v", second)
	}
	if len(reviews.reviews) != 1 {
		t.Fatalf("review rows = %d, want 1", len(reviews.reviews))
	}
}

func TestDeleteReviewAuthorization(t *testing.T) {
	reviews := newFakeReviewStore()
	stats := NewStats(reviews, &fakeInterestCounter{})

	owner := Identity{UserID: "owner"}
	review, _, err := stats.SubmitReview(context.Background(), owner, "tt0137523", 4, nil)
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	if err := stats.DeleteReview(context.Background(), Identity{UserID: "stranger"}, review.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger delete err = %v, want ErrForbidden", err)
	}
	if reviews.deletes != 0 {
		t.Fatalf("forbidden delete must not reach the store")
	}

	if err := stats.DeleteReview(context.Background(), owner, review.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	review, _, err = stats.SubmitReview(context.Background(), owner, "tt0137523", 4, nil)
	if err != nil {
		t.Fatalf("reseed review: %v", err)
	}
	admin := Identity{UserID: "someone-else", Admin: true}
	if err := stats.DeleteReview(context.Background(), admin, review.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestDeleteReviewMissing(t *testing.T) {
	stats := NewStats(newFakeReviewStore(), &fakeInterestCounter{})

	err := stats.DeleteReview(context.Background(), Identity{UserID: "user1", Admin: true}, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
