package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinetrack/cinetrack/internal/catalog"
	"github.com/cinetrack/cinetrack/internal/domain"
)

type reviewRequest struct {
	ImdbID  string  `json:"imdbId"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

type reviewResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	ImdbID    string    `json:"imdbId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type reviewListResponse struct {
	Reviews       []reviewResponse `json:"reviews"`
	TotalReviews  int64            `json:"totalReviews"`
	AverageRating *float64         `json:"averageRating,omitempty"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.identity(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.ImdbID = strings.TrimSpace(req.ImdbID)
	if req.ImdbID == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "imdbId is required")
		return
	}

	// Resolve first so the review's foreign key always has a title row,
	// even when the title was never viewed through this instance.
	if _, err := s.resolver.Resolve(r.Context(), req.ImdbID); err != nil {
		s.respondResolveError(w, req.ImdbID, err)
		return
	}

	review, created, err := s.stats.SubmitReview(r.Context(), user, req.ImdbID, req.Rating, normalizeComment(req.Comment))
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidRating) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must be an integer between 1 and 5")
			return
		}
		s.logger.Printf("submit review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save review")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toReviewResponse(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.identity(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid review id")
		return
	}

	switch err := s.stats.DeleteReview(r.Context(), user, reviewID); {
	case err == nil:
		s.respondJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
	case errors.Is(err, catalog.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Review not found")
	case errors.Is(err, catalog.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Not authorized to delete this review")
	default:
		s.logger.Printf("delete review %d error: %v", reviewID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete review")
	}
}

func (s *Server) handleTitleReviews(w http.ResponseWriter, r *http.Request) {
	imdbID := strings.TrimSpace(chi.URLParam(r, "imdbID"))
	if imdbID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing imdbID parameter")
		return
	}
	page := parsePage(r.URL.Query().Get("page"))
	limit := parseLimit(r.URL.Query().Get("limit"), 10)

	reviews, total, err := s.repo.Reviews.ListByTitle(r.Context(), imdbID, page, limit)
	if err != nil {
		s.logger.Printf("list reviews for %s error: %v", imdbID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch reviews")
		return
	}
	agg, err := s.repo.Reviews.Aggregate(r.Context(), imdbID)
	if err != nil {
		s.logger.Printf("aggregate reviews for %s error: %v", imdbID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch reviews")
		return
	}

	average := roundToOneDecimal(agg.Average)
	s.respondJSON(w, http.StatusOK, reviewListResponse{
		Reviews:       toReviewResponses(reviews),
		TotalReviews:  total,
		AverageRating: &average,
		Page:          page,
		TotalPages:    totalPages(total, limit),
	})
}

func (s *Server) handleUserReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := s.identity(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}
	page := parsePage(r.URL.Query().Get("page"))
	limit := parseLimit(r.URL.Query().Get("limit"), 10)

	reviews, total, err := s.repo.Reviews.ListByUser(r.Context(), user.UserID, page, limit)
	if err != nil {
		s.logger.Printf("list reviews for user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch user reviews")
		return
	}

	s.respondJSON(w, http.StatusOK, reviewListResponse{
		Reviews:      toReviewResponses(reviews),
		TotalReviews: total,
		Page:         page,
		TotalPages:   totalPages(total, limit),
	})
}

func (s *Server) handleRecentReviews(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 10)

	reviews, err := s.repo.Reviews.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Printf("list recent reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch reviews")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"reviews": toReviewResponses(reviews)})
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		ImdbID:    review.ImdbID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	return out
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
