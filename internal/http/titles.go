package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinetrack/cinetrack/internal/catalog"
	"github.com/cinetrack/cinetrack/internal/domain"
)

type titleResponse struct {
	ImdbID     string         `json:"imdbId"`
	Title      string         `json:"title"`
	Year       string         `json:"year"`
	Type       string         `json:"type"`
	Rated      *string        `json:"rated,omitempty"`
	Released   *string        `json:"released,omitempty"`
	Runtime    *string        `json:"runtime,omitempty"`
	Genre      *string        `json:"genre,omitempty"`
	Director   *string        `json:"director,omitempty"`
	Writer     *string        `json:"writer,omitempty"`
	Actors     *string        `json:"actors,omitempty"`
	Plot       *string        `json:"plot,omitempty"`
	Language   *string        `json:"language,omitempty"`
	Country    *string        `json:"country,omitempty"`
	Awards     *string        `json:"awards,omitempty"`
	Poster     *string        `json:"poster,omitempty"`
	ImdbRating *float64       `json:"imdbRating,omitempty"`
	ImdbVotes  *int64         `json:"imdbVotes,omitempty"`
	BoxOffice  *string        `json:"boxOffice,omitempty"`
	Production *string        `json:"production,omitempty"`
	Website    *string        `json:"website,omitempty"`
	Stats      *statsResponse `json:"stats,omitempty"`
}

type statsResponse struct {
	ReviewCount    int64   `json:"reviewCount"`
	AverageRating  float64 `json:"averageRating"`
	WatchlistCount int64   `json:"watchlistCount"`
	FavoriteCount  int64   `json:"favoriteCount"`
}

type searchResponse struct {
	Results      []titleResponse `json:"results"`
	TotalResults int             `json:"totalResults"`
	Page         int             `json:"page"`
}

type titleListResponse struct {
	Movies []titleResponse `json:"movies"`
	Page   int             `json:"page"`
}

func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	imdbID := strings.TrimSpace(chi.URLParam(r, "imdbID"))
	if imdbID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing imdbID parameter")
		return
	}

	title, err := s.resolver.Resolve(r.Context(), imdbID)
	if err != nil {
		s.respondResolveError(w, imdbID, err)
		return
	}

	annotated, err := s.stats.Annotate(r.Context(), title)
	if err != nil {
		s.logger.Printf("annotate %s failed: %v", imdbID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movie")
		return
	}

	s.respondJSON(w, http.StatusOK, toAnnotatedResponse(annotated))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Search query is required")
		return
	}
	page := parsePage(r.URL.Query().Get("page"))

	result, err := s.resolver.Search(r.Context(), query, page)
	if err != nil {
		s.logger.Printf("search %q failed: %v", query, err)
		s.respondError(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Search failed")
		return
	}

	results := make([]titleResponse, 0, len(result.Results))
	for _, title := range result.Results {
		results = append(results, toTitleResponse(title))
	}
	s.respondJSON(w, http.StatusOK, searchResponse{
		Results:      results,
		TotalResults: result.TotalResults,
		Page:         result.Page,
	})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	titles := s.resolver.Popular(r.Context())

	movies := make([]titleResponse, 0, len(titles))
	for _, title := range titles {
		movies = append(movies, toTitleResponse(title))
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movies": movies})
}

func (s *Server) handleListByType(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")
	if contentType != "movie" && contentType != "series" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid type. Use movie or series")
		return
	}
	page := parsePage(r.URL.Query().Get("page"))

	titles, err := s.repo.Titles.ListByType(r.Context(), contentType, page, 20)
	if err != nil {
		s.logger.Printf("list titles by type failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movies")
		return
	}

	movies := make([]titleResponse, 0, len(titles))
	for _, title := range titles {
		annotated, err := s.stats.Annotate(r.Context(), title)
		if err != nil {
			s.logger.Printf("annotate %s failed: %v", title.ImdbID, err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movies")
			return
		}
		movies = append(movies, toAnnotatedResponse(annotated))
	}
	s.respondJSON(w, http.StatusOK, titleListResponse{Movies: movies, Page: page})
}

func (s *Server) respondResolveError(w http.ResponseWriter, imdbID string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
	case errors.Is(err, catalog.ErrUpstream):
		s.logger.Printf("resolve %s failed upstream: %v", imdbID, err)
		s.respondError(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Metadata source unavailable")
	default:
		s.logger.Printf("resolve %s failed: %v", imdbID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movie")
	}
}

func toTitleResponse(title domain.Title) titleResponse {
	return titleResponse{
		ImdbID:     title.ImdbID,
		Title:      title.Title,
		Year:       title.Year,
		Type:       title.Type,
		Rated:      title.Rated,
		Released:   title.Released,
		Runtime:    title.Runtime,
		Genre:      title.Genre,
		Director:   title.Director,
		Writer:     title.Writer,
		Actors:     title.Actors,
		Plot:       title.Plot,
		Language:   title.Language,
		Country:    title.Country,
		Awards:     title.Awards,
		Poster:     title.Poster,
		ImdbRating: title.ImdbRating,
		ImdbVotes:  title.ImdbVotes,
		BoxOffice:  title.BoxOffice,
		Production: title.Production,
		Website:    title.Website,
	}
}

func toAnnotatedResponse(annotated catalog.AnnotatedTitle) titleResponse {
	resp := toTitleResponse(annotated.Title)
	resp.Stats = &statsResponse{
		ReviewCount:    annotated.Stats.ReviewCount,
		AverageRating:  roundToOneDecimal(annotated.Stats.AverageRating),
		WatchlistCount: annotated.Stats.WatchlistCount,
		FavoriteCount:  annotated.Stats.FavoriteCount,
	}
	return resp
}

func parsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseLimit(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
