package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinetrack/cinetrack/internal/domain"
	"github.com/cinetrack/cinetrack/internal/repository"
)

type interestResponse struct {
	ImdbID  string    `json:"imdbId"`
	AddedAt time.Time `json:"addedAt"`
}

func (s *Server) handleAddInterest(kind domain.InterestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.identity(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		imdbID := strings.TrimSpace(chi.URLParam(r, "imdbID"))
		if imdbID == "" {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing imdbID parameter")
			return
		}

		// The association row references the titles table, so the title
		// must be resolved (and cached) before the pair is written.
		if _, err := s.resolver.Resolve(r.Context(), imdbID); err != nil {
			s.respondResolveError(w, imdbID, err)
			return
		}

		added, err := s.repo.Interests.Add(r.Context(), kind, user.UserID, imdbID)
		if err != nil {
			s.logger.Printf("add %s entry error: %v", kind, err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update list")
			return
		}

		status := http.StatusOK
		if added {
			status = http.StatusCreated
		}
		s.respondJSON(w, status, map[string]string{"imdbId": imdbID})
	}
}

func (s *Server) handleRemoveInterest(kind domain.InterestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.identity(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		imdbID := strings.TrimSpace(chi.URLParam(r, "imdbID"))
		if imdbID == "" {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing imdbID parameter")
			return
		}

		if err := s.repo.Interests.Remove(r.Context(), kind, user.UserID, imdbID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found")
				return
			}
			s.logger.Printf("remove %s entry error: %v", kind, err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update list")
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]string{"message": "Removed successfully"})
	}
}

func (s *Server) handleListInterests(kind domain.InterestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.identity(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		interests, err := s.repo.Interests.List(r.Context(), kind, user.UserID)
		if err != nil {
			s.logger.Printf("list %s error: %v", kind, err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch list")
			return
		}

		entries := make([]interestResponse, 0, len(interests))
		for _, interest := range interests {
			entries = append(entries, interestResponse{ImdbID: interest.ImdbID, AddedAt: interest.CreatedAt})
		}
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
	}
}
