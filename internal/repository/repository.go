package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinetrack/cinetrack/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Titles    *TitlesRepository
	Reviews   *ReviewsRepository
	Interests *InterestsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Titles:    &TitlesRepository{pool: pool},
		Reviews:   &ReviewsRepository{pool: pool},
		Interests: &InterestsRepository{pool: pool},
	}
}
