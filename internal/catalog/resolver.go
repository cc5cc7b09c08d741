package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinetrack/cinetrack/internal/domain"
	"github.com/cinetrack/cinetrack/internal/omdb"
	"github.com/cinetrack/cinetrack/internal/repository"
)

const (
	// searchDetailLimit bounds the per-search detail fan-out to the top
	// matches of the page.
	searchDetailLimit = 10
	// fanoutWorkers bounds concurrent upstream calls during a fan-out.
	fanoutWorkers = 5
)

// popularImdbIDs backs the curated popular list.
var popularImdbIDs = []string{
	"tt0111161", "tt0068646", "tt0468569", "tt0050083", "tt0108052",
	"tt0167260", "tt0110912", "tt0060196", "tt0137523", "tt0120737",
}

// TitleStore is the slice of persistence the resolver needs. Both
// methods are satisfied by repository.TitlesRepository.
type TitleStore interface {
	GetByImdbID(ctx context.Context, imdbID string) (domain.Title, error)
	Insert(ctx context.Context, title domain.Title) (domain.Title, error)
}

// Resolver serves titles read-through: the locally persisted row when
// present, otherwise fetch-normalize-persist exactly once. Persisted
// rows are never refreshed.
type Resolver struct {
	titles  TitleStore
	source  omdb.Client
	timeout time.Duration
	logger  *log.Logger
}

// NewResolver constructs a Resolver. The timeout bounds each individual
// upstream call.
func NewResolver(titles TitleStore, source omdb.Client, timeout time.Duration, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{titles: titles, source: source, timeout: timeout, logger: logger}
}

// SearchPage is one page of search results plus the upstream-reported
// total, which may exceed len(Results).
type SearchPage struct {
	Results      []domain.Title
	TotalResults int
	Page         int
}

// Resolve returns the title for an external identifier, persisting it on
// first access. Concurrent first resolutions are arbitrated by the
// store's uniqueness constraint; the loser re-reads the winner's row.
func (r *Resolver) Resolve(ctx context.Context, imdbID string) (domain.Title, error) {
	title, err := r.titles.GetByImdbID(ctx, imdbID)
	if err == nil {
		return title, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.Title{}, err
	}

	record, err := r.lookup(ctx, imdbID)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return domain.Title{}, ErrNotFound
		}
		return domain.Title{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	stored, err := r.titles.Insert(ctx, recordToTitle(record))
	if err != nil {
		return domain.Title{}, fmt.Errorf("persist title %s: %w", imdbID, err)
	}
	return stored, nil
}

// Search delegates a free-text query upstream and fetches detail for the
// top matches only. A match whose detail fetch fails is dropped rather
// than failing the search; results are not persisted.
func (r *Resolver) Search(ctx context.Context, query string, page int) (SearchPage, error) {
	if page < 1 {
		page = 1
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	found, err := r.source.Search(searchCtx, query, page)
	if err != nil {
		return SearchPage{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	matches := found.Matches
	if len(matches) > searchDetailLimit {
		matches = matches[:searchDetailLimit]
	}

	results := r.fanout(ctx, matchIDs(matches))
	return SearchPage{Results: results, TotalResults: found.TotalResults, Page: page}, nil
}

// Popular returns the curated popular titles. Individual fetch failures
// are absorbed; results are not persisted.
func (r *Resolver) Popular(ctx context.Context) []domain.Title {
	return r.fanout(ctx, popularImdbIDs)
}

// fanout fetches detail for a bounded set of identifiers concurrently,
// preserving input order and dropping failed items.
func (r *Resolver) fanout(ctx context.Context, imdbIDs []string) []domain.Title {
	slots := make([]*domain.Title, len(imdbIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanoutWorkers)
	for i, imdbID := range imdbIDs {
		i, imdbID := i, imdbID
		g.Go(func() error {
			record, err := r.lookup(gctx, imdbID)
			if err != nil {
				// One bad item never fails the batch.
				r.logger.Printf("catalog: dropping %s from batch: %v", imdbID, err)
				return nil
			}
			title := recordToTitle(record)
			slots[i] = &title
			return nil
		})
	}
	_ = g.Wait()

	results := make([]domain.Title, 0, len(slots))
	for _, title := range slots {
		if title != nil {
			results = append(results, *title)
		}
	}
	return results
}

func (r *Resolver) lookup(ctx context.Context, imdbID string) (*omdb.Record, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.source.Lookup(lookupCtx, imdbID)
}

func matchIDs(matches []omdb.SearchMatch) []string {
	ids := make([]string, len(matches))
	for i, match := range matches {
		ids[i] = match.ImdbID
	}
	return ids
}

func recordToTitle(record *omdb.Record) domain.Title {
	return domain.Title{
		ImdbID:     record.ImdbID,
		Title:      record.Title,
		Year:       record.Year,
		Type:       record.Type,
		Rated:      record.Rated,
		Released:   record.Released,
		Runtime:    record.Runtime,
		Genre:      record.Genre,
		Director:   record.Director,
		Writer:     record.Writer,
		Actors:     record.Actors,
		Plot:       record.Plot,
		Language:   record.Language,
		Country:    record.Country,
		Awards:     record.Awards,
		Poster:     record.Poster,
		ImdbRating: record.ImdbRating,
		ImdbVotes:  record.ImdbVotes,
		BoxOffice:  record.BoxOffice,
		Production: record.Production,
		Website:    record.Website,
	}
}
