package omdb

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "test-key", 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestLookupNormalizesSentinels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("i"); got != "tt0137523" {
			t.Errorf("i param = %q, want tt0137523", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey param = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt0137523",
			"Title": "Fight Club",
			"Year": "1999",
			"Type": "movie",
			"Rated": "R",
			"Released": "15 Oct 1999",
			"Runtime": "N/A",
			"Genre": "Drama",
			"Director": "David Fincher",
			"Writer": "N/A",
			"Actors": "Brad Pitt, Edward Norton",
			"Plot": "N/A",
			"Language": "English",
			"Country": "N/A",
			"Awards": "N/A",
			"Poster": "N/A",
			"imdbRating": "8.8",
			"imdbVotes": "2,847,123",
			"BoxOffice": "N/A",
			"Production": "N/A",
			"Website": "N/A"
		}`))
	})

	record, err := client.Lookup(context.Background(), "tt0137523")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if record.ImdbID != "tt0137523" || record.Title != "Fight Club" {
		t.Fatalf("identity fields wrong: %+v", record)
	}
	if record.Rated == nil || *record.Rated != "R" {
		t.Fatalf("Rated = %v, want R", record.Rated)
	}
	for name, field := range map[string]*string{
		"Runtime":    record.Runtime,
		"Writer":     record.Writer,
		"Plot":       record.Plot,
		"Country":    record.Country,
		"Awards":     record.Awards,
		"Poster":     record.Poster,
		"BoxOffice":  record.BoxOffice,
		"Production": record.Production,
		"Website":    record.Website,
	} {
		if field != nil {
			t.Fatalf("%s = %q, want nil for sentinel", name, *field)
		}
	}
	if record.ImdbRating == nil || *record.ImdbRating != 8.8 {
		t.Fatalf("ImdbRating = %v, want 8.8", record.ImdbRating)
	}
	if record.ImdbVotes == nil || *record.ImdbVotes != 2847123 {
		t.Fatalf("ImdbVotes = %v, want 2847123", record.ImdbVotes)
	}
}

func TestLookupNumericParseFailureBecomesAbsence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt0000001",
			"Title": "Broken Numbers",
			"Year": "1999",
			"Type": "movie",
			"imdbRating": "not-a-number",
			"imdbVotes": "many"
		}`))
	})

	record, err := client.Lookup(context.Background(), "tt0000001")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if record.ImdbRating != nil {
		t.Fatalf("ImdbRating = %v, want nil for unparseable text", *record.ImdbRating)
	}
	if record.ImdbVotes != nil {
		t.Fatalf("ImdbVotes = %v, want nil for unparseable text", *record.ImdbVotes)
	}
}

func TestLookupNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	_, err := client.Lookup(context.Background(), "tt9999999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupUpstreamStatusIsNotNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "tt0137523")
	if err == nil {
		t.Fatalf("expected error for upstream 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("transient failure must not map to ErrNotFound")
	}
}

func TestSearchParsesTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "batman" {
			t.Errorf("s param = %q, want batman", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page param = %q, want 2", got)
		}
		_, _ = w.Write([]byte(`{
			"Response": "True",
			"Search": [
				{"imdbID":"tt0468569","Title":"The Dark Knight","Year":"2008","Type":"movie"},
				{"imdbID":"tt0372784","Title":"Batman Begins","Year":"2005","Type":"movie"}
			],
			"totalResults": "523"
		}`))
	})

	result, err := client.Search(context.Background(), "batman", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(result.Matches))
	}
	if result.TotalResults != 523 {
		t.Fatalf("TotalResults = %d, want 523", result.TotalResults)
	}
	if result.Matches[0].ImdbID != "tt0468569" {
		t.Fatalf("first match = %+v", result.Matches[0])
	}
}

func TestSearchNoMatchesIsEmptyNotError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	result, err := client.Search(context.Background(), "zzzz", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Matches) != 0 || result.TotalResults != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestLookupContextTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"Response":"True","imdbID":"tt0137523"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Lookup(ctx, "tt0137523"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
