package omdb

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestHTTPClientSmoke verifies the client against a live OMDb-shaped
// endpoint (e.g. cmd/omdb-mock) when one is configured.
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("OMDB_URL")
	if baseURL == "" {
		t.Skip("OMDB_URL not provided")
	}
	apiKey := os.Getenv("OMDB_API_KEY")
	client, err := NewHTTPClient(baseURL, apiKey, 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := client.Lookup(ctx, "tt0111161")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record.ImdbID != "tt0111161" || record.Title == "" {
		t.Fatalf("unexpected record: %+v", record)
	}
}
