package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when upstream cannot find the requested title.
var ErrNotFound = errors.New("omdb: not found")

// Record is a normalized title payload. Sentinel fields arrive as nil and
// numeric text is already parsed; callers never see the raw wire shape.
type Record struct {
	ImdbID     string
	Title      string
	Year       string
	Type       string
	Rated      *string
	Released   *string
	Runtime    *string
	Genre      *string
	Director   *string
	Writer     *string
	Actors     *string
	Plot       *string
	Language   *string
	Country    *string
	Awards     *string
	Poster     *string
	ImdbRating *float64
	ImdbVotes  *int64
	BoxOffice  *string
	Production *string
	Website    *string
}

// SearchMatch is one entry of the upstream search index. Only the fields
// the index itself carries are present; details require a Lookup.
type SearchMatch struct {
	ImdbID string
	Title  string
	Year   string
	Type   string
}

// SearchResult holds one page of matches plus the upstream-reported
// total, which may exceed len(Matches).
type SearchResult struct {
	Matches      []SearchMatch
	TotalResults int
}

// Client defines the contract for querying the upstream metadata API.
type Client interface {
	Lookup(ctx context.Context, imdbID string) (*Record, error)
	Search(ctx context.Context, query string, page int) (SearchResult, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed metadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Lookup retrieves full metadata for a single IMDb identifier.
func (c *HTTPClient) Lookup(ctx context.Context, imdbID string) (*Record, error) {
	params := url.Values{}
	params.Set("i", imdbID)

	var payload titlePayload
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, ErrNotFound
	}
	return normalizeRecord(payload), nil
}

// Search queries the upstream free-text index. An upstream "no matches"
// response is a normal empty result, not an error.
func (c *HTTPClient) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("s", query)
	params.Set("page", strconv.Itoa(page))

	var payload searchPayload
	if err := c.get(ctx, params, &payload); err != nil {
		return SearchResult{}, err
	}
	if payload.Response != "True" {
		return SearchResult{}, nil
	}

	matches := make([]SearchMatch, 0, len(payload.Search))
	for _, entry := range payload.Search {
		matches = append(matches, SearchMatch{
			ImdbID: entry.ImdbID,
			Title:  entry.Title,
			Year:   entry.Year,
			Type:   entry.Type,
		})
	}

	total, err := strconv.Atoi(strings.TrimSpace(payload.TotalResults))
	if err != nil {
		total = len(matches)
	}
	return SearchResult{Matches: matches, TotalResults: total}, nil
}

func (c *HTTPClient) get(ctx context.Context, params url.Values, dst interface{}) error {
	params.Set("apikey", c.apiKey)
	endpoint := *c.baseURL
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("omdb: unexpected status %d", resp.StatusCode)
		return fmt.Errorf("omdb: upstream returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode omdb response: %w", err)
	}
	return nil
}

// titlePayload mirrors the upstream detail response. Every field is loose
// text; unknown values carry the sentinel instead of being omitted.
type titlePayload struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	Type       string `json:"Type"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
	Website    string `json:"Website"`
}

type searchPayload struct {
	Response     string        `json:"Response"`
	Error        string        `json:"Error"`
	Search       []searchEntry `json:"Search"`
	TotalResults string        `json:"totalResults"`
}

type searchEntry struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
}
