// Package search provides book lookup against the Open Library search
// API, used to prefill titles and authors when adding books.
package search

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// resultLimit caps how many matches a single lookup returns. The
	// client UI shows a short picker, so more is wasted transfer.
	resultLimit = 6

	coverBaseURL = "https://covers.openlibrary.org/b/id"
)

// Client queries the Open Library search API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Open Library client.
// Open Library asks for no more than one request per second sustained.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
	}
}

// SearchBooks returns books matching a free-text query.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]BookResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(resultLimit))
	params.Set("fields", "key,title,author_name,first_publish_year,cover_i")

	searchURL := c.baseURL + "/search.json?" + params.Encode()

	if c.logger != nil {
		c.logger.Debug("searching Open Library", "query", query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]BookResult, 0, len(searchResp.Docs))
	for _, doc := range searchResp.Docs {
		result := BookResult{
			Key:   doc.Key,
			Title: doc.Title,
			Year:  doc.FirstPublishYear,
		}
		if len(doc.AuthorName) > 0 {
			result.Author = strings.Join(doc.AuthorName, ", ")
		}
		if doc.CoverID != 0 {
			result.CoverURL = fmt.Sprintf("%s/%d-M.jpg", coverBaseURL, doc.CoverID)
		}
		results = append(results, result)
	}

	return results, nil
}
