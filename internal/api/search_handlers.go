package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/books",
		Summary:     "Search books",
		Description: "Looks up books on Open Library to prefill add-book forms",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)
}

// === DTOs ===

// SearchBooksInput contains parameters for searching books.
type SearchBooksInput struct {
	Query string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
}

// SearchResultResponse contains one book match.
type SearchResultResponse struct {
	Key      string `json:"key" doc:"Open Library work key"`
	Title    string `json:"title" doc:"Book title"`
	Author   string `json:"author" doc:"Author names, comma separated"`
	Year     int    `json:"year,omitempty" doc:"First publication year"`
	CoverURL string `json:"cover_url,omitempty" doc:"Cover image URL"`
}

// SearchBooksResponse contains book search results.
type SearchBooksResponse struct {
	Query   string                 `json:"query" doc:"Original search query"`
	Results []SearchResultResponse `json:"results" doc:"Book matches"`
}

// SearchBooksOutput wraps the search response for Huma.
type SearchBooksOutput struct {
	Body SearchBooksResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	results, err := s.services.Search.SearchBooks(ctx, input.Query)
	if err != nil {
		s.logger.Error("Book search failed", "error", err, "query", input.Query)
		return nil, huma.Error502BadGateway("Book search is unavailable right now")
	}

	resp := make([]SearchResultResponse, len(results))
	for i, r := range results {
		resp[i] = SearchResultResponse{
			Key:      r.Key,
			Title:    r.Title,
			Author:   r.Author,
			Year:     r.Year,
			CoverURL: r.CoverURL,
		}
	}

	return &SearchBooksOutput{
		Body: SearchBooksResponse{
			Query:   input.Query,
			Results: resp,
		},
	}, nil
}
