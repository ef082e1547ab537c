package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

const SearchLimit = 10

type LookupStatus string

const (
	StatusOK            LookupStatus = "ok"
	StatusNotFound      LookupStatus = "not_found"
	StatusInvalidInput  LookupStatus = "invalid_input"
	StatusUpstreamError LookupStatus = "upstream_error"
)

type SearchOutcome struct {
	Status   LookupStatus
	Results  []domain.SearchResult
	Fallback bool
	Err      error
}

type InfoOutcome struct {
	Status   LookupStatus
	Info     *domain.VideoInfo
	Fallback bool
	Err      error
}

// LookupService separa "sin resultados" de "servicio caído"; el payload demo
// sólo se usa si demoFallback está activo y siempre queda marcado.
type LookupService struct {
	search       Searcher
	info         InfoFetcher
	demoFallback bool
}

func NewLookupService(search Searcher, info InfoFetcher, demoFallback bool) *LookupService {
	return &LookupService{search: search, info: info, demoFallback: demoFallback}
}

func (s *LookupService) Search(ctx context.Context, query string) SearchOutcome {
	results, err := s.search.Search(ctx, query, SearchLimit)
	switch {
	case err == nil && len(results) > 0:
		return SearchOutcome{Status: StatusOK, Results: results}
	case err == nil || errors.Is(err, domain.ErrNotFound):
		return SearchOutcome{Status: StatusNotFound, Results: []domain.SearchResult{}}
	case errors.Is(err, domain.ErrInvalidInput):
		return SearchOutcome{Status: StatusInvalidInput, Err: err}
	}
	out := SearchOutcome{Status: StatusUpstreamError, Err: err}
	if s.demoFallback {
		out.Fallback = true
		out.Results = []domain.SearchResult{DemoSearchResult(query)}
	}
	return out
}

func (s *LookupService) Info(ctx context.Context, url string) InfoOutcome {
	info, err := s.info.Info(ctx, url)
	switch {
	case err == nil:
		return InfoOutcome{Status: StatusOK, Info: &info}
	case errors.Is(err, domain.ErrNotFound):
		return InfoOutcome{Status: StatusNotFound, Err: err}
	case errors.Is(err, domain.ErrInvalidInput):
		return InfoOutcome{Status: StatusInvalidInput, Err: err}
	}
	out := InfoOutcome{Status: StatusUpstreamError, Err: err}
	if s.demoFallback {
		demo := DemoVideoInfo(url)
		out.Fallback = true
		out.Info = &demo
	}
	return out
}

const demoVideoID = "dQw4w9WgXcQ"

func DemoSearchResult(query string) domain.SearchResult {
	return domain.SearchResult{
		ID:        demoVideoID,
		Title:     "Search: " + query,
		URL:       domain.WatchURL(demoVideoID),
		Thumbnail: domain.ThumbnailURL(demoVideoID),
		Duration:  "3:32",
		Channel:   "Demo Channel",
		Views:     "1000000",
	}
}

var reVideoID = regexp.MustCompile(`(?:v=|/)([a-zA-Z0-9_-]{11})`)

func DemoVideoInfo(url string) domain.VideoInfo {
	id := "unknown"
	if m := reVideoID.FindStringSubmatch(url); len(m) == 2 {
		id = m[1]
	}
	return domain.VideoInfo{
		ID:          id,
		Title:       "Video Info (Demo Mode)",
		Description: "Full video info requires proper setup",
		Thumbnail:   domain.ThumbnailURL(id),
		Duration:    "Unknown",
		Channel:     "Unknown",
		Views:       "0",
	}
}
