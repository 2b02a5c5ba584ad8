package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vinoteca/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Upstream location strings embed "\n·\n" separators between region and
	// country; they collapse to a single " · " in responses.
	locationSeparatorRegex = regexp.MustCompile(`\n·\n`)
	multipleSpacesRegex    = regexp.MustCompile(`\s+`)
)

// WineView is the response shape of one catalog entry. Optional fields are
// pointers so absent upstream data serializes as explicit nulls.
type WineView struct {
	ID       int64        `json:"id"`
	Name     *string      `json:"name"`
	Grape    *string      `json:"grape"`
	Winery   *string      `json:"winery"`
	Location string       `json:"location"`
	Year     *int         `json:"year"`
	Rating   *float64     `json:"rating"`
	Reviews  *int         `json:"reviews"`
	Price    *float64     `json:"price"`
	Style    domain.Style `json:"style"`
	Image    *string      `json:"image"`
}

// SearchResult is one page of catalog search results
type SearchResult struct {
	Query   string     `json:"query"`
	Count   int        `json:"count"`
	Total   int        `json:"total"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	Results []WineView `json:"results"`
	Message string     `json:"message,omitempty"`
}

// ListResult is one page of the catalog, optionally restricted to a style
type ListResult struct {
	Style   domain.Style `json:"style,omitempty"`
	Count   int          `json:"count"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	Results []WineView   `json:"results"`
}

// IdeaMatches pairs one pairing idea with the catalog entries its query
// resolves to.
type IdeaMatches struct {
	Idea    domain.PairingIdea `json:"idea"`
	Matches []WineView         `json:"matches"`
}

// WineService answers catalog queries from the shared catalog. All filtering
// runs in memory over the current snapshot; only the catalog itself may
// suspend, and only on a cold cache.
type WineService struct {
	catalog domain.Catalog
}

// NewWineService creates a wine query service
func NewWineService(catalog domain.Catalog) *WineService {
	return &WineService{catalog: catalog}
}

// Search filters the catalog by a name/grape substring and paginates the
// result. Validation of q, limit and offset is the HTTP layer's job.
func (s *WineService) Search(ctx context.Context, q string, limit, offset int) (*SearchResult, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterByQuery(all, q)
	page := Paginate(filtered, limit, offset)

	result := &SearchResult{
		Query:   q,
		Count:   len(page),
		Total:   len(filtered),
		Limit:   limit,
		Offset:  offset,
		Results: normalizeAll(page),
	}
	if len(filtered) == 0 {
		result.Message = fmt.Sprintf("No wines matched %q.", q)
	}
	return result, nil
}

// List returns one page of the catalog. A nil style means all categories.
func (s *WineService) List(ctx context.Context, style *domain.Style, limit, offset int) (*ListResult, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := all
	result := &ListResult{Limit: limit, Offset: offset}
	if style != nil {
		filtered = FilterByStyle(all, *style)
		result.Style = *style
	}

	page := Paginate(filtered, limit, offset)
	result.Count = len(page)
	result.Total = len(filtered)
	result.Results = normalizeAll(page)
	return result, nil
}

// MatchIdeas resolves each pairing idea's query against the catalog,
// returning up to limit matches per idea.
func (s *WineService) MatchIdeas(ctx context.Context, ideas []domain.PairingIdea, limit int) ([]IdeaMatches, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]IdeaMatches, 0, len(ideas))
	for _, idea := range ideas {
		matches := Paginate(FilterByQuery(all, idea.Query), limit, 0)
		resolved = append(resolved, IdeaMatches{
			Idea:    idea,
			Matches: normalizeAll(matches),
		})
	}
	return resolved, nil
}

// FilterByQuery returns the entries whose display name or grape contains q,
// case-insensitively, preserving input order. An empty query matches
// everything: the function stays total and the "q required" rule lives at
// the HTTP boundary.
func FilterByQuery(wines []domain.Wine, q string) []domain.Wine {
	needle := strings.ToLower(q)
	filtered := make([]domain.Wine, 0)
	for _, w := range wines {
		name := strings.ToLower(w.Name)
		grape := strings.ToLower(w.Grape)
		if strings.Contains(name, needle) || strings.Contains(grape, needle) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// FilterByStyle returns the entries of one catalog category, preserving
// input order. Unknown style strings are rejected at the HTTP boundary
// before this point.
func FilterByStyle(wines []domain.Wine, style domain.Style) []domain.Wine {
	filtered := make([]domain.Wine, 0)
	for _, w := range wines {
		if strings.EqualFold(string(w.Style), string(style)) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// Paginate returns the sub-sequence [offset, offset+limit), clamped to the
// input bounds. An offset past the end yields an empty page, not an error.
func Paginate(wines []domain.Wine, limit, offset int) []domain.Wine {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(wines) {
		return []domain.Wine{}
	}
	end := offset + limit
	if end > len(wines) {
		end = len(wines)
	}
	return wines[offset:end]
}

// NormalizeForResponse maps a catalog entry to its response shape, cleaning
// the location text and turning absent optional fields into explicit nulls.
func NormalizeForResponse(w domain.Wine) WineView {
	return WineView{
		ID:       w.ID,
		Name:     optional(w.Name),
		Grape:    optional(w.Grape),
		Winery:   optional(w.Winery),
		Location: CleanLocation(w.Location),
		Year:     w.Year,
		Rating:   w.Rating,
		Reviews:  w.Reviews,
		Price:    w.Price,
		Style:    w.Style,
		Image:    optional(w.Image),
	}
}

// CleanLocation collapses the upstream's embedded separator artifacts and
// redundant whitespace into a single-line, single-spaced string.
func CleanLocation(s string) string {
	s = locationSeparatorRegex.ReplaceAllString(s, " · ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func normalizeAll(wines []domain.Wine) []WineView {
	views := make([]WineView, 0, len(wines))
	for _, w := range wines {
		views = append(views, NormalizeForResponse(w))
	}
	return views
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
