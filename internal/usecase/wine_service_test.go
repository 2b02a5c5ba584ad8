package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/backend/internal/domain"
)

// fakeCatalog serves a fixed wine list or a fixed error
type fakeCatalog struct {
	wines []domain.Wine
	err   error
}

func (f *fakeCatalog) GetAll(ctx context.Context) ([]domain.Wine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.wines, nil
}

func testWines() []domain.Wine {
	year := 2018
	rating := 4.4
	return []domain.Wine{
		{ID: 1, Name: "Merlot Reserve", Grape: "Merlot", Style: domain.StyleReds, Year: &year, Rating: &rating},
		{ID: 2, Name: "Maselva Empordà", Winery: "Ferrer", Style: domain.StyleReds, Location: "Spain\n·\nEmpordà"},
		{ID: 3, Name: "Chablis Premier Cru", Grape: "Chardonnay", Style: domain.StyleWhites},
		{ID: 4, Name: "Brut Nature", Grape: "Pinot Noir", Style: domain.StyleSparkling},
		{ID: 5, Name: "Late Harvest", Grape: "Riesling", Style: domain.StyleDessert},
	}
}

func TestFilterByQuery(t *testing.T) {
	wines := testWines()

	tests := []struct {
		name    string
		q       string
		wantIDs []int64
	}{
		{"substring on name", "merl", []int64{1}},
		{"case-insensitive name", "MASELVA", []int64{2}},
		{"substring on grape", "chardonnay", []int64{3}},
		{"name or grape", "pinot", []int64{4}},
		{"no match on winery", "ferrer", nil},
		{"empty query matches all", "", []int64{1, 2, 3, 4, 5}},
		{"no match", "zinfandel", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByQuery(wines, tt.q)
			var ids []int64
			for _, w := range got {
				ids = append(ids, w.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterByQuery_PreservesOrder(t *testing.T) {
	wines := []domain.Wine{
		{ID: 3, Name: "Pinot Gris", Style: domain.StyleWhites},
		{ID: 1, Name: "Pinot Noir", Style: domain.StyleReds},
		{ID: 2, Name: "Pinot Blanc", Style: domain.StyleWhites},
	}

	got := FilterByQuery(wines, "pinot")
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, int64(2), got[2].ID)
}

func TestFilterByStyle(t *testing.T) {
	wines := testWines()

	reds := FilterByStyle(wines, domain.StyleReds)
	require.Len(t, reds, 2)
	for _, w := range reds {
		assert.Equal(t, domain.StyleReds, w.Style)
	}

	assert.Empty(t, FilterByStyle(wines, domain.StyleRose))
}

func TestPaginate(t *testing.T) {
	wines := testWines()

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantIDs []int64
	}{
		{"first page", 2, 0, []int64{1, 2}},
		{"second page", 2, 2, []int64{3, 4}},
		{"partial last page", 2, 4, []int64{5}},
		{"offset at length", 2, 5, nil},
		{"offset past length", 10, 100, nil},
		{"limit past length", 100, 0, []int64{1, 2, 3, 4, 5}},
		{"negative offset clamps to zero", 2, -3, []int64{1, 2}},
		{"zero limit yields empty page", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(wines, tt.limit, tt.offset)
			require.NotNil(t, got)
			var ids []int64
			for _, w := range got {
				ids = append(ids, w.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCleanLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"separator artifact", "Spain\n·\nEmpordà", "Spain · Empordà"},
		{"multiple artifacts", "Spain\n·\nCatalonia\n·\nEmpordà", "Spain · Catalonia · Empordà"},
		{"redundant whitespace", "  Napa   Valley \n USA ", "Napa Valley USA"},
		{"already clean", "Bordeaux, France", "Bordeaux, France"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLocation(tt.in))
		})
	}
}

func TestNormalizeForResponse(t *testing.T) {
	year := 2018
	rating := 4.4
	reviews := 120
	w := domain.Wine{
		ID:       7,
		Name:     "Merlot Reserve",
		Grape:    "Merlot",
		Location: "Spain\n·\nEmpordà",
		Year:     &year,
		Rating:   &rating,
		Reviews:  &reviews,
		Style:    domain.StyleReds,
	}

	view := NormalizeForResponse(w)
	require.NotNil(t, view.Name)
	assert.Equal(t, "Merlot Reserve", *view.Name)
	assert.Equal(t, "Spain · Empordà", view.Location)
	assert.Equal(t, domain.StyleReds, view.Style)
	require.NotNil(t, view.Rating)
	assert.InDelta(t, 4.4, *view.Rating, 0.001)

	// Absent optionals become nils, not empty strings
	assert.Nil(t, view.Winery)
	assert.Nil(t, view.Price)
	assert.Nil(t, view.Image)
}

func TestWineService_Search(t *testing.T) {
	svc := NewWineService(&fakeCatalog{wines: testWines()})

	result, err := svc.Search(context.Background(), "merl", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "merl", result.Query)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, result.Total)
	assert.Empty(t, result.Message)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(1), result.Results[0].ID)
}

func TestWineService_Search_NoMatches(t *testing.T) {
	svc := NewWineService(&fakeCatalog{wines: testWines()})

	result, err := svc.Search(context.Background(), "nebbiolo", 20, 0)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
	assert.Contains(t, result.Message, "nebbiolo")
}

func TestWineService_Search_Pagination(t *testing.T) {
	svc := NewWineService(&fakeCatalog{wines: testWines()})

	result, err := svc.Search(context.Background(), "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 5, result.Total)
	require.Len(t, result.Results, 2)
	assert.Equal(t, int64(3), result.Results[0].ID)
}

func TestWineService_Search_CatalogError(t *testing.T) {
	svc := NewWineService(&fakeCatalog{err: domain.ErrUpstreamUnavailable})

	_, err := svc.Search(context.Background(), "merlot", 20, 0)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestWineService_List(t *testing.T) {
	svc := NewWineService(&fakeCatalog{wines: testWines()})

	all, err := svc.List(context.Background(), nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)
	assert.Empty(t, all.Style)

	style := domain.StyleReds
	reds, err := svc.List(context.Background(), &style, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, reds.Total)
	assert.Equal(t, domain.StyleReds, reds.Style)
}

func TestWineService_MatchIdeas(t *testing.T) {
	svc := NewWineService(&fakeCatalog{wines: testWines()})

	ideas := []domain.PairingIdea{
		{Query: "Pinot Noir", Reason: "r", Level: domain.TierGourmet, FromDish: "grilled salmon"},
		{Query: "Nebbiolo", Reason: "r", Level: domain.TierGourmet, FromDish: "mushroom risotto"},
	}

	resolved, err := svc.MatchIdeas(context.Background(), ideas, 3)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.Equal(t, "Pinot Noir", resolved[0].Idea.Query)
	require.Len(t, resolved[0].Matches, 1)
	assert.Equal(t, int64(4), resolved[0].Matches[0].ID)

	// Ideas with no catalog matches still appear, with an empty match list
	assert.NotNil(t, resolved[1].Matches)
	assert.Empty(t, resolved[1].Matches)
}
