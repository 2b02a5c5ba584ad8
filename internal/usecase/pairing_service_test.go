package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/backend/internal/domain"
)

const basicDataset = `[
	{"dish": "pizza", "recommends": [
		{"query": "Sangiovese", "reason": "Acidity for tomato."},
		{"query": "Barbera", "reason": "Juicy red fruit."}
	]},
	{"dish": "salmon", "recommends": [
		{"query": "pinot noir", "reason": "Light red for fish."}
	]}
]`

const gourmetDataset = `[
	{"dish": "grilled salmon", "recommends": [
		{"query": "Pinot Noir", "reason": "Silky red for rich fish."},
		{"query": "Chablis", "reason": "Steely white."}
	]},
	{"dish": "beef wellington", "recommends": [
		{"query": "Bordeaux", "reason": "Structured blend."}
	]}
]`

func newTestPairingService(t *testing.T) *PairingService {
	t.Helper()
	dir := t.TempDir()

	basicPath := filepath.Join(dir, "pairings-basic.json")
	gourmetPath := filepath.Join(dir, "pairings-gourmet.json")
	require.NoError(t, os.WriteFile(basicPath, []byte(basicDataset), 0o644))
	require.NoError(t, os.WriteFile(gourmetPath, []byte(gourmetDataset), 0o644))

	svc, err := NewPairingService(basicPath, gourmetPath)
	require.NoError(t, err)
	return svc
}

func TestNewPairingService_MissingFile(t *testing.T) {
	_, err := NewPairingService("/nonexistent/basic.json", "/nonexistent/gourmet.json")
	require.Error(t, err)
}

func TestNewPairingService_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewPairingService(path, path)
	require.Error(t, err)
}

func TestListDishes(t *testing.T) {
	svc := newTestPairingService(t)

	index := svc.ListDishes()
	assert.Equal(t, []string{"pizza", "salmon"}, index.Basic)
	assert.Equal(t, []string{"grilled salmon", "beef wellington"}, index.Gourmet)
}

func TestSuggest_SymmetricSubstringMatch(t *testing.T) {
	svc := newTestPairingService(t)

	// Input contained in dish name: "salmon" hits "grilled salmon"
	ideas := svc.Suggest("salmon")
	require.NotEmpty(t, ideas)

	var foundGourmet bool
	for _, idea := range ideas {
		if idea.FromDish == "grilled salmon" {
			foundGourmet = true
			assert.Equal(t, domain.TierGourmet, idea.Level)
		}
	}
	assert.True(t, foundGourmet, "partial dish name should reach the gourmet rule")

	// Dish name contained in input: "grilled salmon with lemon" hits too
	ideas = svc.Suggest("grilled salmon with lemon")
	require.NotEmpty(t, ideas)
	assert.Equal(t, "grilled salmon", ideas[0].FromDish)
}

func TestSuggest_DedupeByQueryCaseInsensitive(t *testing.T) {
	svc := newTestPairingService(t)

	// "salmon" matches the basic rule ("pinot noir") and the gourmet rule
	// ("Pinot Noir"); dedupe keeps the first occurrence in dataset order.
	ideas := svc.Suggest("salmon")

	seen := make(map[string]int)
	for _, idea := range ideas {
		seen[strings.ToLower(idea.Query)]++
	}
	for query, count := range seen {
		assert.Equal(t, 1, count, "query %q appears more than once", query)
	}

	require.NotEmpty(t, ideas)
	assert.Equal(t, "pinot noir", ideas[0].Query, "basic tier loads first and wins the dedupe")
	assert.Equal(t, domain.TierBasic, ideas[0].Level)
	assert.Equal(t, "salmon", ideas[0].FromDish)
}

func TestSuggest_FallbackNeverEmpty(t *testing.T) {
	svc := newTestPairingService(t)

	ideas := svc.Suggest("pad thai")
	require.Len(t, ideas, 3)
	for _, idea := range ideas {
		assert.Equal(t, domain.TierBasic, idea.Level)
		assert.Equal(t, "general", idea.FromDish)
	}

	queries := []string{ideas[0].Query, ideas[1].Query, ideas[2].Query}
	assert.Equal(t, []string{"Pinot Noir", "Chardonnay", "Sauvignon Blanc"}, queries)
}

func TestSuggest_InputNormalization(t *testing.T) {
	svc := newTestPairingService(t)

	ideas := svc.Suggest("  PIZZA  ")
	require.NotEmpty(t, ideas)
	assert.Equal(t, "pizza", ideas[0].FromDish)
	assert.Equal(t, "Sangiovese", ideas[0].Query)
}

func TestSuggest_BlankInput(t *testing.T) {
	svc := newTestPairingService(t)

	assert.Empty(t, svc.Suggest(""))
	assert.Empty(t, svc.Suggest("   "))
}

func TestSuggest_FlattensAllMatchedRules(t *testing.T) {
	svc := newTestPairingService(t)

	ideas := svc.Suggest("salmon")

	// basic "salmon" contributes pinot noir; gourmet "grilled salmon"
	// contributes Chablis (Pinot Noir deduped away).
	require.Len(t, ideas, 2)
	assert.Equal(t, "Chablis", ideas[1].Query)
	assert.Equal(t, domain.TierGourmet, ideas[1].Level)
}
