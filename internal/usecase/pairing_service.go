package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vinoteca/backend/internal/domain"
)

// defaultIdeas is what Suggest falls back to when no rule matches: three
// general-purpose picks, so a well-formed dish always produces suggestions.
var defaultIdeas = []domain.PairingIdea{
	{Query: "Pinot Noir", Reason: "Versatile light red for many dishes.", Level: domain.TierBasic, FromDish: "general"},
	{Query: "Chardonnay", Reason: "Textural white for creamy/buttery flavors.", Level: domain.TierBasic, FromDish: "general"},
	{Query: "Sauvignon Blanc", Reason: "Crisp white for herbs, salads, seafood.", Level: domain.TierBasic, FromDish: "general"},
}

// PairingService suggests wine ideas for dish text. It loads the two static
// pairing tiers once at construction and is read-only afterwards, so all
// methods are safe for concurrent use.
//
// Matching is symmetric substring: a rule hits when its dish name contains
// the input or the input contains the dish name. That deliberately trades
// precision for recall so partial dish names match in either direction
// ("salmon" finds "grilled salmon", "grilled salmon fillet" finds "grilled
// salmon").
type PairingService struct {
	basic   []domain.PairingRule
	gourmet []domain.PairingRule
	merged  []domain.PairingRule
}

// NewPairingService loads both pairing datasets
func NewPairingService(basicPath, gourmetPath string) (*PairingService, error) {
	basic, err := loadRules(basicPath, domain.TierBasic)
	if err != nil {
		return nil, err
	}
	gourmet, err := loadRules(gourmetPath, domain.TierGourmet)
	if err != nil {
		return nil, err
	}

	merged := make([]domain.PairingRule, 0, len(basic)+len(gourmet))
	merged = append(merged, basic...)
	merged = append(merged, gourmet...)

	log.Printf("[pairings] loaded: basic=%d, gourmet=%d", len(basic), len(gourmet))
	return &PairingService{basic: basic, gourmet: gourmet, merged: merged}, nil
}

func loadRules(path string, tier domain.Tier) ([]domain.PairingRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pairing dataset %s: %w", path, err)
	}
	var rules []domain.PairingRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse pairing dataset %s: %w", path, err)
	}
	for i := range rules {
		rules[i].Tier = tier
	}
	return rules, nil
}

// ListDishes returns the dish names of both tiers, in load order
func (s *PairingService) ListDishes() domain.DishIndex {
	index := domain.DishIndex{
		Basic:   make([]string, 0, len(s.basic)),
		Gourmet: make([]string, 0, len(s.gourmet)),
	}
	for _, rule := range s.basic {
		index.Basic = append(index.Basic, rule.Dish)
	}
	for _, rule := range s.gourmet {
		index.Gourmet = append(index.Gourmet, rule.Dish)
	}
	return index
}

// Suggest returns wine ideas for the given dish text. Recommendations from
// all matching rules are flattened in dataset order and deduplicated by
// query, case-insensitively, keeping the first occurrence and its
// originating dish and tier. Non-empty input always yields at least one
// idea; blank input yields none.
func (s *PairingService) Suggest(dishText string) []domain.PairingIdea {
	q := strings.ToLower(strings.TrimSpace(dishText))
	if q == "" {
		return []domain.PairingIdea{}
	}

	var hits []domain.PairingRule
	for _, rule := range s.merged {
		dish := strings.ToLower(strings.TrimSpace(rule.Dish))
		if dish == "" {
			continue
		}
		if strings.Contains(dish, q) || strings.Contains(q, dish) {
			hits = append(hits, rule)
		}
	}

	if len(hits) == 0 {
		ideas := make([]domain.PairingIdea, len(defaultIdeas))
		copy(ideas, defaultIdeas)
		return ideas
	}

	seen := make(map[string]bool)
	ideas := make([]domain.PairingIdea, 0)
	for _, rule := range hits {
		for _, rec := range rule.Recommends {
			key := strings.ToLower(strings.TrimSpace(rec.Query))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			ideas = append(ideas, domain.PairingIdea{
				Query:    rec.Query,
				Reason:   rec.Reason,
				Level:    rule.Tier,
				FromDish: rule.Dish,
			})
		}
	}
	return ideas
}
