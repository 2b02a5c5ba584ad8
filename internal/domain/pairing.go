package domain

// Tier is the pairing dataset a dish belongs to.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierGourmet Tier = "gourmet"
)

// Recommendation is one wine idea attached to a dish: a catalog search query
// plus a human-readable reason.
type Recommendation struct {
	Query  string `json:"query"`
	Reason string `json:"reason"`
}

// PairingRule maps a dish name to its recommended wine searches. Rules are
// loaded once from the static datasets and immutable afterwards.
type PairingRule struct {
	Dish       string           `json:"dish"`
	Tier       Tier             `json:"-"`
	Recommends []Recommendation `json:"recommends"`
}

// PairingIdea is one deduplicated suggestion produced for an input dish,
// tagged with the tier and dish of the rule it came from.
type PairingIdea struct {
	Query    string `json:"query"`
	Reason   string `json:"reason"`
	Level    Tier   `json:"level"`
	FromDish string `json:"fromDish"`
}

// DishIndex lists the loaded dish names per tier, in load order.
type DishIndex struct {
	Basic   []string `json:"basic"`
	Gourmet []string `json:"gourmet"`
}
