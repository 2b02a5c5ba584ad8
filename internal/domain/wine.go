package domain

import "strings"

// Style is the catalog category a wine belongs to.
type Style string

const (
	StyleReds      Style = "reds"
	StyleWhites    Style = "whites"
	StyleSparkling Style = "sparkling"
	StyleRose      Style = "rose"
	StyleDessert   Style = "dessert"
)

// Styles lists every catalog category in fetch order. The merged catalog is
// the concatenation of the per-category results in this order.
var Styles = []Style{StyleReds, StyleWhites, StyleSparkling, StyleRose, StyleDessert}

// ParseStyle matches a caller-supplied style string against the known
// categories, case-insensitively.
func ParseStyle(s string) (Style, bool) {
	candidate := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, style := range Styles {
		if style == candidate {
			return style, true
		}
	}
	return "", false
}

// Wine is one normalized catalog entry. Style is injected by the fetch step
// from the category endpoint that produced the entry; the upstream payload
// does not carry it. Everything except ID, Name and Style is optional
// upstream.
type Wine struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Grape    string   `json:"grape,omitempty"`
	Winery   string   `json:"winery,omitempty"`
	Location string   `json:"location,omitempty"`
	Year     *int     `json:"year,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Reviews  *int     `json:"reviews,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Style    Style    `json:"style"`
	Image    string   `json:"image,omitempty"`
}
