package sampleapis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vinoteca/backend/internal/domain"
)

// rawWine mirrors the upstream payload, which is not entirely consistent:
// the display name arrives under "wine" or "name", origin under "location"
// or "region", the image under "image" or "imageUrl", and rating is either a
// bare number or an {average, reviews} object. Everything is normalized here
// so the rest of the codebase only sees domain.Wine.
type rawWine struct {
	ID       int64           `json:"id"`
	Wine     string          `json:"wine"`
	Name     string          `json:"name"`
	Grape    string          `json:"grape"`
	Winery   string          `json:"winery"`
	Location string          `json:"location"`
	Region   string          `json:"region"`
	Year     *int            `json:"year"`
	Rating   json.RawMessage `json:"rating"`
	Price    *float64        `json:"price"`
	Image    string          `json:"image"`
	ImageURL string          `json:"imageUrl"`
}

// mapToWine converts an upstream payload entry to the domain model, tagging
// it with the style of the category endpoint it came from.
func mapToWine(raw rawWine, style domain.Style) domain.Wine {
	name := raw.Name
	if name == "" {
		name = raw.Wine
	}

	location := raw.Location
	if location == "" {
		location = raw.Region
	}

	image := raw.Image
	if image == "" {
		image = raw.ImageURL
	}

	rating, reviews := flattenRating(raw.Rating)

	return domain.Wine{
		ID:       raw.ID,
		Name:     name,
		Grape:    raw.Grape,
		Winery:   raw.Winery,
		Location: location,
		Year:     raw.Year,
		Rating:   rating,
		Reviews:  reviews,
		Price:    raw.Price,
		Style:    style,
		Image:    image,
	}
}

// flattenRating resolves the upstream rating union into a flat average plus
// an optional review count. Accepted shapes: a bare number, or an object with
// "average" (number or numeric string) and "reviews" (number or a string
// like "33 ratings").
func flattenRating(raw json.RawMessage) (*float64, *int) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var bare float64
	if err := json.Unmarshal(raw, &bare); err == nil {
		return &bare, nil
	}

	var obj struct {
		Average json.RawMessage `json:"average"`
		Reviews json.RawMessage `json:"reviews"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, nil
	}
	return parseNumber(obj.Average), parseCount(obj.Reviews)
}

// parseNumber reads a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &v
		}
	}
	return nil
}

// parseCount reads a JSON integer or the leading integer of a string such as
// "33 ratings".
func parseCount(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &v
}
