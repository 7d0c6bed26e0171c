// Package buybox manages saved investment criteria and the per-buy-box
// match counts shown on the dashboard.
package buybox

import (
	"slices"
	"strings"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Strategies accepted on a buy box.
var Strategies = []string{"any", "flip", "rental", "brrrr", "wholesale"}

// AlertFrequencies accepted on a buy box.
var AlertFrequencies = []string{"instant", "daily", "weekly", "never"}

// CountMatches groups matches by buy box, keeping only those scoring at
// least threshold. Rows come back in order of each buy box's first
// qualifying match.
func CountMatches(matches []model.DealMatch, threshold float64) []model.MatchCount {
	counts := make([]model.MatchCount, 0)
	index := make(map[string]int)
	for _, m := range matches {
		if m.MatchScore < threshold {
			continue
		}
		i, ok := index[m.BuyBoxID]
		if !ok {
			i = len(counts)
			index[m.BuyBoxID] = i
			counts = append(counts, model.MatchCount{BuyBoxID: m.BuyBoxID})
		}
		counts[i].Count++
	}
	return counts
}

// Normalize fills defaults and validates b in place.
func Normalize(b *model.BuyBox) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return api.Invalid("name is required")
	}

	b.Strategy = strings.ToLower(strings.TrimSpace(b.Strategy))
	if b.Strategy == "" {
		b.Strategy = "any"
	}
	if !slices.Contains(Strategies, b.Strategy) {
		return api.Invalid("strategy must be one of %s", strings.Join(Strategies, ", "))
	}

	b.AlertFrequency = strings.ToLower(strings.TrimSpace(b.AlertFrequency))
	if b.AlertFrequency == "" {
		b.AlertFrequency = "daily"
	}
	if !slices.Contains(AlertFrequencies, b.AlertFrequency) {
		return api.Invalid("alert_frequency must be one of %s", strings.Join(AlertFrequencies, ", "))
	}

	if err := checkRange("price", b.MinPrice, b.MaxPrice); err != nil {
		return err
	}
	if err := checkRange("beds", b.MinBeds, b.MaxBeds); err != nil {
		return err
	}
	if err := checkRange("baths", b.MinBaths, b.MaxBaths); err != nil {
		return err
	}
	if err := checkRange("sqft", b.MinSqft, b.MaxSqft); err != nil {
		return err
	}

	locs := make([]string, 0, len(b.Locations))
	for _, l := range b.Locations {
		if l = strings.TrimSpace(l); l != "" {
			locs = append(locs, l)
		}
	}
	b.Locations = locs
	return nil
}

func checkRange[T int | float64](name string, lo, hi *T) error {
	if lo != nil && *lo < 0 {
		return api.Invalid("min_%s must not be negative", name)
	}
	if hi != nil && *hi < 0 {
		return api.Invalid("max_%s must not be negative", name)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return api.Invalid("min_%s must not exceed max_%s", name, name)
	}
	return nil
}
