// Package matching scores deals against buy boxes and records the results
// as deal_matches.
package matching

import (
	"math"
	"strings"

	"dealdesk/api-service/internal/model"
)

// Score rates how well d fits b on a 0-100 scale. Every criterion the buy
// box sets counts as one check; the score is the share of checks passed.
// A buy box with no criteria accepts everything.
func Score(b model.BuyBox, d model.Deal) float64 {
	var considered, passed int
	check := func(ok bool) {
		considered++
		if ok {
			passed++
		}
	}

	if b.MinPrice != nil || b.MaxPrice != nil {
		check(within(d.AskingPrice, b.MinPrice, b.MaxPrice))
	}
	if b.MinBeds != nil || b.MaxBeds != nil {
		check(within(d.Bedrooms, b.MinBeds, b.MaxBeds))
	}
	if b.MinBaths != nil || b.MaxBaths != nil {
		check(within(d.Bathrooms, b.MinBaths, b.MaxBaths))
	}
	if b.MinSqft != nil || b.MaxSqft != nil {
		check(within(d.Sqft, b.MinSqft, b.MaxSqft))
	}
	if b.Strategy != "" && b.Strategy != "any" {
		check(d.Strategy != nil && strings.EqualFold(*d.Strategy, b.Strategy))
	}
	if len(b.Locations) > 0 {
		check(inLocations(d, b.Locations))
	}

	if considered == 0 {
		return 100
	}
	return math.Round(10000*float64(passed)/float64(considered)) / 100
}

func within[T int | float64](v, lo, hi *T) bool {
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}

func inLocations(d model.Deal, locations []string) bool {
	for _, loc := range locations {
		if d.City != nil && strings.EqualFold(strings.TrimSpace(*d.City), loc) {
			return true
		}
		if d.Address != nil && strings.Contains(strings.ToLower(*d.Address), strings.ToLower(loc)) {
			return true
		}
	}
	return false
}
