package service

import (
	"math"
	"sort"
	"strings"

	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/apperr"
)

// ErrCatalogEmpty is returned when bundle selection runs against an empty
// catalog. Callers surface it as a validation failure, never a crash.
var ErrCatalogEmpty = apperr.Validation("catalog is empty").WithCode("catalog_empty")

// areaFilters maps an application area to the category keywords admitted for
// it. Areas missing from the map (residenziale, unknown) take the whole
// catalog.
var areaFilters = map[string][]string{
	"commerciale": {"Commercial", "Container"},
	"industriale": {"Industrial", "Container", "Utility"},
	"utility":     {"Utility", "Grid", "Industrial"},
}

// SelectBundle picks the product that covers the requested power and
// capacity in the fewest units. Products are filtered by application area
// first; if the filter leaves nothing, the full catalog is used instead of
// failing. Candidates are ranked by unit count ascending, with descending
// power rating breaking ties. A rating of zero makes that dimension
// non-binding; a product binding on neither dimension is never selected.
func SelectBundle(powerKW, capacityKWH float64, products []transport.ProductSnapshot, applicationArea string) (transport.ProductSnapshot, int, error) {
	if len(products) == 0 {
		return transport.ProductSnapshot{}, 0, ErrCatalogEmpty
	}

	candidates := filterByArea(products, applicationArea)
	if len(candidates) == 0 {
		candidates = append([]transport.ProductSnapshot(nil), products...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PowerRating > candidates[j].PowerRating
	})

	var best *transport.ProductSnapshot
	bestUnits := 0
	for i := range candidates {
		units, ok := unitsRequired(powerKW, capacityKWH, candidates[i])
		if !ok {
			continue
		}
		if best == nil || units < bestUnits {
			best = &candidates[i]
			bestUnits = units
		}
	}

	if best == nil {
		// Nothing can be sized against the request; fall back to the
		// largest product as a single unit.
		return candidates[0], 1, nil
	}
	return *best, bestUnits, nil
}

// unitsRequired computes how many units of the product satisfy both
// dimensions. The second return is false when neither dimension binds.
func unitsRequired(powerKW, capacityKWH float64, p transport.ProductSnapshot) (int, bool) {
	units := 0
	bound := false

	if p.PowerRating > 0 {
		forPower := int(math.Ceil(powerKW / p.PowerRating))
		if forPower > units {
			units = forPower
		}
		bound = true
	}
	if p.EnergyCapacity > 0 {
		forEnergy := int(math.Ceil(capacityKWH / p.EnergyCapacity))
		if forEnergy > units {
			units = forEnergy
		}
		bound = true
	}

	if !bound || units < 1 {
		if !bound {
			return 0, false
		}
		units = 1
	}
	return units, true
}

func filterByArea(products []transport.ProductSnapshot, area string) []transport.ProductSnapshot {
	keywords, ok := areaFilters[area]
	if !ok {
		return append([]transport.ProductSnapshot(nil), products...)
	}

	var out []transport.ProductSnapshot
	for _, p := range products {
		for _, kw := range keywords {
			if strings.Contains(p.Category, kw) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
