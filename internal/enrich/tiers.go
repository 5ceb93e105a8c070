package enrich

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/abarbosa-dev/vinexport/internal/model"
)

// assignTiers labels each liter volume with a tier. Rows without a positive
// volume get TierNone. The positive subset is split into four
// equal-population quartile bins; when the quartile boundaries collapse
// (too few distinct values) it falls back to four equal-width bins over the
// same range.
func assignTiers(liters []decimal.NullDecimal) []model.VolumeTier {
	tiers := make([]model.VolumeTier, len(liters))

	var positives []float64
	for i, l := range liters {
		if model.Positive(l) {
			positives = append(positives, l.Decimal.InexactFloat64())
		} else {
			tiers[i] = model.TierNone
		}
	}
	if len(positives) == 0 {
		return tiers
	}

	sorted := append([]float64(nil), positives...)
	sort.Float64s(sorted)

	edges, ok := quartileEdges(sorted)
	for i, l := range liters {
		if !model.Positive(l) {
			continue
		}
		v := l.Decimal.InexactFloat64()
		if ok {
			tiers[i] = model.PositiveTiers[quartileBin(v, edges)]
		} else {
			tiers[i] = model.PositiveTiers[widthBin(v, sorted[0], sorted[len(sorted)-1])]
		}
	}
	return tiers
}

// quartileEdges returns the q1/q2/q3 boundaries of the sorted sample using
// linear interpolation. ok is false when the edges are not strictly
// increasing across the full range, in which case equal-population binning
// cannot produce four groups.
func quartileEdges(sorted []float64) ([3]float64, bool) {
	edges := [3]float64{
		quantile(sorted, 0.25),
		quantile(sorted, 0.50),
		quantile(sorted, 0.75),
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	prev := lo
	for _, e := range edges {
		if e <= prev {
			return edges, false
		}
		prev = e
	}
	return edges, prev < hi
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// quartileBin places v into one of four right-inclusive quartile intervals.
func quartileBin(v float64, edges [3]float64) int {
	switch {
	case v <= edges[0]:
		return 0
	case v <= edges[1]:
		return 1
	case v <= edges[2]:
		return 2
	default:
		return 3
	}
}

// widthBin places v into one of four equal-width bins over [min, max].
// A degenerate range (all values equal) lands everything in the first bin.
func widthBin(v, min, max float64) int {
	width := (max - min) / 4
	if width <= 0 {
		return 0
	}
	idx := int((v - min) / width)
	if idx > 3 {
		idx = 3
	}
	return idx
}
