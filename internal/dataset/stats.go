package dataset

import (
	"math"
	"sort"
)

// GroupRating is one value of a list column with its mean average rating.
type GroupRating struct {
	Value         string  `json:"value"`
	AverageRating float64 `json:"average_rating"`
}

// YearCount is the number of games published in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DensityPoint is one half-point rating bin within a group's density curve.
type DensityPoint struct {
	Bin     float64 `json:"bin"`
	Density float64 `json:"density"`
}

// GroupDensity is a group's normalized rating distribution.
type GroupDensity struct {
	Group  string         `json:"group"`
	Mean   float64        `json:"mean"`
	Points []DensityPoint `json:"points"`
}

// TopGroups returns the five values of a list column with the highest mean
// average rating among games published within [yearIn, yearOut] inclusive.
func TopGroups(table Table, col Column, yearIn, yearOut int) []GroupRating {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range table {
		g := &table[i]
		if g.YearPublished < yearIn || g.YearPublished > yearOut {
			continue
		}
		for _, v := range g.Values(col) {
			sums[v] += g.AverageRating
			counts[v]++
		}
	}

	out := make([]GroupRating, 0, len(sums))
	for v, sum := range sums {
		out = append(out, GroupRating{Value: v, AverageRating: sum / float64(counts[v])})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].AverageRating != out[b].AverageRating {
			return out[a].AverageRating > out[b].AverageRating
		}
		return out[a].Value < out[b].Value
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// CountByYear counts games per publication year, ascending by year.
func CountByYear(table Table) []YearCount {
	counts := make(map[int]int)
	for i := range table {
		counts[table[i].YearPublished]++
	}
	out := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Year < out[b].Year })
	return out
}

// BinRating buckets a rating into half-point bins.
func BinRating(rating float64) float64 {
	return math.Round(rating*2) / 2
}

// DensityTransform builds each group's rating distribution over half-point
// bins, normalized so the most populated bin of a group sits at 1.0. Groups
// are sorted by name, bins ascending.
func DensityTransform(grouped []Grouped) []GroupDensity {
	type acc struct {
		bins  map[float64]int
		sum   float64
		count int
	}
	accs := make(map[string]*acc)
	for _, g := range ExplodeGroups(grouped) {
		name := g.Group[0]
		a, ok := accs[name]
		if !ok {
			a = &acc{bins: make(map[float64]int)}
			accs[name] = a
		}
		a.bins[BinRating(g.AverageRating)]++
		a.sum += g.AverageRating
		a.count++
	}

	out := make([]GroupDensity, 0, len(accs))
	for name, a := range accs {
		peak := 0
		for _, n := range a.bins {
			if n > peak {
				peak = n
			}
		}
		points := make([]DensityPoint, 0, len(a.bins))
		for bin, n := range a.bins {
			points = append(points, DensityPoint{Bin: bin, Density: float64(n) / float64(peak)})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Bin < points[j].Bin })
		out = append(out, GroupDensity{
			Group:  name,
			Mean:   a.sum / float64(a.count),
			Points: points,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// SubsetValues returns the distinct values of a list column in first-seen
// order.
func SubsetValues(table Table, col Column) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range table {
		for _, v := range table[i].Values(col) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// ToPlotRecords projects grouped games down to the columns time-series
// reporting needs.
func ToPlotRecords(grouped []Grouped) []PlotRecord {
	var out []PlotRecord
	for _, g := range ExplodeGroups(grouped) {
		out = append(out, PlotRecord{
			Name:          g.Name,
			YearPublished: g.YearPublished,
			AverageRating: g.AverageRating,
			Group:         g.Group[0],
		})
	}
	return out
}
