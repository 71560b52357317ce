package dataset

import "sort"

// FilterAll returns games matched on all three list columns at once, sorted
// by average rating descending. Each column keeps only games carrying every
// requested value; a selection that matches nothing flips to match-all so a
// bad pick in one column never blanks the whole result. n limits the output
// when positive.
func FilterAll(table Table, categories, mechanics, publishers []string, n int) Table {
	catBool := matchAllWithFallback(table, ColCategory, categories)
	mechBool := matchAllWithFallback(table, ColMechanic, mechanics)
	pubBool := matchAllWithFallback(table, ColPublisher, publishers)

	var out Table
	for i := range table {
		if catBool[i] && mechBool[i] && pubBool[i] {
			out = append(out, table[i])
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].AverageRating > out[b].AverageRating
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FilterAny returns games carrying at least one of the requested values in
// the column.
func FilterAny(table Table, col Column, values []string) Table {
	var out Table
	for i := range table {
		if containsAny(table[i].Values(col), values) {
			out = append(out, table[i])
		}
	}
	return out
}

// RatingFilter returns games with at least minRatings user ratings.
func RatingFilter(table Table, minRatings int) Table {
	if minRatings <= 0 {
		return table
	}
	var out Table
	for i := range table {
		if table[i].UsersRated >= minRatings {
			out = append(out, table[i])
		}
	}
	return out
}

// matchAllWithFallback marks games carrying every value in the selection.
// If the selection matches no game at all, every mark flips to true.
func matchAllWithFallback(table Table, col Column, values []string) []bool {
	marks := make([]bool, len(table))
	any := false
	for i := range table {
		if containsAll(table[i].Values(col), values) {
			marks[i] = true
			any = true
		}
	}
	if !any {
		for i := range marks {
			marks[i] = true
		}
	}
	return marks
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !contains(have, w) {
			return false
		}
	}
	return true
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(have []string, want string) bool {
	for _, h := range have {
		if h == want {
			return true
		}
	}
	return false
}
