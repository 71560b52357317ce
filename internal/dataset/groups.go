package dataset

// Radio filters games to those matching at least one selected value in the
// column, then annotates each with its group: the intersection of the game's
// values and the selection. When more than one value is selected, games
// matching the entire selection collapse into the single "All Selected"
// group. Games left with an empty group are dropped.
func Radio(table Table, col Column, selections []string) []Grouped {
	subset := FilterAny(table, col, selections)

	var out []Grouped
	for i := range subset {
		group := intersect(subset[i].Values(col), selections)
		if len(selections) > 1 && containsAll(group, selections) {
			group = []string{"All Selected"}
		}
		if len(group) == 0 {
			continue
		}
		out = append(out, Grouped{Game: subset[i], Group: group})
	}
	return out
}

// ExplodeGroups flattens grouped games so each game appears once per group
// it belongs to.
func ExplodeGroups(grouped []Grouped) []Grouped {
	var out []Grouped
	for _, g := range grouped {
		for _, name := range g.Group {
			out = append(out, Grouped{Game: g.Game, Group: []string{name}})
		}
	}
	return out
}

// intersect preserves selection order so group labels are stable across runs.
func intersect(have, want []string) []string {
	var out []string
	for _, w := range want {
		if contains(have, w) {
			out = append(out, w)
		}
	}
	return out
}
