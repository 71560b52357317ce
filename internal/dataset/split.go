package dataset

// SplitList splits a raw list-column cell into its entries. The separator is
// a comma NOT followed by a space or '+': names like "Legumes,+Beans" and
// "Corné van Moorsel, Cwali" contain literal commas that must survive.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '+') {
			continue
		}
		out = append(out, s[start:i])
		start = i + 1
	}
	out = append(out, s[start:])
	return out
}

// JoinList is the inverse of SplitList for round-tripping through CSV.
func JoinList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	out := values[0]
	for _, v := range values[1:] {
		out += "," + v
	}
	return out
}
