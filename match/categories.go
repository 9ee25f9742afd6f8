package match

import "sort"

// categoryKeywords maps category labels to the normalized keywords that
// signal a query belongs to that category. Used by the semantic stage to
// narrow the candidate set before falling back to a full scan.
var categoryKeywords = map[string][]string{
	"greeting": {"hello", "hi", "chao", "xin"},
	"pricing":  {"price", "cost", "fee", "gia", "phi", "tien", "bao", "nhieu"},
	"shipping": {"ship", "shipping", "delivery", "giao", "hang", "van", "chuyen"},
	"account":  {"account", "password", "login", "tai", "khoan", "mat", "khau"},
	"support":  {"help", "support", "error", "problem", "loi", "tro", "giup"},
}

// detectCategory returns the category whose keyword group overlaps the query
// tokens the most, or "" when none overlap. Ties break alphabetically so the
// result is deterministic.
func detectCategory(tokens []string) string {
	query := tokenSet(tokens)

	names := make([]string, 0, len(categoryKeywords))
	for name := range categoryKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestOverlap := 0
	for _, name := range names {
		overlap := 0
		for _, kw := range categoryKeywords[name] {
			if _, ok := query[kw]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = name
			bestOverlap = overlap
		}
	}
	return best
}
