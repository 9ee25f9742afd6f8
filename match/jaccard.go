package match

// Similarity computes the Jaccard index over the token sets of two strings
// after normalization: |intersection| / |union|. Symmetric, in [0,1].
// Returns 0 when either string normalizes to zero usable tokens.
func Similarity(a, b string) float64 {
	return jaccard(tokenSet(Tokenize(a)), tokenSet(Tokenize(b)))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
