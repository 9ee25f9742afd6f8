package match

// Confidence maps a raw similarity score to a discretized confidence band.
// The banding absorbs floating-point noise near round similarity values and
// gives stable tiers to present to operators:
//
//	>= 1.0       -> 1.0
//	[0.9, 1.0)   -> 0.95
//	[0.8, 0.9)   -> 0.85
//	[0.7, 0.8)   -> 0.75
//	< 0.7        -> similarity (pass-through)
//
// Monotonically non-decreasing in similarity.
func Confidence(similarity float64) float64 {
	switch {
	case similarity >= 1.0:
		return 1.0
	case similarity >= 0.9:
		return 0.95
	case similarity >= 0.8:
		return 0.85
	case similarity >= 0.7:
		return 0.75
	default:
		return similarity
	}
}
