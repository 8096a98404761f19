package similarity

import "strings"

// Text returns the token-overlap similarity of two free-text strings:
// the fraction of the union of their whitespace-split, lower-cased tokens
// that appears in both. Tokens keep punctuation; no stemming. Symmetric,
// and 0 when both strings are empty.
func Text(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	union := make(map[string]struct{}, len(tokensA)+len(tokensB))
	for t := range tokensA {
		union[t] = struct{}{}
	}
	for t := range tokensB {
		union[t] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}

	hits := 0
	for t := range union {
		if _, inA := tokensA[t]; !inA {
			continue
		}
		if _, inB := tokensB[t]; inB {
			hits++
		}
	}
	return float64(hits) / float64(len(union))
}

func tokenSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
