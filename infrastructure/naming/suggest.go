package naming

import "github.com/agnivade/levenshtein"

// Suggest returns the candidate with the smallest Levenshtein distance
// (after case folding) to target, or "" if candidates is empty. Ties
// are broken lexically, so the result is deterministic across runs —
// required since it feeds into error messages that tests may assert
// on.
func Suggest(candidates []string, target string) string {
	if len(candidates) == 0 {
		return ""
	}
	normTarget := Normalize(target)

	best := candidates[0]
	bestDist := levenshtein.ComputeDistance(Normalize(best), normTarget)

	for _, c := range candidates[1:] {
		dist := levenshtein.ComputeDistance(Normalize(c), normTarget)
		if dist < bestDist || (dist == bestDist && c < best) {
			best = c
			bestDist = dist
		}
	}
	return best
}
