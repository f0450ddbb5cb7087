// Package naming provides Unicode-aware name normalization and
// nearest-match suggestions for dotted component names, built on
// golang.org/x/text/cases case folding and github.com/agnivade/levenshtein
// distance. It backs the "did you mean" suggestions attached to
// OutsideContainer and similar lookup errors.
package naming

import "golang.org/x/text/cases"

var foldCaser = cases.Fold()

// Normalize case-folds a dotted component name for comparison purposes.
// It never changes a name used for identity or routing — only for
// fuzzy-matching diagnostics.
func Normalize(name string) string {
	return foldCaser.String(name)
}
