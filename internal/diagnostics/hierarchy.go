package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ahrav/reactor-core/internal/reactor"
)

// Hierarchy renders the containment tree rooted at root as an indented
// listing: each reactor's FQName, followed by its named components and
// reactions, one per line, children indented two spaces deeper than
// their parent. Component and reaction names within a reactor are
// sorted for deterministic output.
func Hierarchy(root *reactor.Reactor) string {
	var b strings.Builder
	writeReactor(&b, root, 0)
	return b.String()
}

func writeReactor(b *strings.Builder, r *reactor.Reactor, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s [%s]\n", indent, r.FQName(), r.State())

	names := make([]string, 0, len(r.Components()))
	for name := range r.Components() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "%s  %s\n", indent, name)
	}

	for _, rec := range r.Reactions() {
		kind := "reaction"
		if rec.IsMutation() {
			kind = "mutation"
		} else if rec.IsProcedure() {
			kind = "procedure"
		}
		fmt.Fprintf(b, "%s  (%s) %s\n", indent, kind, rec.FQName())
	}

	for _, child := range r.Children() {
		writeReactor(b, child, depth+1)
	}
}
