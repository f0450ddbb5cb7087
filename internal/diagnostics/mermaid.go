// Package diagnostics renders two operator-facing views of a program: a
// Mermaid dump of the precedence graph and a hierarchy listing of the
// containment tree. Neither feeds back into
// the scheduler; both are read-only views over internal/connection and
// internal/reactor for operators inspecting a running or constructed
// program.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ahrav/reactor-core/internal/connection"
)

// Mermaid renders the precedence graph's current edges as a Mermaid
// flowchart, one "src -->|label| dst" line per edge, with reaction
// fully-qualified names as node ids and each edge labeled with the
// causing port (a rule (b)/(c) connection edge) or the precedence rule
// letter (a rule (a) same-reactor ordering edge). Output is
// deterministic: nodes and their successor lists are both visited in
// sorted order.
func Mermaid(p *connection.Program) string {
	g := p.Graph()
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	nodes := g.Nodes()
	sort.Strings(nodes)
	for _, src := range nodes {
		edges := g.SuccessorEdges(src)
		if len(edges) == 0 {
			fmt.Fprintf(&b, "    %s\n", mermaidID(src))
			continue
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
		for _, e := range edges {
			if e.Label == "" {
				fmt.Fprintf(&b, "    %s --> %s\n", mermaidID(src), mermaidID(e.To))
				continue
			}
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", mermaidID(src), e.Label, mermaidID(e.To))
		}
	}
	return b.String()
}

// mermaidID replaces the dots in a fully-qualified reaction name with
// underscores, since Mermaid node ids may not contain '.'.
func mermaidID(fqName string) string {
	return strings.ReplaceAll(fqName, ".", "_")
}
