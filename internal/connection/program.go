// Package connection implements port-to-port connection wiring with its
// validity rules, and the mutation protocol that lets a
// privileged reaction rewire the graph mid-execution. It operates
// entirely on the exported surface of internal/reactor and
// internal/pgraph; it owns no reactor-internal state of its own beyond
// the Program bookkeeping below.
package connection

import (
	"github.com/ahrav/reactor-core/internal/pgraph"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// linkedPort is the connection record retained for graph rebuilding:
// enough to redrive precedence edges without needing the original
// typed *Port[T] values.
type linkedPort struct {
	fqName  string
	isInput bool
}

type link struct {
	src linkedPort
	dst linkedPort
}

// Program tracks every live connection in a reactor tree together with
// the precedence graph computed from it. It is the unit the connection
// and mutation engine operate against; internal/scheduler owns one per
// running App.
type Program struct {
	root  *reactor.Reactor
	graph *pgraph.Graph
	links []link
}

// NewProgram constructs a Program rooted at root and computes its
// initial precedence graph (rule (a) chain edges only, since no
// connections exist yet).
func NewProgram(root *reactor.Reactor) (*Program, error) {
	p := &Program{root: root, graph: pgraph.New()}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// Graph returns the current precedence graph. Callers must not mutate
// it directly; only Connect/Disconnect/RunMutation change it.
func (p *Program) Graph() *pgraph.Graph { return p.graph }

// Rebuild recomputes the precedence graph from the current reactor
// tree and link set. Callers that add reactions or reactors to the
// tree after constructing a Program (the usual order: wire ports and
// connections first, finish attaching reactions after, or vice versa)
// must call Rebuild once construction is complete and before the
// program runs, since Connect/Disconnect only rebuild from the link
// set and reactions present at the time they were called.
func (p *Program) Rebuild() error { return p.rebuild() }

// rebuild recomputes the entire precedence graph from the current
// reactor tree and link set: node/edge construction is a full rebuild
// rather than an incremental diff, trading a little CPU on each
// mutation for a much simpler, obviously-correct implementation. Since
// graph mutations only ever happen inside mutation reactions — never
// once per tag — this cost is bounded by program size, not by runtime
// duration.
func (p *Program) rebuild() error {
	g := pgraph.New()
	triggeredBy := make(map[string][]*reactor.Reaction)
	writtenBy := make(map[string][]*reactor.Reaction)

	var walk func(r *reactor.Reactor)
	walk = func(r *reactor.Reactor) {
		meta := pgraph.NodeMeta{Depth: r.Depth(), Priority: r.SiblingIndex()}
		reactions := r.Reactions()
		for _, rec := range reactions {
			g.AddNode(rec.FQName(), meta)
			for _, trig := range rec.Triggers() {
				triggeredBy[trig.FQName()] = append(triggeredBy[trig.FQName()], rec)
			}
			for _, w := range rec.Writes() {
				writtenBy[w.FQName()] = append(writtenBy[w.FQName()], rec)
			}
		}
		// Rule (a): earlier-registered reactions precede later ones,
		// within the same reactor.
		for i := 1; i < len(reactions); i++ {
			if err := g.AddEdge(reactions[i-1].FQName(), reactions[i].FQName(), "rule a"); err != nil {
				// Same-reactor registration order can never legitimately
				// cycle; surfacing here would indicate a bug upstream.
				_ = err
			}
		}
		for _, child := range r.Children() {
			walk(child)
		}
	}
	walk(p.root)

	related := func(ep linkedPort) []*reactor.Reaction {
		if ep.isInput {
			return triggeredBy[ep.fqName]
		}
		return writtenBy[ep.fqName]
	}

	// portFwd records, for every port that is itself the source of a
	// link, the ports it forwards into. A boundary port with no
	// reaction of its own (a container's pass-through input delegating
	// straight into a child's input) is both the destination of one
	// link and the source of another; walking portFwd lets a producer
	// on one side of such a chain reach a consumer on the other,
	// instead of the chain going dark at the unattached port.
	portFwd := make(map[string][]linkedPort)
	for _, l := range p.links {
		portFwd[l.src.fqName] = append(portFwd[l.src.fqName], l.dst)
	}

	// portsReachableFrom returns every port downstream of start by one
	// or more links, including ports with no locally-attached reaction.
	portsReachableFrom := func(start linkedPort) []linkedPort {
		seen := map[string]bool{start.fqName: true}
		queue := []linkedPort{start}
		var out []linkedPort
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range portFwd[cur.fqName] {
				if seen[next.fqName] {
					continue
				}
				seen[next.fqName] = true
				out = append(out, next)
				queue = append(queue, next)
			}
		}
		return out
	}

	// Rule (b)/(c): connections extend precedence across reactor
	// boundaries, and compose transitively across a chain of
	// connections through boundary ports. See feedthrough.go for why
	// this same formula also catches direct-feedthrough candidates.
	for _, l := range p.links {
		producers := related(l.src)
		if len(producers) == 0 {
			continue
		}
		consumerPorts := append([]linkedPort{l.dst}, portsReachableFrom(l.dst)...)
		for _, cp := range consumerPorts {
			for _, consumer := range related(cp) {
				for _, producer := range producers {
					if producer == consumer {
						continue
					}
					if err := g.AddEdge(producer.FQName(), consumer.FQName(), cp.fqName); err != nil {
						return err
					}
				}
			}
		}
	}

	p.graph = g
	return nil
}
