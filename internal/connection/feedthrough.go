package connection

// isFeedThroughShape reports whether src -> dst has the shape that
// matters for direct-feedthrough checking: an input connected directly
// to an output of the very same reactor. Any other pairing (including
// an input feeding a child's input, or a child's output bubbling to
// the connector's own output) can never by itself create a zero-delay
// loop back through a reactor's own reaction graph, since those shapes
// never place an output ahead of its own reactor's input in the same
// connection.
//
// This replaces an earlier, narrower design this runtime does not
// carry: a purely "local" check that only looked at the two ports
// being connected and nothing else. That check would miss a
// feedthrough introduced transitively through an intermediate
// reaction several hops downstream. Here the shape check only
// identifies *candidates*; program.rebuild's precedence-graph cycle
// detection (seeded with the same producer/consumer edges every other
// connection uses) is what actually proves whether a candidate closes
// a loop, so the check is global rather than local.
func isFeedThroughShape(src, dst endpoint) bool {
	if !src.IsInput() || dst.IsInput() {
		return false
	}
	return src.Parent() == dst.Parent()
}
