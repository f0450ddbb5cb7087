// Package scheduler implements the discrete-event main loop: a min-heap
// event queue ordered by tag, the tag-processing loop, deadline
// enforcement, and the federated hook stub. It is the one package that
// drives internal/reactor and internal/connection end to end.
package scheduler

import (
	"container/heap"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// TaggedEvent is one entry in the event queue: a trigger becoming
// present at tag, with the closure that actually marks it present and
// (for actions) stores its scheduled value. seq breaks ties between
// events scheduled at the identical tag for the identical trigger, in
// scheduling order, so the queue's pop order is deterministic even
// when producers race to call PushEvent.
type TaggedEvent struct {
	Tag     domain.Tag
	Trigger reactor.Trigger
	Deliver func()
	seq     uint64
}

// eventHeap implements container/heap.Interface over a slice of
// *TaggedEvent, ordered by (Tag, seq): the event queue orders pending
// events by tag, breaking ties by scheduling order.
type eventHeap []*TaggedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if c := h[i].Tag.Compare(h[j].Tag); c != 0 {
		return c < 0
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*TaggedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

var (
	_ heap.Interface = (*eventHeap)(nil)
)
