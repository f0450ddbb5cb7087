package scheduler

import (
	"container/heap"
	"sync"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// EventQueue is the scheduler's thread-safe event queue: any number of
// producers (action Schedule calls, physical-action goroutines, a
// federated hook) call PushEvent concurrently, while the single
// scheduler goroutine drains it with PeekTag and DrainTag. It implements
// reactor.EventSink so Action.Schedule never needs to know it exists
// as a concrete type.
type EventQueue struct {
	mu   sync.Mutex
	heap eventHeap
	seq  uint64
}

var _ reactor.EventSink = (*EventQueue)(nil)

// NewEventQueue constructs an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.heap)
	return q
}

// PushEvent enqueues trigger's deliver closure for tag. Safe for
// concurrent use by multiple producers.
func (q *EventQueue) PushEvent(tag domain.Tag, trigger reactor.Trigger, deliver func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	heap.Push(&q.heap, &TaggedEvent{Tag: tag, Trigger: trigger, Deliver: deliver, seq: q.seq})
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// PeekTag returns the tag of the earliest pending event and true, or
// the zero Tag and false if the queue is empty.
func (q *EventQueue) PeekTag() (domain.Tag, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.heap.Len() == 0 {
		return domain.Tag{}, false
	}
	return q.heap[0].Tag, true
}

// DrainTag pops and returns every pending event whose tag equals tag,
// in pop order (which respects scheduling order among ties), leaving
// later-tagged events in the queue.
func (q *EventQueue) DrainTag(tag domain.Tag) []*TaggedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	var drained []*TaggedEvent
	for q.heap.Len() > 0 && q.heap[0].Tag.Equal(tag) {
		drained = append(drained, heap.Pop(&q.heap).(*TaggedEvent))
	}
	return drained
}
