package sim

import (
	"container/heap"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// scheduledEvent is the queue envelope around an immutable event payload.
// The lifecycle status lives here, not on the event.
type scheduledEvent struct {
	event  entities.Event
	week   int
	seq    int64
	status entities.EventStatus
}

// eventQueue is a min-heap ordered by scheduled week, ties broken by
// insertion sequence so same-week events process in FIFO order. The total
// order over events is what makes runs deterministic.
type eventQueue struct {
	entries []*scheduledEvent
	nextSeq int64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init((*eventHeap)(q))
	return q
}

// Push schedules an event for future processing.
func (q *eventQueue) Push(ev entities.Event) {
	entry := &scheduledEvent{
		event:  ev,
		week:   ev.At(),
		seq:    q.nextSeq,
		status: entities.StatusScheduled,
	}
	q.nextSeq++
	heap.Push((*eventHeap)(q), entry)
}

// Pop removes and returns the earliest scheduled event.
func (q *eventQueue) Pop() *scheduledEvent {
	return heap.Pop((*eventHeap)(q)).(*scheduledEvent)
}

// Peek returns the earliest scheduled event without removing it.
func (q *eventQueue) Peek() *scheduledEvent {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// Len returns the number of scheduled events.
func (q *eventQueue) Len() int {
	return len(q.entries)
}

// eventHeap adapts eventQueue to container/heap.
type eventHeap eventQueue

func (h *eventHeap) Len() int { return len(h.entries) }

func (h *eventHeap) Less(i, j int) bool {
	if h.entries[i].week != h.entries[j].week {
		return h.entries[i].week < h.entries[j].week
	}
	return h.entries[i].seq < h.entries[j].seq
}

func (h *eventHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *eventHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(*scheduledEvent))
}

func (h *eventHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	h.entries = old[:n-1]
	return entry
}
