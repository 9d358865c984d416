package sequence

import "container/heap"

// PriorityItem is a queued value. Lower Priority values dequeue first, then
// lower Rank; items equal on both dequeue in the order they were enqueued.
type PriorityItem[T any] struct {
	Value    T
	Priority int
	Rank     int
	seq      uint64
}

type priorityQueue[T any] struct {
	items []*PriorityItem[T]
}

func (pq *priorityQueue[T]) Len() int {
	return len(pq.items)
}

func (pq *priorityQueue[T]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.seq < b.seq
}

func (pq *priorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *priorityQueue[T]) Push(x any) {
	pq.items = append(pq.items, x.(*PriorityItem[T]))
}

func (pq *priorityQueue[T]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	pq.items = old[0 : n-1]
	return item
}

// PriorityQueue is a stable min-priority queue. It is not safe for concurrent use.
type PriorityQueue[T any] struct {
	pq   priorityQueue[T]
	next uint64
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	heap.Init(&pq.pq)
	return pq
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority, rank int) {
	heap.Push(&pq.pq, &PriorityItem[T]{
		Value:    value,
		Priority: priority,
		Rank:     rank,
		seq:      pq.next,
	})
	pq.next++
}

// Dequeue pops the head. The enqueue counter restarts once the queue is empty.
func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	if pq.pq.Len() == 0 {
		var zero T
		return zero, false
	}
	item := heap.Pop(&pq.pq).(*PriorityItem[T])
	if pq.pq.Len() == 0 {
		pq.next = 0
	}
	return item.Value, true
}

// RemoveFunc drops every item whose value matches and returns how many went.
func (pq *PriorityQueue[T]) RemoveFunc(match func(T) bool) int {
	kept := pq.pq.items[:0]
	for _, item := range pq.pq.items {
		if !match(item.Value) {
			kept = append(kept, item)
		}
	}
	removed := len(pq.pq.items) - len(kept)
	clear(pq.pq.items[len(kept):])
	pq.pq.items = kept
	heap.Init(&pq.pq)
	return removed
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.pq.Len()
}
