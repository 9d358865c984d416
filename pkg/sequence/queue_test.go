package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain[T any](pq *PriorityQueue[T]) []T {
	var out []T
	for v, ok := pq.Dequeue(); ok; v, ok = pq.Dequeue() {
		out = append(out, v)
	}
	return out
}

func TestPriorityQueueAscending(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("c", 30, 0)
	pq.Enqueue("a", -5, 0)
	pq.Enqueue("b", 10, 0)

	assert.Equal(t, []string{"a", "b", "c"}, drain(pq))
	assert.Zero(t, pq.Len())

	_, ok := pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueRankBreaksTies(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("late-rank", 1, 2)
	pq.Enqueue("early-rank", 1, 0)
	pq.Enqueue("first", 0, 9)
	pq.Enqueue("early-rank-again", 1, 0)

	assert.Equal(t, []string{"first", "early-rank", "early-rank-again", "late-rank"}, drain(pq))
}

func TestPriorityQueueStableForEqualKeys(t *testing.T) {
	pq := NewPriorityQueue[int]()
	for i := 0; i < 50; i++ {
		pq.Enqueue(i, i%3, 0)
	}
	out := drain(pq)
	var last = map[int]int{0: -1, 1: -1, 2: -1}
	for idx, v := range out {
		prio := v % 3
		assert.Greater(t, v, last[prio], "value %d out of insertion order", v)
		last[prio] = v
		if idx > 0 {
			assert.LessOrEqual(t, out[idx-1]%3, prio)
		}
	}
}

func TestPriorityQueueRemoveFunc(t *testing.T) {
	pq := NewPriorityQueue[int]()
	for i := 0; i < 10; i++ {
		pq.Enqueue(i, 10-i, 0)
	}

	removed := pq.RemoveFunc(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 5, removed)
	assert.Equal(t, []int{9, 7, 5, 3, 1}, drain(pq))
	assert.Zero(t, pq.RemoveFunc(func(int) bool { return true }))
}
