package tracer

import (
	"github.com/achilleasa/octrace/asset/record"
)

const nilElement = -1

type queueElement struct {
	node     record.Index
	distance float32

	// Index of the next element in the queue or free list.
	next int
}

// PriorityQueue is a fixed-capacity min-priority queue of octree nodes keyed
// by ray distance. Elements live in a preallocated pool and are chained into
// a sorted linked list so the queue never allocates after construction.
type PriorityQueue struct {
	elements []queueElement
	head     int
	free     int
	len      int
}

// Create a queue that can hold up to capacity nodes.
func NewPriorityQueue(capacity int) *PriorityQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := &PriorityQueue{
		elements: make([]queueElement, capacity),
	}
	q.Reset()
	return q
}

// Reset empties the queue.
func (q *PriorityQueue) Reset() {
	for i := range q.elements {
		q.elements[i].next = i + 1
	}
	q.elements[len(q.elements)-1].next = nilElement
	q.head = nilElement
	q.free = 0
	q.len = 0
}

// Len returns the number of queued nodes.
func (q *PriorityQueue) Len() int {
	return q.len
}

// Cap returns the queue capacity.
func (q *PriorityQueue) Cap() int {
	return len(q.elements)
}

// Push adds a node to the queue. Nodes with equal distances are popped in
// insertion order. Push returns false if the queue is full.
func (q *PriorityQueue) Push(node record.Index, distance float32) bool {
	if q.free == nilElement {
		return false
	}

	slot := q.free
	q.free = q.elements[slot].next
	q.elements[slot].node = node
	q.elements[slot].distance = distance

	prev := nilElement
	cur := q.head
	for cur != nilElement && q.elements[cur].distance <= distance {
		prev, cur = cur, q.elements[cur].next
	}

	q.elements[slot].next = cur
	if prev == nilElement {
		q.head = slot
	} else {
		q.elements[prev].next = slot
	}
	q.len++
	return true
}

// Peek returns the distance of the nearest queued node without removing it.
func (q *PriorityQueue) Peek() (distance float32, ok bool) {
	if q.head == nilElement {
		return 0, false
	}
	return q.elements[q.head].distance, true
}

// Pop removes and returns the nearest queued node.
func (q *PriorityQueue) Pop() (node record.Index, distance float32, ok bool) {
	if q.head == nilElement {
		return record.Nil, 0, false
	}

	slot := q.head
	q.head = q.elements[slot].next
	q.elements[slot].next = q.free
	q.free = slot
	q.len--

	return q.elements[slot].node, q.elements[slot].distance, true
}
