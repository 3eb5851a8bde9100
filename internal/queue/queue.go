// Package queue provides a generic FIFO queue.
package queue

import "errors"

// Queue is a first-in first-out queue. The zero value is an empty queue.
type Queue[E any] struct {
	elements []E
	head     int
}

func (q *Queue[E]) Push(e E) {
	q.elements = append(q.elements, e)
}

func (q *Queue[E]) Empty() bool {
	return q.head == len(q.elements)
}

func (q *Queue[E]) Len() int {
	return len(q.elements) - q.head
}

var ErrEmpty = errors.New("Queue is empty")

// Pop removes and returns the earliest pushed element. It panics on an empty
// queue.
func (q *Queue[E]) Pop() E {
	if q.Empty() {
		panic(ErrEmpty)
	}

	e := q.elements[q.head]
	// Drop the reference so popped elements can be collected.
	var zero E
	q.elements[q.head] = zero
	q.head++

	if q.head == len(q.elements) {
		q.elements = q.elements[:0]
		q.head = 0
	}
	return e
}
