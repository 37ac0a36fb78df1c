package session

import (
	"sync"

	"spirebridge/internal/domain/spire"
)

// PendingAction is an admitted action waiting for dispatch.
type PendingAction struct {
	Sequence uint64             `json:"sequence"`
	Intent   spire.ActionIntent `json:"intent"`
}

// ActionQueue is the FIFO of admitted actions. Admission always succeeds;
// readiness is the dispatcher's problem. The head is popped before dispatch,
// so Clear never touches an action already released to the stream.
type ActionQueue struct {
	mu      sync.Mutex
	items   []PendingAction
	nextSeq uint64

	enqueued chan struct{}
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{nextSeq: 1, enqueued: make(chan struct{}, 1)}
}

// Enqueue appends to the tail and assigns the next sequence number.
func (q *ActionQueue) Enqueue(intent spire.ActionIntent) PendingAction {
	q.mu.Lock()
	pa := PendingAction{Sequence: q.nextSeq, Intent: intent}
	q.nextSeq++
	q.items = append(q.items, pa)
	q.mu.Unlock()

	select {
	case q.enqueued <- struct{}{}:
	default:
	}
	return pa
}

// PopHead removes and returns the head of the queue.
func (q *ActionQueue) PopHead() (PendingAction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return PendingAction{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Clear drops every not-yet-dispatched action and returns how many.
func (q *ActionQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

func (q *ActionQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Enqueued wakes the dispatcher when the queue becomes non-empty.
func (q *ActionQueue) Enqueued() <-chan struct{} {
	return q.enqueued
}
