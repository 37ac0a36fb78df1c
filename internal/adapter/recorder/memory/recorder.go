// Package memory holds run fixtures in process memory. Useful for tests
// and for serving the replay endpoint without any external storage.
package memory

import (
	"context"
	"sync"

	"spirebridge/internal/app/ports"
)

type Recorder struct {
	mu         sync.Mutex
	states     []ports.StateRecord
	dispatches []ports.DispatchRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordState(_ context.Context, rec ports.StateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, rec)
	return nil
}

func (r *Recorder) RecordDispatch(_ context.Context, rec ports.DispatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, rec)
	return nil
}

// ListStates returns the most recent records first.
func (r *Recorder) ListStates(_ context.Context, limit int) ([]ports.StateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.states) {
		limit = len(r.states)
	}
	out := make([]ports.StateRecord, 0, limit)
	for i := len(r.states) - 1; i >= len(r.states)-limit; i-- {
		out = append(out, r.states[i])
	}
	return out, nil
}

func (r *Recorder) Dispatches() []ports.DispatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.DispatchRecord, len(r.dispatches))
	copy(out, r.dispatches)
	return out
}
